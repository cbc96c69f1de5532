package parser

type DocumentType string

const (
	OLE     DocumentType = "ole"   // .doc, .xls, .ppt (Compound File Binary)
	OOXML   DocumentType = "ooxml" // .docm, .xlsm, .pptm (zip)
	Flat    DocumentType = "flat"  // Word 2003 XML / MHTML
	Unknown DocumentType = "unknown"
)

type Document struct {
	Type DocumentType
	Path string
}
