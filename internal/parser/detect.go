package parser

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipMagic = []byte("PK\x03\x04")
)

var flatExtensions = map[string]bool{
	".xml":   true,
	".mht":   true,
	".mhtml": true,
}

var macroExtensions = map[string]bool{
	".docm": true, ".dotm": true,
	".xlsm": true, ".xltm": true, ".xlam": true,
	".pptm": true, ".potm": true, ".ppsm": true, ".ppam": true,
	".doc": true, ".dot": true,
	".xls": true, ".xlt": true,
	".ppt": true, ".pps": true,
}

// DetectDocument identifica o contêiner do documento pelo cabeçalho.
// Só lê os primeiros bytes; o parsing do formato fica com o olevba.
func DetectDocument(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, errors.Wrap(err, "abrir documento")
	}
	defer f.Close()

	header := make([]byte, len(oleMagic))
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Document{}, errors.Wrap(err, "ler cabeçalho")
	}
	header = header[:n]

	doc := Document{Type: Unknown, Path: path}
	switch {
	case bytes.HasPrefix(header, oleMagic):
		doc.Type = OLE
	case bytes.HasPrefix(header, zipMagic):
		doc.Type = OOXML
	case flatExtensions[strings.ToLower(filepath.Ext(path))]:
		doc.Type = Flat
	}
	return doc, nil
}

// IsMacroEnabledExtension indica extensões de Office que podem carregar VBA.
func IsMacroEnabledExtension(path string) bool {
	return macroExtensions[strings.ToLower(filepath.Ext(path))]
}
