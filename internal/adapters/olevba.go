package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
)

// Saída de `olevba --json`: um array com um elemento MetaInformation
// seguido de um elemento por arquivo analisado.
type olevbaEntry struct {
	File      string            `json:"file"`
	Type      string            `json:"type"`
	Container *string           `json:"container"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Analysis  []json.RawMessage `json:"analysis"`
	Macros    []struct {
		VBAFilename string `json:"vba_filename"`
		SubFilename string `json:"subfilename"`
		OLEStream   string `json:"ole_stream"`
		Code        string `json:"code"`
	} `json:"macros"`
}

type olevbaAnalysis struct {
	Type        *string `json:"type"`
	Keyword     *string `json:"keyword"`
	Description *string `json:"description"`
}

// OlevbaReport é o resultado normalizado de um arquivo.
type OlevbaReport struct {
	File       string
	Container  string
	HasMacros  bool
	Indicators []model.RawIndicator
	Macros     []model.Macro
}

var (
	ErrNoFileEntry = errors.New("olevba não reportou nenhum arquivo")
	ErrBadAnalysis = errors.New("indicador do olevba fora do formato (type, keyword, description)")
)

// EngineError é um erro reportado pelo próprio olevba (type "error").
type EngineError struct {
	File    string
	Kind    string
	Message string
}

func (e *EngineError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = e.Kind
	}
	return fmt.Sprintf("olevba falhou em %s: %s", e.File, msg)
}

func ParseOlevbaBytes(b []byte) (*OlevbaReport, error) {
	var entries []olevbaEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, errors.Wrap(err, "erro ao fazer parse do JSON do olevba")
	}

	for _, e := range entries {
		if e.Type == "MetaInformation" || e.File == "" {
			continue
		}
		if e.Type == "error" {
			return nil, &EngineError{File: e.File, Kind: e.Error, Message: e.Message}
		}
		return toReport(e)
	}
	return nil, ErrNoFileEntry
}

func ParseOlevbaFile(path string) (*OlevbaReport, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOlevbaBytes(b)
}

func toReport(e olevbaEntry) (*OlevbaReport, error) {
	rep := &OlevbaReport{
		File: e.File,
		// analysis vem null quando não há macros
		HasMacros: len(e.Macros) > 0 || e.Analysis != nil,
	}
	if e.Container != nil {
		rep.Container = *e.Container
	}

	for i, raw := range e.Analysis {
		var a olevbaAnalysis
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "indicador #%d", i), ErrBadAnalysis)
		}
		if a.Type == nil || a.Keyword == nil || a.Description == nil {
			return nil, errors.Wrapf(ErrBadAnalysis, "indicador #%d: %s", i, string(raw))
		}
		rep.Indicators = append(rep.Indicators, model.RawIndicator{
			Kind:        *a.Type,
			Keyword:     *a.Keyword,
			Description: *a.Description,
		})
	}

	for _, m := range e.Macros {
		rep.Macros = append(rep.Macros, model.Macro{
			Filename:    firstNonEmpty(m.SubFilename, e.File),
			StreamPath:  m.OLEStream,
			VBAFilename: m.VBAFilename,
			Code:        m.Code,
		})
	}
	return rep, nil
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
