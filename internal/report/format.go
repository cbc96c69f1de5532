package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/sarif"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

const (
	ToolName    = "macroguard"
	ToolVersion = "1.0.0"
)

var ErrUnknownFormat = errors.New("formato de saída não suportado")

// ParseFormat aceita table, json e sarif; vazio equivale a table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatSARIF:
		return f, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q (use table, json ou sarif)", s)
	}
}

type jsonIndicator struct {
	Severity    string `json:"severity"`
	Type        string `json:"type"`
	Keyword     string `json:"keyword"`
	Description string `json:"description"`
}

// Render escreve os indicadores já ranqueados no formato pedido.
// artifact é o caminho do documento, usado como location no SARIF.
func Render(w io.Writer, format Format, rows []model.ClassifiedIndicator, artifact string) error {
	switch format {
	case FormatTable, "":
		return RenderTable(w, rows)

	case FormatJSON:
		out := make([]jsonIndicator, 0, len(rows))
		for _, r := range rows {
			out = append(out, jsonIndicator{
				Severity:    r.Severity.Display(),
				Type:        r.Kind,
				Keyword:     r.Keyword,
				Description: r.Description,
			})
		}
		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errors.Wrap(err, "erro ao gerar JSON")
		}
		_, err = fmt.Fprintln(w, string(encoded))
		return errors.Wrap(err, "escrever JSON")

	case FormatSARIF:
		return sarif.Write(w, sarif.FromIndicators(rows, ToolName, ToolVersion, artifact))
	}

	return errors.Wrapf(ErrUnknownFormat, "%q", format)
}

// RenderNotice escreve o aviso de documento sem macros.
func RenderNotice(w io.Writer) error {
	_, err := fmt.Fprintln(w, NoMacrosNotice)
	return errors.Wrap(err, "escrever aviso")
}
