package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
)

const AnalysisBanner = "\n[+] Analisando macros em busca de código malicioso\n"

// RenderMacros imprime o código de cada macro extraída.
func RenderMacros(w io.Writer, macros []model.Macro) error {
	var b strings.Builder
	for _, m := range macros {
		b.WriteString(strings.Repeat("=", 60) + "\n")
		fmt.Fprintf(&b, "Arquivo: %s\n", m.Filename)
		fmt.Fprintf(&b, "Stream: %s\n", m.StreamPath)
		fmt.Fprintf(&b, "Nome VBA: %s\n", m.VBAFilename)
		b.WriteString(strings.Repeat("-", 60) + "\n")
		b.WriteString(m.Code)
		if !strings.HasSuffix(m.Code, "\n") {
			b.WriteByte('\n')
		}
	}
	if len(macros) > 0 {
		b.WriteString(AnalysisBanner + "\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "escrever macros")
	}
	return nil
}
