package report

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
)

// NoMacrosNotice é impresso no lugar da tabela quando o documento não tem macros.
const NoMacrosNotice = "O documento não contém macros."

var Header = []string{"Severity", "Type", "Keyword", "Description"}

func cells(r model.ClassifiedIndicator) []string {
	return []string{r.Severity.Display(), r.Kind, r.Keyword, r.Description}
}

// Table monta a tabela ASCII com larguras calculadas por coluna.
func Table(rows []model.ClassifiedIndicator) string {
	grid := make([][]string, 0, len(rows))
	for _, r := range rows {
		grid = append(grid, cells(r))
	}

	widths := make([]int, len(Header))
	for i, h := range Header {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range grid {
		for i, c := range row {
			if n := utf8.RuneCountInString(c); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	border := borderLine(widths)

	b.WriteString(border)
	writeRow(&b, Header, widths)
	b.WriteString(border)
	for _, row := range grid {
		writeRow(&b, row, widths)
		b.WriteString(border)
	}
	return b.String()
}

func RenderTable(w io.Writer, rows []model.ClassifiedIndicator) error {
	if _, err := io.WriteString(w, Table(rows)); err != nil {
		return errors.Wrap(err, "escrever tabela")
	}
	return nil
}

func borderLine(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

func writeRow(b *strings.Builder, row []string, widths []int) {
	b.WriteByte('|')
	for i, c := range row {
		b.WriteByte(' ')
		b.WriteString(c)
		b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c)))
		b.WriteString(" |")
	}
	b.WriteByte('\n')
}
