package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func upper(s string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}

// Display é o texto da severidade como aparece no relatório.
func (s Severity) Display() string {
	return upper(string(s))
}
