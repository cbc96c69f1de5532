package ranking

import (
	"sort"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
)

// Rank ordena por severidade (HIGH, MEDIUM, LOW) mantendo a ordem do engine
// dentro de cada nível. Devolve uma cópia; a entrada não é alterada.
func Rank(in []model.ClassifiedIndicator) []model.ClassifiedIndicator {
	out := make([]model.ClassifiedIndicator, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}
