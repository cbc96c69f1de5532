package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
)

func ind(sev model.Severity, kind string) model.ClassifiedIndicator {
	return model.ClassifiedIndicator{Severity: sev, Kind: kind, Keyword: kind + "-kw", Description: kind + "-desc"}
}

func TestRankOrdersBySeverity(t *testing.T) {
	in := []model.ClassifiedIndicator{
		ind(model.SevLow, "String"),
		ind(model.SevHigh, "Suspicious"),
	}

	got := Rank(in)

	assert.Equal(t, []model.ClassifiedIndicator{
		ind(model.SevHigh, "Suspicious"),
		ind(model.SevLow, "String"),
	}, got)
	// entrada intacta
	assert.Equal(t, model.SevLow, in[0].Severity)
}

func TestRankIsStable(t *testing.T) {
	in := []model.ClassifiedIndicator{
		ind(model.SevMedium, "m1"),
		ind(model.SevLow, "l1"),
		ind(model.SevHigh, "h1"),
		ind(model.SevMedium, "m2"),
		ind(model.SevHigh, "h2"),
		ind(model.SevLow, "l2"),
		ind(model.SevHigh, "h3"),
	}

	got := Rank(in)

	var kinds []string
	for _, g := range got {
		kinds = append(kinds, g.Kind)
	}
	assert.Equal(t, []string{"h1", "h2", "h3", "m1", "m2", "l1", "l2"}, kinds)
	assert.ElementsMatch(t, in, got)
}

func TestRankIdempotent(t *testing.T) {
	in := []model.ClassifiedIndicator{
		ind(model.SevLow, "a"),
		ind(model.SevMedium, "b"),
		ind(model.SevHigh, "c"),
		ind(model.SevLow, "d"),
	}
	once := Rank(in)
	assert.Equal(t, once, Rank(once))
}

func TestRankEdgeCases(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Rank(nil))
		assert.Empty(t, Rank([]model.ClassifiedIndicator{}))
	})

	t.Run("unknown_after_low", func(t *testing.T) {
		in := []model.ClassifiedIndicator{
			ind(model.Severity("CRITICAL"), "x"),
			ind(model.SevLow, "l"),
			ind(model.SevHigh, "h"),
		}
		got := Rank(in)
		assert.Equal(t, "h", got[0].Kind)
		assert.Equal(t, "l", got[1].Kind)
		assert.Equal(t, "x", got[2].Kind)
	})
}
