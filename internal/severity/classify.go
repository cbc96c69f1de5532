package severity

import (
	"strings"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
)

// Tabela fixa por tipo de indicador reportado pelo olevba.
var kindTable = map[string]model.Severity{
	"AutoExec":        model.SevHigh,
	"Suspicious":      model.SevHigh,
	"IOC":             model.SevHigh,
	"VBA obfuscation": model.SevMedium,
	"Hex":             model.SevMedium,
	"Base64":          model.SevMedium,
	"String":          model.SevLow,
}

var execKeywords = []string{"shell", "powershell", "wscript", "createobject"}

// indicator normalizado para as regras; keyword e desc em minúsculas.
type indicator struct {
	kind    string
	keyword string
	desc    string
}

// rule devolve o tier e true quando casa.
type rule func(in indicator) (model.Severity, bool)

func when(tier model.Severity, match func(in indicator) bool) rule {
	return func(in indicator) (model.Severity, bool) {
		if match(in) {
			return tier, true
		}
		return "", false
	}
}

func kindRule(table map[string]model.Severity) rule {
	return func(in indicator) (model.Severity, bool) {
		sev, ok := table[in.kind]
		return sev, ok
	}
}

// Regras por conteúdo, avaliadas em ordem depois da tabela por tipo.
var contentRules = []rule{
	when(model.SevHigh, func(in indicator) bool {
		for _, k := range execKeywords {
			if strings.Contains(in.keyword, k) {
				return true
			}
		}
		return false
	}),
	when(model.SevHigh, func(in indicator) bool {
		return strings.Contains(in.keyword, "http") || strings.Contains(in.desc, "url")
	}),
	when(model.SevMedium, func(in indicator) bool {
		return strings.Contains(in.desc, "encode") || strings.Contains(in.desc, "obfus")
	}),
}

// Classifier aplica a tabela por tipo e depois as regras por conteúdo.
// A primeira regra que casar vence; sem match, LOW.
type Classifier struct {
	rules []rule
}

var defaultClassifier = NewClassifier(nil)

// NewClassifier monta o classificador com tipos extras vindos da configuração.
// Os extras nunca sobrescrevem a tabela fixa e severidades inválidas são ignoradas.
func NewClassifier(extra map[string]model.Severity) *Classifier {
	table := make(map[string]model.Severity, len(kindTable)+len(extra))
	for k, v := range extra {
		if v.Valid() {
			table[k] = v
		}
	}
	for k, v := range kindTable {
		table[k] = v
	}

	rules := make([]rule, 0, len(contentRules)+1)
	rules = append(rules, kindRule(table))
	rules = append(rules, contentRules...)
	return &Classifier{rules: rules}
}

func (c *Classifier) Classify(kind, keyword, description string) model.Severity {
	in := indicator{
		kind:    kind,
		keyword: strings.ToLower(keyword),
		desc:    strings.ToLower(description),
	}
	for _, r := range c.rules {
		if sev, ok := r(in); ok {
			return sev
		}
	}
	return model.SevLow
}

// ClassifyAll classifica na mesma ordem em que o engine emitiu.
func (c *Classifier) ClassifyAll(raw []model.RawIndicator) []model.ClassifiedIndicator {
	out := make([]model.ClassifiedIndicator, 0, len(raw))
	for _, r := range raw {
		out = append(out, model.ClassifiedIndicator{
			Severity:    c.Classify(r.Kind, r.Keyword, r.Description),
			Kind:        r.Kind,
			Keyword:     r.Keyword,
			Description: r.Description,
		})
	}
	return out
}

// Classify usa apenas a tabela fixa e as regras por conteúdo.
func Classify(kind, keyword, description string) model.Severity {
	return defaultClassifier.Classify(kind, keyword, description)
}
