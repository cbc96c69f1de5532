package model

type Severity string

const (
	SevHigh   Severity = "HIGH"
	SevMedium Severity = "MEDIUM"
	SevLow    Severity = "LOW"
)

// Rank devolve a posição da severidade na ordenação (HIGH primeiro).
// Valores desconhecidos ficam depois de LOW.
func (s Severity) Rank() int {
	switch s {
	case SevHigh:
		return 0
	case SevMedium:
		return 1
	case SevLow:
		return 2
	default:
		return 3
	}
}

func (s Severity) Valid() bool {
	return s.Rank() < 3
}

// ParseSeverity aceita HIGH/MEDIUM/LOW sem diferenciar maiúsculas.
func ParseSeverity(s string) (Severity, bool) {
	switch sev := Severity(upper(s)); sev {
	case SevHigh, SevMedium, SevLow:
		return sev, true
	default:
		return "", false
	}
}

// RawIndicator é um match de assinatura reportado pelo engine de macros.
type RawIndicator struct {
	Kind        string // categoria livre do engine ("AutoExec", "IOC", ...)
	Keyword     string
	Description string
}

type ClassifiedIndicator struct {
	Severity    Severity
	Kind        string
	Keyword     string
	Description string
}

// Macro é o código VBA extraído de um stream do documento.
type Macro struct {
	Filename    string
	StreamPath  string
	VBAFilename string
	Code        string
}
