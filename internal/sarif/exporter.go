package sarif

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
)

const (
	Version = "2.1.0"
	Schema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
)

type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []Run  `json:"runs"`
}

type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Result struct {
	RuleID     string     `json:"ruleId"`
	Message    Message    `json:"message"`
	Level      string     `json:"level"` // error, warning, note
	Locations  []Location `json:"locations"`
	Properties Properties `json:"properties"`
}

type Message struct {
	Text string `json:"text"`
}

type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// Os indicadores do olevba não têm linha, então não há region.
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
}

type ArtifactLocation struct {
	URI string `json:"uri"`
}

type Properties struct {
	Severity string `json:"severity"`
	Keyword  string `json:"keyword"`
}

// FromIndicators gera um log SARIF 2.1.0 preservando a ordem recebida.
func FromIndicators(rows []model.ClassifiedIndicator, toolName, toolVersion, artifact string) *Log {
	uri := toURI(artifact)
	if uri == "" {
		uri = "UNKNOWN"
	}

	results := make([]Result, 0, len(rows))
	for _, r := range rows {
		results = append(results, Result{
			RuleID: r.Kind,
			Level:  sevToLevel(r.Severity),
			Message: Message{
				Text: message(r),
			},
			Locations: []Location{
				{
					PhysicalLocation: PhysicalLocation{
						ArtifactLocation: ArtifactLocation{URI: uri},
					},
				},
			},
			Properties: Properties{
				Severity: r.Severity.Display(),
				Keyword:  r.Keyword,
			},
		})
	}

	return &Log{
		Version: Version,
		Schema:  Schema,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    toolName,
						Version: toolVersion,
					},
				},
				Results: results,
			},
		},
	}
}

func Write(w io.Writer, log *Log) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal sarif")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "escrever sarif")
	}
	return nil
}

// Export grava <outDir>/<fileBase>.sarif e devolve o caminho.
func Export(log *Log, outDir, fileBase string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.Wrap(err, "criar dir sarif")
	}
	outPath := filepath.Join(outDir, fileBase+".sarif")

	f, err := os.Create(outPath)
	if err != nil {
		return "", errors.Wrap(err, "criar arquivo sarif")
	}
	defer f.Close()

	if err := Write(f, log); err != nil {
		return "", err
	}
	return outPath, nil
}

func message(r model.ClassifiedIndicator) string {
	kw := strings.TrimSpace(r.Keyword)
	desc := strings.TrimSpace(r.Description)
	switch {
	case kw == "":
		return desc
	case desc == "":
		return kw
	default:
		return kw + ": " + desc
	}
}

func sevToLevel(s model.Severity) string {
	switch s {
	case model.SevHigh:
		return "error"
	case model.SevMedium:
		return "warning"
	default:
		return "note"
	}
}

func toURI(p string) string {
	p = strings.TrimSpace(p)
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(strings.TrimPrefix(p, "./"), "../")
	}
	return p
}
