package sarif

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
)

var rows = []model.ClassifiedIndicator{
	{Severity: model.SevHigh, Kind: "AutoExec", Keyword: "Auto_Open", Description: "Runs on open"},
	{Severity: model.SevMedium, Kind: "Other", Keyword: "", Description: "contains obfuscated blob"},
	{Severity: model.SevLow, Kind: "String", Keyword: "foo", Description: ""},
}

func TestFromIndicators(t *testing.T) {
	log := FromIndicators(rows, "macroguard", "1.0.0", "./../samples/invoice.docm")

	require.Len(t, log.Runs, 1)
	assert.Equal(t, Version, log.Version)
	assert.Equal(t, "macroguard", log.Runs[0].Tool.Driver.Name)

	results := log.Runs[0].Results
	require.Len(t, results, 3)

	assert.Equal(t, "AutoExec", results[0].RuleID)
	assert.Equal(t, "error", results[0].Level)
	assert.Equal(t, "Auto_Open: Runs on open", results[0].Message.Text)
	assert.Equal(t, "HIGH", results[0].Properties.Severity)

	assert.Equal(t, "warning", results[1].Level)
	assert.Equal(t, "contains obfuscated blob", results[1].Message.Text)

	assert.Equal(t, "note", results[2].Level)
	assert.Equal(t, "foo", results[2].Message.Text)

	for _, r := range results {
		assert.Equal(t, "samples/invoice.docm", r.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	}
}

func TestFromIndicatorsEmpty(t *testing.T) {
	log := FromIndicators(nil, "macroguard", "1.0.0", "")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, log))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	runs := decoded["runs"].([]any)
	run := runs[0].(map[string]any)
	// results precisa sair como [] e não null
	assert.Equal(t, []any{}, run["results"])
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	log := FromIndicators(rows, "macroguard", "1.0.0", "invoice.docm")

	path, err := Export(log, filepath.Join(dir, "out"), "invoice")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "invoice.sarif"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back Log
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *log, back)
}
