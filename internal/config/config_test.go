package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/report"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	SetEnvPrefix(v)
	return v
}

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	v := newViper()
	v.Set(KeyFile, "invoice.docm")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "invoice.docm", cfg.File)
	assert.Equal(t, report.FormatTable, cfg.Output)
	assert.Equal(t, "local", cfg.EngineName)
	assert.Equal(t, "olevba", cfg.Engine.OlevbaPath)
	assert.Equal(t, 2*time.Minute, cfg.Engine.Timeout)
	assert.Equal(t, DefaultTimeout(), cfg.Engine.Timeout)
	assert.Nil(t, cfg.ExtraKinds)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MACROGUARD_FILE", "env.xlsm")
	t.Setenv("MACROGUARD_OUTPUT", "sarif")
	t.Setenv("MACROGUARD_ENGINE", "docker")
	t.Setenv("MACROGUARD_DOCKER_IMAGE", "registry.local/oletools:0.60")
	t.Setenv("MACROGUARD_TIMEOUT", "30s")

	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "env.xlsm", cfg.File)
	assert.Equal(t, report.FormatSARIF, cfg.Output)
	assert.Equal(t, "docker", cfg.EngineName)
	assert.Equal(t, "registry.local/oletools:0.60", cfg.Engine.DockerImage)
	assert.Equal(t, 30*time.Second, cfg.Engine.Timeout)
}

func TestLoadFlagsOverride(t *testing.T) {
	t.Setenv("MACROGUARD_OUTPUT", "sarif")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP(KeyFile, "f", "", "")
	cmd.Flags().StringP(KeyOutput, "o", "table", "")
	cmd.Flags().Bool(KeyShowMacros, false, "")

	v := newViper()
	require.NoError(t, BindFlags(cmd, v))
	require.NoError(t, cmd.Flags().Parse([]string{"-f", "flag.docm", "-o", "json", "--show-macros"}))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "flag.docm", cfg.File)
	assert.Equal(t, report.FormatJSON, cfg.Output)
	assert.True(t, cfg.ShowMacros)
}

func TestLoadInvalid(t *testing.T) {
	v := newViper()
	v.Set(KeyOutput, "markdown")
	v.Set(KeyEngine, "wine")
	v.Set(KeyTimeout, "0s")

	_, err := Load(v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	msg := err.Error()
	assert.Contains(t, msg, "markdown")
	assert.Contains(t, msg, "wine")
	assert.Contains(t, msg, "timeout")
	assert.Contains(t, msg, "--file")
}

func TestLoadRules(t *testing.T) {
	path := writeRules(t, "extra_kinds:\n  Dridex: high\n  Emotet: MEDIUM\n")

	extra, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]model.Severity{
		"Dridex": model.SevHigh,
		"Emotet": model.SevMedium,
	}, extra)

	v := newViper()
	v.Set(KeyFile, "a.docm")
	v.Set(KeyRules, path)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, extra, cfg.ExtraKinds)
}

func TestLoadRulesErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad_tier", "extra_kinds:\n  Dridex: CRITICAL\n", "CRITICAL"},
		{"bad_yaml", "extra_kinds: [\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRules(writeRules(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := LoadRules(filepath.Join(t.TempDir(), "nao-existe.yaml"))
	assert.Error(t, err)
}
