package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/engine"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/report"
)

const EnvPrefix = "MACROGUARD"

// Chaves do viper; as flags têm o mesmo nome.
const (
	KeyFile        = "file"
	KeyOutput      = "output"
	KeyEngine      = "engine"
	KeyShowMacros  = "show-macros"
	KeySarifDir    = "sarif-dir"
	KeyRules       = "rules"
	KeyDebug       = "debug"
	KeyOlevbaPath  = "olevba-path"
	KeyDockerImage = "docker-image"
	KeyTimeout     = "timeout"
)

var ErrInvalid = errors.New("configuração inválida")

type Config struct {
	File       string
	Output     report.Format
	EngineName string
	ShowMacros bool
	SarifDir   string
	Debug      bool
	Engine     engine.Config
	// tipos extras para a tabela de severidade, vindos de --rules
	ExtraKinds map[string]model.Severity
}

// SetDefaults registra os valores padrão que não vêm de flags.
func SetDefaults(v *viper.Viper) {
	def := engine.DefaultConfig()
	v.SetDefault(KeyOutput, string(report.FormatTable))
	v.SetDefault(KeyEngine, "local")
	v.SetDefault(KeyOlevbaPath, def.OlevbaPath)
	v.SetDefault(KeyTimeout, def.Timeout)
}

// SetEnvPrefix faz o viper ler MACROGUARD_<CHAVE> (hífens viram "_").
func SetEnvPrefix(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// BindFlags liga todas as flags do comando ao viper.
func BindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var result error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			result = multierror.Append(result, err)
		}
	})
	return result
}

func Load(v *viper.Viper) (Config, error) {
	var errs error

	format, err := report.ParseFormat(v.GetString(KeyOutput))
	if err != nil {
		errs = multierror.Append(errs, err)
	}

	engineName := strings.ToLower(strings.TrimSpace(v.GetString(KeyEngine)))
	if _, err := engine.Lookup(engineName); err != nil {
		errs = multierror.Append(errs, err)
	}

	timeout := v.GetDuration(KeyTimeout)
	if timeout <= 0 {
		errs = multierror.Append(errs, errors.Newf("timeout deve ser positivo, obtido %s", timeout))
	}

	cfg := Config{
		File:       strings.TrimSpace(v.GetString(KeyFile)),
		Output:     format,
		EngineName: engineName,
		ShowMacros: v.GetBool(KeyShowMacros),
		SarifDir:   v.GetString(KeySarifDir),
		Debug:      v.GetBool(KeyDebug),
		Engine: engine.Config{
			OlevbaPath:  v.GetString(KeyOlevbaPath),
			DockerImage: v.GetString(KeyDockerImage),
			Timeout:     timeout,
		},
	}
	if cfg.File == "" {
		errs = multierror.Append(errs, errors.New("nenhum arquivo informado (--file)"))
	}

	if rules := v.GetString(KeyRules); rules != "" {
		extra, err := LoadRules(rules)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		cfg.ExtraKinds = extra
	}

	if errs != nil {
		return Config{}, errors.Mark(errs, ErrInvalid)
	}
	return cfg, nil
}

type rulesFile struct {
	ExtraKinds map[string]string `yaml:"extra_kinds"`
}

// LoadRules lê um YAML com tipos extras para a tabela de severidade:
//
//	extra_kinds:
//	  Dridex: HIGH
func LoadRules(path string) (map[string]model.Severity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ler regras %s", path)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, errors.Wrapf(err, "parse das regras %s", path)
	}

	out := make(map[string]model.Severity, len(rf.ExtraKinds))
	for kind, raw := range rf.ExtraKinds {
		sev, ok := model.ParseSeverity(raw)
		if !ok {
			return nil, errors.Newf("regras %s: severidade %q inválida para %q (use HIGH, MEDIUM ou LOW)", path, raw, kind)
		}
		out[kind] = sev
	}
	return out, nil
}

// DefaultTimeout é exposto para o texto de ajuda das flags.
func DefaultTimeout() time.Duration {
	return engine.DefaultConfig().Timeout
}
