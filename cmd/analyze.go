package cmd

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/analysis"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/config"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/engine"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/logging"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/report"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/sarif"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/severity"
)

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.InitLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	eng, err := engine.New(cfg.EngineName, cfg.Engine, logger)
	if err != nil {
		return err
	}
	analyzer := analysis.New(eng, severity.NewClassifier(cfg.ExtraKinds), logger)

	logger.Infow("Analisando documento", "arquivo", cfg.File, "engine", cfg.EngineName)
	res, err := analyzer.Run(cmd.Context(), cfg.File, analysis.Options{WithMacros: cfg.ShowMacros})
	if err != nil {
		return err
	}

	// nada vai para o stdout antes da análise terminar sem erro
	var out bytes.Buffer
	if err := res.Write(&out, cfg.Output); err != nil {
		return err
	}

	if cfg.SarifDir != "" && !res.NoMacros {
		base := strings.TrimSuffix(filepath.Base(cfg.File), filepath.Ext(cfg.File))
		log := sarif.FromIndicators(res.Indicators, report.ToolName, report.ToolVersion, cfg.File)
		path, err := sarif.Export(log, cfg.SarifDir, base)
		if err != nil {
			return errors.Wrap(err, "erro ao salvar SARIF")
		}
		logger.Infow("SARIF salvo com sucesso", "arquivo", path)
	}

	_, err = cmd.OutOrStdout().Write(out.Bytes())
	return err
}

func init() {
	flags := rootCmd.Flags()
	flags.StringP(config.KeyFile, "f", "", "Documento Office a analisar (DOC/DOCM/XLSM/PPTM...)")
	flags.StringP(config.KeyOutput, "o", string(report.FormatTable), "Formato da saída (table, json, sarif)")
	flags.String(config.KeyEngine, "local", "Como executar o olevba (local, docker)")
	flags.Bool(config.KeyShowMacros, false, "Imprime o código das macros extraídas antes da tabela")
	flags.String(config.KeySarifDir, "", "Também grava <dir>/<documento>.sarif")
	flags.String(config.KeyRules, "", "YAML com tipos extras para a tabela de severidade")
	flags.String(config.KeyOlevbaPath, "olevba", "Binário do olevba (engine local)")
	flags.String(config.KeyDockerImage, "", "Imagem com oletools (engine docker)")
	flags.Duration(config.KeyTimeout, config.DefaultTimeout(), "Tempo máximo de execução do olevba")
	flags.Bool(config.KeyDebug, false, "Habilita logs em nível debug")
	cobra.CheckErr(rootCmd.MarkFlagRequired(config.KeyFile))
	cobra.CheckErr(config.BindFlags(rootCmd, v))
}
