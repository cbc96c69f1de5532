package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/config"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "macroguard -f <documento>",
	Short: "MacroGuard - Triagem de IOCs em macros VBA de documentos Office",
	Long: `MacroGuard extrai as macros VBA de um documento Office (via oletools/olevba),
classifica cada indicador de comprometimento por severidade (HIGH, MEDIUM, LOW)
e imprime os resultados ordenados em uma tabela.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalyze,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Dica:", hint)
		}
		os.Exit(1)
	}
}

func init() {
	config.SetDefaults(v)
	config.SetEnvPrefix(v)
}
