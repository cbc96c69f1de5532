package logging

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var Logger = zap.NewNop().Sugar()

// InitLogger configura o logger global. Os logs vão para stderr, o stdout
// fica reservado para o relatório.
func InitLogger(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao inicializar logger")
	}
	Logger = logger.Sugar()
	return Logger, nil
}
