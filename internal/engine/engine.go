// Package engine abstrai o serviço externo que extrai as macros VBA e roda
// as heurísticas de assinatura (oletools/olevba).
package engine

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
)

// ErrExtraction marca falhas do engine ao abrir ou analisar o documento.
var ErrExtraction = errors.New("falha na extração de macros")

type Engine interface {
	// Open adquire o documento. O chamador deve sempre chamar Close.
	Open(ctx context.Context, path string) (Document, error)
}

type Document interface {
	HasMacros(ctx context.Context) (bool, error)
	// Analyze devolve os indicadores na ordem em que o engine os emitiu.
	Analyze(ctx context.Context) ([]model.RawIndicator, error)
	Macros(ctx context.Context) ([]model.Macro, error)
	Close() error
}

type Config struct {
	OlevbaPath  string        // binário olevba do runner local
	DockerImage string        // imagem com oletools para o runner docker
	Timeout     time.Duration // limite de uma execução do olevba
	WorkDir     string        // base dos diretórios temporários ("" = os.TempDir)
}

func DefaultConfig() Config {
	return Config{
		OlevbaPath: "olevba",
		Timeout:    2 * time.Minute,
	}
}

func extractionError(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrExtraction)
}
