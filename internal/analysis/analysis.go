// Package analysis liga o engine de macros à classificação, ao ranking e ao
// relatório: abre o documento, classifica cada indicador, ordena por
// severidade e escreve o resultado.
package analysis

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/engine"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/ranking"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/report"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/severity"
)

type Analyzer struct {
	engine     engine.Engine
	classifier *severity.Classifier
	logger     *zap.SugaredLogger
}

type Options struct {
	// WithMacros também devolve o código das macros extraídas.
	WithMacros bool
}

type Result struct {
	File       string
	NoMacros   bool
	Indicators []model.ClassifiedIndicator // já ranqueados
	Macros     []model.Macro
}

func New(eng engine.Engine, classifier *severity.Classifier, logger *zap.SugaredLogger) *Analyzer {
	if classifier == nil {
		classifier = severity.NewClassifier(nil)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Analyzer{engine: eng, classifier: classifier, logger: logger}
}

// Run analisa um documento. O documento aberto no engine é sempre fechado,
// inclusive quando a extração ou a classificação falham.
func (a *Analyzer) Run(ctx context.Context, path string, opts Options) (res *Result, err error) {
	doc, err := a.engine.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "falha ao analisar %s", path)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			if err != nil {
				a.logger.Warnw("Erro ao fechar documento", "arquivo", path, "erro", cerr)
				return
			}
			res, err = nil, errors.Wrapf(cerr, "falha ao fechar %s", path)
		}
	}()

	hasMacros, err := doc.HasMacros(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "falha ao analisar %s", path)
	}
	if !hasMacros {
		a.logger.Infow("Documento sem macros", "arquivo", path)
		return &Result{File: path, NoMacros: true}, nil
	}

	res = &Result{File: path}
	if opts.WithMacros {
		if res.Macros, err = doc.Macros(ctx); err != nil {
			return nil, errors.Wrapf(err, "falha ao extrair macros de %s", path)
		}
	}

	raw, err := doc.Analyze(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "falha ao analisar %s", path)
	}

	classified := a.classifier.ClassifyAll(raw)
	if err := checkClassified(raw, classified); err != nil {
		return nil, err
	}
	res.Indicators = ranking.Rank(classified)

	a.logger.Infow("Análise concluída",
		"arquivo", path,
		"indicadores", len(res.Indicators),
		"macros", len(res.Macros),
	)
	return res, nil
}

// checkClassified confere a correspondência 1:1 com o que o engine emitiu.
// Qualquer divergência é bug de classificação, não entrada inválida.
func checkClassified(raw []model.RawIndicator, classified []model.ClassifiedIndicator) error {
	if len(raw) != len(classified) {
		return errors.AssertionFailedf("classificação devolveu %d indicadores para %d de entrada", len(classified), len(raw))
	}
	for i, c := range classified {
		if !c.Severity.Valid() {
			return errors.AssertionFailedf("indicador #%d (%q) sem severidade válida: %q", i, raw[i].Kind, c.Severity)
		}
	}
	return nil
}

// Write escreve o aviso de documento sem macros ou o relatório no formato pedido.
func (r *Result) Write(w io.Writer, format report.Format) error {
	if r.NoMacros {
		return report.RenderNotice(w)
	}
	if len(r.Macros) > 0 && (format == report.FormatTable || format == "") {
		if err := report.RenderMacros(w, r.Macros); err != nil {
			return err
		}
	}
	return report.Render(w, format, r.Indicators, r.File)
}
