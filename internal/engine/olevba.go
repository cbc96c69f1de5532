package engine

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/adapters"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/model"
	"github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/internal/parser"
)

// Olevba implementa Engine sobre o `olevba --json` do oletools.
type Olevba struct {
	cfg    Config
	run    RunnerFunc
	logger *zap.SugaredLogger
}

// New cria o engine com o runner registrado em name ("local", "docker").
func New(name string, cfg Config, logger *zap.SugaredLogger) (*Olevba, error) {
	run, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return NewWithRunner(run, cfg, logger), nil
}

func NewWithRunner(run RunnerFunc, cfg Config, logger *zap.SugaredLogger) *Olevba {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Olevba{cfg: cfg, run: run, logger: logger}
}

// Open valida o contêiner e copia o documento para um workspace temporário
// privado. O workspace é removido em Close.
func (o *Olevba) Open(ctx context.Context, path string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := parser.DetectDocument(path)
	if err != nil {
		return nil, extractionError(err, "abrir %s", path)
	}
	if doc.Type == parser.Unknown {
		return nil, extractionError(errors.New("formato não suportado pelo olevba"), "%s", path)
	}
	if !parser.IsMacroEnabledExtension(path) {
		o.logger.Debugw("Extensão não costuma carregar macros", "arquivo", path, "tipo", doc.Type)
	}

	workdir, err := os.MkdirTemp(o.cfg.WorkDir, "macroguard-*")
	if err != nil {
		return nil, extractionError(err, "criar workspace")
	}
	name := filepath.Base(path)
	if err := copyFile(path, filepath.Join(workdir, name)); err != nil {
		_ = os.RemoveAll(workdir)
		return nil, extractionError(err, "copiar %s", path)
	}

	o.logger.Debugw("Documento aberto", "arquivo", path, "tipo", doc.Type, "workspace", workdir)
	return &olevbaDocument{
		path:    path,
		name:    name,
		workdir: workdir,
		engine:  o,
	}, nil
}

type olevbaDocument struct {
	path    string
	name    string
	workdir string
	engine  *Olevba
	report  *adapters.OlevbaReport
	closed  bool
}

// scan roda o olevba uma única vez e guarda o relatório.
func (d *olevbaDocument) scan(ctx context.Context) (*adapters.OlevbaReport, error) {
	if d.closed {
		return nil, errors.AssertionFailedf("documento %s usado depois de Close", d.path)
	}
	if d.report != nil {
		return d.report, nil
	}

	if d.engine.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.engine.cfg.Timeout)
		defer cancel()
	}

	d.engine.logger.Infow("Executando olevba", "arquivo", d.path)
	out, err := d.engine.run(ctx, d.engine.cfg, d.workdir, d.name)
	if err != nil {
		return nil, extractionError(err, "olevba")
	}

	rep, err := adapters.ParseOlevbaBytes(out)
	if err != nil {
		return nil, extractionError(err, "resultado do olevba")
	}
	d.engine.logger.Debugw("olevba concluído",
		"arquivo", d.path,
		"macros", rep.HasMacros,
		"indicadores", len(rep.Indicators),
	)
	d.report = rep
	return rep, nil
}

func (d *olevbaDocument) HasMacros(ctx context.Context) (bool, error) {
	rep, err := d.scan(ctx)
	if err != nil {
		return false, err
	}
	return rep.HasMacros, nil
}

func (d *olevbaDocument) Analyze(ctx context.Context) ([]model.RawIndicator, error) {
	rep, err := d.scan(ctx)
	if err != nil {
		return nil, err
	}
	return rep.Indicators, nil
}

func (d *olevbaDocument) Macros(ctx context.Context) ([]model.Macro, error) {
	rep, err := d.scan(ctx)
	if err != nil {
		return nil, err
	}
	return rep.Macros, nil
}

func (d *olevbaDocument) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if err := os.RemoveAll(d.workdir); err != nil {
		return errors.Wrapf(err, "remover workspace %s", d.workdir)
	}
	d.engine.logger.Debugw("Workspace removido", "workspace", d.workdir)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
