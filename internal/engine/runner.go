package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
)

// tempo extra para fechar os pipes depois que o contexto cancela o processo
const waitDelay = 5 * time.Second

// RunnerFunc executa o olevba sobre workdir/name e devolve o JSON bruto.
type RunnerFunc func(ctx context.Context, cfg Config, workdir, name string) ([]byte, error)

var runners = map[string]RunnerFunc{
	"local":  RunLocal,
	"docker": RunDocker,
}

// Lookup devolve o runner registrado com esse nome.
func Lookup(name string) (RunnerFunc, error) {
	fn, ok := runners[name]
	if !ok {
		return nil, errors.Newf("engine '%s' não suportado (disponíveis: %v)", name, Names())
	}
	return fn, nil
}

func Names() []string {
	names := make([]string, 0, len(runners))
	for n := range runners {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RunLocal executa `olevba --json <arquivo>` com o binário local.
func RunLocal(ctx context.Context, cfg Config, workdir, name string) ([]byte, error) {
	bin := cfg.OlevbaPath
	if bin == "" {
		bin = "olevba"
	}
	out, err := execute(ctx, bin, "--json", filepath.Join(workdir, name))
	if errors.Is(err, exec.ErrNotFound) {
		return nil, errors.WithHint(err, "instale o oletools: pip install -U oletools")
	}
	return out, err
}

// RunDocker executa o olevba dentro de um contêiner com o workspace montado
// somente leitura em /scan.
func RunDocker(ctx context.Context, cfg Config, workdir, name string) ([]byte, error) {
	if cfg.DockerImage == "" {
		return nil, errors.WithHint(
			errors.New("nenhuma imagem docker configurada"),
			"defina MACROGUARD_DOCKER_IMAGE com uma imagem que tenha o oletools instalado",
		)
	}
	absPath, err := filepath.Abs(workdir)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao resolver caminho absoluto")
	}

	args := []string{
		"run", "--rm",
		"--network", "none",
		"-v", fmt.Sprintf("%s:/scan:ro", absPath),
		cfg.DockerImage,
		"olevba", "--json", "/scan/" + name,
	}
	out, err := execute(ctx, "docker", args...)
	if errors.Is(err, exec.ErrNotFound) {
		return nil, errors.WithHint(err, "o runner docker exige o docker no PATH")
	}
	return out, err
}

// execute roda o comando e devolve o stdout. O olevba sai com código != 0
// quando encontra problemas no arquivo, mas o JSON no stdout continua
// valendo; só é erro quando não houve saída.
func execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errors.Wrapf(ctxErr, "%s interrompido", name)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stdout.Len() > 0 {
			return stdout.Bytes(), nil
		}
		return nil, errors.Wrapf(err, "erro ao executar %s (stderr: %s)", name, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}
