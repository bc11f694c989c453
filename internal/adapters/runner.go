package adapters

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"collection-sessions/internal/ports"
	"collection-sessions/internal/shared"
)

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

func NewExecRunner() ExecRunner {
	return ExecRunner{}
}

func (ExecRunner) Run(ctx context.Context, argv []string) ([]byte, []byte, error) {
	if len(argv) == 0 {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty command")
	}
	log.Ctx(ctx).Debug().Strs("argv", argv).Msg("running command")
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), stderr.Bytes(), errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("command failed: " + argv[0]).
			WithCause(shared.CommandError(stderr.Bytes(), err))
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

var _ ports.Runner = ExecRunner{}
