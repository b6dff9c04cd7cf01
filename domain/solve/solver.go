package solve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrUnsolvable reports a well-formed cube string that is not a reachable
// configuration. It is not fatal; the scan may be repeated.
var ErrUnsolvable = errors.New("cube is not solvable")

// ErrSolverMissing is returned when the external solver cannot be started.
var ErrSolverMissing = errors.New("solver executable not found")

// Solver turns a 54-symbol cube string into a move sequence.
type Solver interface {
	Solve(ctx context.Context, cube string) (string, error)
}

// SolverFunc adapts a function to Solver.
type SolverFunc func(ctx context.Context, cube string) (string, error)

func (f SolverFunc) Solve(ctx context.Context, cube string) (string, error) { return f(ctx, cube) }

// ExecSolver runs an external command with the cube string appended as the
// last argument and reads the move sequence from stdout.
type ExecSolver struct {
	Command string
	Args    []string
}

// NewExecSolver returns a solver for command; an empty command means "kociemba".
func NewExecSolver(command string, args ...string) *ExecSolver {
	if command == "" {
		command = "kociemba"
	}
	return &ExecSolver{Command: command, Args: args}
}

// safeCommand captures stderr so failures can be reported with the
// solver's own message.
type safeCommand struct {
	*exec.Cmd
	Stderr *bytes.Buffer
}

func newSafeCommand(ctx context.Context, name string, args ...string) *safeCommand {
	cmd := exec.CommandContext(ctx, name, args...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	return &safeCommand{Cmd: cmd, Stderr: stderr}
}

func (s *ExecSolver) Solve(ctx context.Context, cube string) (string, error) {
	if _, err := exec.LookPath(s.Command); err != nil {
		return "", fmt.Errorf("%w: %s", ErrSolverMissing, s.Command)
	}
	args := append(append([]string(nil), s.Args...), cube)
	cmd := newSafeCommand(ctx, s.Command, args...)
	out, err := cmd.Output()
	text := strings.TrimSpace(string(out))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		msg := strings.TrimSpace(cmd.Stderr.String())
		if msg == "" {
			msg = text
		}
		return "", fmt.Errorf("%w: %s", ErrUnsolvable, firstLine(msg, err.Error()))
	}
	if strings.HasPrefix(text, "Error") {
		return "", fmt.Errorf("%w: %s", ErrUnsolvable, firstLine(text, text))
	}
	return text, nil
}

func firstLine(s, fallback string) string {
	if s == "" {
		return fallback
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
