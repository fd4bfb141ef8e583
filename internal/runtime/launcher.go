package runtime

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"devcontainerctl/pkg/runtime"
)

// ExecLauncher runs programs with os/exec, bounding each call by timeout.
type ExecLauncher struct {
	timeout time.Duration
}

// NewExecLauncher creates an ExecLauncher. A zero timeout disables the bound.
func NewExecLauncher(timeout time.Duration) *ExecLauncher {
	return &ExecLauncher{timeout: timeout}
}

// Launch runs name with args and waits for it. A nonzero exit is reported in
// the Result; failing to start, or being killed by the timeout, is a
// *runtime.LaunchError.
func (l *ExecLauncher) Launch(ctx context.Context, name string, args ...string) (*runtime.Result, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	slog.Debug("Launching runtime command", "command", name, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &runtime.LaunchError{Name: name, Err: ctxErr}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &runtime.Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}, nil
		}
		return nil, &runtime.LaunchError{Name: name, Err: err}
	}

	return &runtime.Result{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
