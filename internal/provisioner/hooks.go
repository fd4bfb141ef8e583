package provisioner

import (
	"context"
	"log/slog"
	"strings"

	"devcontainerctl/pkg/devcontainer"
	"devcontainerctl/pkg/runtime"
)

// HookRunner executes lifecycle commands inside a container.
type HookRunner struct{}

func NewHookRunner() *HookRunner {
	return &HookRunner{}
}

// RunPostCreate runs the configuration's postCreateCommand, if any.
func (r *HookRunner) RunPostCreate(ctx context.Context, rt runtime.ContainerRuntime, container string, cfg *devcontainer.Configuration) error {
	return r.Run(ctx, rt, container, HookPostCreate, cfg.PostCreateCommand)
}

// Run executes hook through `sh -c` in container. An absent hook or an
// unsupported shape is a no-op.
func (r *HookRunner) Run(ctx context.Context, rt runtime.ContainerRuntime, container, hookName string, hook devcontainer.HookCommand) error {
	command, ok := hook.ShellCommand()
	if !ok {
		if hook.Kind == devcontainer.HookUnsupported {
			slog.Warn("Skipping hook with unsupported shape", "hook", hookName, "container", container)
		} else {
			slog.Debug("No hook to run", "hook", hookName, "kind", hook.Kind)
		}
		return nil
	}

	slog.Info("Running hook", "hook", hookName, "container", container, "command", command)

	output, err := rt.ExecShell(ctx, container, command)
	if err != nil {
		return err
	}

	if out := strings.TrimSpace(output); out != "" {
		slog.Debug("Hook output", "hook", hookName, "output", out)
	}
	slog.Info("Hook completed", "hook", hookName, "container", container)
	return nil
}
