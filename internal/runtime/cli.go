package runtime

import (
	"context"
	"log/slog"
	"strings"

	apperrors "devcontainerctl/internal/errors"
	"devcontainerctl/pkg/runtime"
)

const (
	listFormat    = "{{.ID}}|{{.Names}}"
	runningFormat = "{{.State.Running}}"
)

// CLIManager implements the ContainerRuntime interface by invoking the
// docker or podman command line.
type CLIManager struct {
	runtime  runtime.Runtime
	launcher runtime.Launcher
}

// NewCLIManager binds lifecycle operations to one engine binary.
func NewCLIManager(rt runtime.Runtime, launcher runtime.Launcher) *CLIManager {
	return &CLIManager{
		runtime:  rt,
		launcher: launcher,
	}
}

func (m *CLIManager) Name() runtime.Runtime {
	return m.runtime
}

func (m *CLIManager) launch(ctx context.Context, args ...string) (*runtime.Result, error) {
	return m.launcher.Launch(ctx, string(m.runtime), args...)
}

// CreateContainer runs the derived `run` invocation and returns the
// container name it was created under.
func (m *CLIManager) CreateContainer(ctx context.Context, spec *runtime.RunSpec) (string, error) {
	slog.Info("Creating container", "runtime", m.runtime, "container", spec.Name)

	result, err := m.launch(ctx, spec.Args...)
	if err != nil {
		return "", apperrors.NewCreateError("", err)
	}
	if !result.Success() {
		return "", apperrors.NewCreateError(result.Stderr, nil)
	}

	slog.Info("Container created", "runtime", m.runtime, "container", spec.Name, "id", strings.TrimSpace(result.Stdout))
	return spec.Name, nil
}

// ListContainers returns the running containers. Output lines that are not
// exactly "<id>|<name>" are skipped.
func (m *CLIManager) ListContainers(ctx context.Context) ([]runtime.ContainerSummary, error) {
	result, err := m.launch(ctx, "ps", "--format", listFormat)
	if err != nil {
		return nil, apperrors.NewListError(err)
	}
	if !result.Success() {
		slog.Warn("Container listing exited with error", "runtime", m.runtime, "exitCode", result.ExitCode, "stderr", strings.TrimSpace(result.Stderr))
	}
	return ParseContainerList(result.Stdout), nil
}

// InspectContainer reports Running only when the runtime prints exactly
// "true". Any other output, including an error exit, counts as Stopped.
func (m *CLIManager) InspectContainer(ctx context.Context, id string) (runtime.ContainerState, error) {
	result, err := m.launch(ctx, "inspect", "--format", runningFormat, id)
	if err != nil {
		return runtime.StateStopped, apperrors.NewInspectError(err)
	}
	if !result.Success() {
		slog.Debug("Inspect exited with error", "container", id, "stderr", strings.TrimSpace(result.Stderr))
	}
	return ParseRunningState(result.Stdout), nil
}

func (m *CLIManager) StartContainer(ctx context.Context, id string) error {
	slog.Info("Starting container", "runtime", m.runtime, "container", id)

	result, err := m.launch(ctx, "start", id)
	if err != nil {
		return apperrors.NewStartError("", err)
	}
	if !result.Success() {
		return apperrors.NewStartError(result.Stderr, nil)
	}
	return nil
}

// ExecShell runs command through `sh -c` inside the container and returns
// its stdout.
func (m *CLIManager) ExecShell(ctx context.Context, id, command string) (string, error) {
	slog.Info("Executing command in container", "container", id, "command", command)

	result, err := m.launch(ctx, "exec", id, "sh", "-c", command)
	if err != nil {
		return "", apperrors.NewHookError("", err)
	}
	if !result.Success() {
		return "", apperrors.NewHookError(result.Stderr, nil)
	}
	return result.Stdout, nil
}

// ParseContainerList parses `ps --format "{{.ID}}|{{.Names}}"` output.
func ParseContainerList(output string) []runtime.ContainerSummary {
	var containers []runtime.ContainerSummary
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		parts := strings.Split(line, "|")
		if len(parts) != 2 {
			continue
		}
		containers = append(containers, runtime.ContainerSummary{ID: parts[0], Name: parts[1]})
	}
	return containers
}

// ParseRunningState interprets `inspect --format "{{.State.Running}}"` output.
func ParseRunningState(output string) runtime.ContainerState {
	if strings.TrimSpace(output) == "true" {
		return runtime.StateRunning
	}
	return runtime.StateStopped
}
