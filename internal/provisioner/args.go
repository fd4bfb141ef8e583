package provisioner

import (
	"fmt"
	"log/slog"
	"strings"

	apperrors "devcontainerctl/internal/errors"
	"devcontainerctl/pkg/devcontainer"
	"devcontainerctl/pkg/runtime"
)

// ContainerName derives the container name from the configuration name.
// Spaces become hyphens; an unnamed configuration gets the bare prefix.
func ContainerName(cfg *devcontainer.Configuration) string {
	if cfg.Name == nil {
		return ContainerNamePrefix
	}
	return ContainerNamePrefix + "-" + strings.ReplaceAll(*cfg.Name, " ", "-")
}

// WorkspaceMount returns the declared workspaceMount, or a bind mount of
// projectPath onto /workspace.
func WorkspaceMount(cfg *devcontainer.Configuration, projectPath string) string {
	if cfg.WorkspaceMount != nil {
		return *cfg.WorkspaceMount
	}
	return fmt.Sprintf("type=bind,source=%s,target=%s", projectPath, DefaultWorkspaceTarget)
}

// BuildRunArgs translates a configuration into the argument list of a
// detached `run`. This is where a configuration without a usable image is
// rejected.
func BuildRunArgs(rt runtime.Runtime, cfg *devcontainer.Configuration, projectPath string) (*runtime.RunSpec, error) {
	name := ContainerName(cfg)

	args := []string{"run", "-d", "--name", name}
	args = append(args, "--mount", WorkspaceMount(cfg, projectPath))

	for _, mount := range cfg.Mounts {
		args = append(args, "--mount", mount)
	}

	for _, port := range cfg.ForwardPorts {
		args = append(args, "-p", fmt.Sprintf("%d:%d", port, port))
	}

	args = append(args, cfg.RunArgs...)

	switch {
	case cfg.Image != nil:
		args = append(args, *cfg.Image)
	case cfg.Dockerfile != nil:
		return nil, apperrors.NewUnsupportedBuildSourceError(*cfg.Dockerfile)
	default:
		return nil, apperrors.NewNoImageError()
	}

	args = append(args, KeepAliveCommand...)

	slog.Debug("Run arguments built", "runtime", rt, "container", name, "args", strings.Join(args, " "))

	return &runtime.RunSpec{
		Runtime: rt,
		Name:    name,
		Args:    args,
	}, nil
}
