package app

import (
	"context"

	"devcontainerctl/internal/runtime"
	runtimePkg "devcontainerctl/pkg/runtime"
)

// RuntimeFactory detects the container engine and binds lifecycle
// operations to it. Detection runs on every call; nothing is cached between
// operations.
type RuntimeFactory struct {
	launcher   runtimePkg.Launcher
	preference string
}

// NewRuntimeFactory creates a RuntimeFactory. preference names the engine to
// probe first and may be empty.
func NewRuntimeFactory(launcher runtimePkg.Launcher, preference string) *RuntimeFactory {
	return &RuntimeFactory{
		launcher:   launcher,
		preference: preference,
	}
}

// GetRuntime returns a ContainerRuntime for the first engine that can be launched.
func (f *RuntimeFactory) GetRuntime(ctx context.Context) (runtimePkg.ContainerRuntime, error) {
	name, err := runtime.Detect(ctx, f.launcher, f.preference)
	if err != nil {
		return nil, err
	}
	return runtime.NewCLIManager(name, f.launcher), nil
}
