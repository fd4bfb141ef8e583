package app

import (
	"context"
	"log/slog"

	"devcontainerctl/internal/provisioner"
)

// ContainerStage builds the run arguments and creates the detached container.
type ContainerStage struct{}

func NewContainerStage() *ContainerStage {
	return &ContainerStage{}
}

func (s *ContainerStage) Name() string {
	return string(StageContainer)
}

func (s *ContainerStage) Execute(ctx context.Context, state *OperationState) error {
	spec, err := provisioner.BuildRunArgs(state.runtimeName(), state.Config, state.ProjectPath)
	if err != nil {
		return err
	}

	name, err := state.Runtime.CreateContainer(ctx, spec)
	if err != nil {
		return err
	}
	state.ContainerName = name

	slog.Info("Container stage completed", "operationId", state.OperationID, "container", name)
	return nil
}
