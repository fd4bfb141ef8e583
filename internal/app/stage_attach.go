package app

import (
	"context"
	"log/slog"

	runtimePkg "devcontainerctl/pkg/runtime"
)

// AttachStage inspects the container and starts it when it is stopped.
type AttachStage struct{}

func NewAttachStage() *AttachStage {
	return &AttachStage{}
}

func (s *AttachStage) Name() string {
	return string(StageAttach)
}

func (s *AttachStage) Execute(ctx context.Context, state *OperationState) error {
	containerState, err := state.Runtime.InspectContainer(ctx, state.ContainerName)
	if err != nil {
		return err
	}
	state.ContainerState = containerState

	if containerState == runtimePkg.StateRunning {
		slog.Info("Container already running", "operationId", state.OperationID, "container", state.ContainerName)
		return nil
	}

	if err := state.Runtime.StartContainer(ctx, state.ContainerName); err != nil {
		return err
	}
	state.Started = true

	slog.Info("Container started", "operationId", state.OperationID, "container", state.ContainerName)
	return nil
}
