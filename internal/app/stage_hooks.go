package app

import (
	"context"
	"fmt"
	"log/slog"

	"devcontainerctl/internal/provisioner"
)

// HookStage runs the post-create hook. A failing hook is recorded as a
// warning and the operation carries on.
type HookStage struct {
	runner provisioner.PostCreateRunner
}

func NewHookStage(runner provisioner.PostCreateRunner) *HookStage {
	return &HookStage{runner: runner}
}

func (s *HookStage) Name() string {
	return string(StageHooks)
}

func (s *HookStage) Execute(ctx context.Context, state *OperationState) error {
	if err := s.runner.RunPostCreate(ctx, state.Runtime, state.ContainerName, state.Config); err != nil {
		slog.Warn("Post-create command failed", "operationId", state.OperationID, "container", state.ContainerName, "error", err)
		state.addWarning(fmt.Sprintf("Post-create command failed: %v", err))
	}
	return nil
}
