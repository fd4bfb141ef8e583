package app

import (
	"context"
	"log/slog"
)

// RuntimeStage selects the container engine for the operation.
type RuntimeStage struct {
	factory *RuntimeFactory
}

func NewRuntimeStage(factory *RuntimeFactory) *RuntimeStage {
	return &RuntimeStage{factory: factory}
}

func (s *RuntimeStage) Name() string {
	return string(StageRuntime)
}

func (s *RuntimeStage) Execute(ctx context.Context, state *OperationState) error {
	rt, err := s.factory.GetRuntime(ctx)
	if err != nil {
		return err
	}
	state.Runtime = rt

	slog.Info("Runtime stage completed", "operationId", state.OperationID, "runtime", rt.Name())
	return nil
}
