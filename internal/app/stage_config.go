package app

import (
	"context"
	"log/slog"

	"devcontainerctl/internal/parser"
)

// ConfigStage loads the devcontainer configuration of the project.
type ConfigStage struct {
	loader *parser.Loader
}

func NewConfigStage(loader *parser.Loader) *ConfigStage {
	return &ConfigStage{loader: loader}
}

func (s *ConfigStage) Name() string {
	return string(StageConfig)
}

func (s *ConfigStage) Execute(ctx context.Context, state *OperationState) error {
	cfg, err := s.loader.Load(state.ProjectPath)
	if err != nil {
		return err
	}
	state.Config = cfg

	slog.Info("Configuration stage completed", "operationId", state.OperationID, "name", cfg.DisplayName(), "image", cfg.ImageRef())
	return nil
}
