package app

import (
	"context"
	"log/slog"

	"devcontainerctl/internal/workspace"
)

// WorkspaceStage records the git worktree the project lives in. The project
// path itself is left as given.
type WorkspaceStage struct{}

func NewWorkspaceStage() *WorkspaceStage {
	return &WorkspaceStage{}
}

func (s *WorkspaceStage) Name() string {
	return string(StageWorkspace)
}

// Execute never fails the operation; a repository that cannot be read only
// loses the git details in the report.
func (s *WorkspaceStage) Execute(ctx context.Context, state *OperationState) error {
	info, err := workspace.Resolve(state.ProjectPath)
	if err != nil {
		slog.Warn("Could not resolve git worktree", "path", state.ProjectPath, "error", err)
		return nil
	}

	state.Workspace = info

	slog.Debug("Workspace resolved", "operationId", state.OperationID, "root", info.Root, "branch", info.Branch)
	return nil
}
