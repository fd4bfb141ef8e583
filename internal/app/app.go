package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "devcontainerctl/internal/errors"
	"devcontainerctl/internal/parser"
	"devcontainerctl/internal/provisioner"
	runtimePkg "devcontainerctl/pkg/runtime"
)

// Orchestrator sequences configuration loading, runtime detection, container
// lifecycle calls and hooks into the operations offered to the host.
// Operations share no state with each other.
type Orchestrator struct {
	loader   *parser.Loader
	runtimes *RuntimeFactory
	hooks    provisioner.PostCreateRunner
}

// New creates an Orchestrator that launches the container engine through
// launcher. runtimePreference names the engine to probe first and may be empty.
func New(launcher runtimePkg.Launcher, runtimePreference string) *Orchestrator {
	return &Orchestrator{
		loader:   parser.NewLoader(nil),
		runtimes: NewRuntimeFactory(launcher, runtimePreference),
		hooks:    provisioner.NewHookRunner(),
	}
}

// Open creates a detached container for the project named by args and runs
// its post-create hook. A failing hook only adds a warning to the report.
func (o *Orchestrator) Open(ctx context.Context, args []string) (*Report, error) {
	if len(args) == 0 {
		return nil, apperrors.NewMissingArgumentError("Please provide a project path")
	}

	state := newState(OperationOpen, strings.Join(args, " "))
	stages := []Stage{
		NewWorkspaceStage(),
		NewConfigStage(o.loader),
		NewRuntimeStage(o.runtimes),
		NewContainerStage(),
		NewHookStage(o.hooks),
	}

	if err := o.execute(ctx, state, stages); err != nil {
		return nil, err
	}
	return renderOpenReport(state), nil
}

// Rebuild checks that the configuration and a runtime are still usable and
// describes the manual rebuild steps. No container is touched.
func (o *Orchestrator) Rebuild(ctx context.Context, worktreePath string) (*Report, error) {
	if worktreePath == "" {
		return nil, apperrors.NewMissingArgumentError("No worktree available")
	}

	state := newState(OperationRebuild, worktreePath)
	stages := []Stage{
		NewWorkspaceStage(),
		NewConfigStage(o.loader),
		NewRuntimeStage(o.runtimes),
	}

	if err := o.execute(ctx, state, stages); err != nil {
		return nil, err
	}
	return renderRebuildReport(state), nil
}

// Attach makes sure the container named by args is running. No hooks run.
func (o *Orchestrator) Attach(ctx context.Context, args []string) (*Report, error) {
	if len(args) == 0 {
		return nil, apperrors.NewMissingArgumentError("Please provide a container name or ID")
	}

	state := newState(OperationAttach, "")
	state.ContainerName = strings.Join(args, " ")
	stages := []Stage{
		NewRuntimeStage(o.runtimes),
		NewAttachStage(),
	}

	if err := o.execute(ctx, state, stages); err != nil {
		return nil, err
	}
	return renderAttachReport(state), nil
}

// CompleteAttachArgument offers every running container as an attach target.
func (o *Orchestrator) CompleteAttachArgument(ctx context.Context, args []string) ([]Completion, error) {
	rt, err := o.runtimes.GetRuntime(ctx)
	if err != nil {
		return nil, err
	}

	containers, err := rt.ListContainers(ctx)
	if err != nil {
		return nil, err
	}

	completions := make([]Completion, 0, len(containers))
	for _, c := range containers {
		completions = append(completions, Completion{
			Label:      c.Name + " (" + c.ID + ")",
			NewText:    c.ID,
			RunCommand: true,
		})
	}

	slog.Debug("Attach completions listed", "count", len(completions), "args", strings.Join(args, " "))
	return completions, nil
}

// execute runs stages in order and stops at the first failure. Errors are
// returned unchanged so their message reaches the host verbatim.
func (o *Orchestrator) execute(ctx context.Context, state *OperationState, stages []Stage) error {
	slog.Info("Starting operation", "operation", state.Operation, "operationId", state.OperationID, "path", state.ProjectPath)

	for _, stage := range stages {
		slog.Debug("Executing stage", "operationId", state.OperationID, "stage", stage.Name())
		if err := stage.Execute(ctx, state); err != nil {
			slog.Warn("Operation failed", "operation", state.Operation, "operationId", state.OperationID,
				"stage", stage.Name(), "lastSuccessfulStage", state.LastSuccessfulStage, "error", err)
			return err
		}
		state.LastSuccessfulStage = OperationStage(stage.Name())
	}

	state.LastSuccessfulStage = StageCompleted
	slog.Info("Operation completed", "operation", state.Operation, "operationId", state.OperationID,
		"warnings", len(state.Warnings), "duration", time.Since(state.StartedAt))
	return nil
}
