package app

import (
	"time"

	"github.com/google/uuid"

	"devcontainerctl/internal/workspace"
	"devcontainerctl/pkg/devcontainer"
	runtimePkg "devcontainerctl/pkg/runtime"
)

// Operation names a host entry point.
type Operation string

const (
	OperationOpen    Operation = "open"
	OperationRebuild Operation = "rebuild"
	OperationAttach  Operation = "attach"
)

// OperationStage represents the stages an operation passes through.
type OperationStage string

const (
	StageWorkspace OperationStage = "workspace"
	StageConfig    OperationStage = "config"
	StageRuntime   OperationStage = "runtime"
	StageContainer OperationStage = "container"
	StageHooks     OperationStage = "hooks"
	StageAttach    OperationStage = "attach"
	StageCompleted OperationStage = "completed"
)

// OperationState is what one operation has learned so far. It lives only for
// the duration of that operation and is never shared or persisted.
type OperationState struct {
	OperationID         string
	Operation           Operation
	ProjectPath         string
	Workspace           *workspace.Info
	Config              *devcontainer.Configuration
	Runtime             runtimePkg.ContainerRuntime
	ContainerName       string
	ContainerState      runtimePkg.ContainerState
	Started             bool
	Warnings            []string
	LastSuccessfulStage OperationStage
	StartedAt           time.Time
}

func newState(operation Operation, projectPath string) *OperationState {
	return &OperationState{
		OperationID: uuid.New().String(),
		Operation:   operation,
		ProjectPath: projectPath,
		StartedAt:   time.Now(),
	}
}

func (s *OperationState) addWarning(message string) {
	s.Warnings = append(s.Warnings, message)
}

func (s *OperationState) runtimeName() runtimePkg.Runtime {
	if s.Runtime == nil {
		return ""
	}
	return s.Runtime.Name()
}
