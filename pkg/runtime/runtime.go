// Located in pkg/runtime/runtime.go
package runtime

import (
	"context"
	"fmt"
)

// Runtime names the container engine binary used for a session.
type Runtime string

const (
	Docker Runtime = "docker"
	Podman Runtime = "podman"
)

// SupportedRuntimes lists the engines in default probe order.
var SupportedRuntimes = []Runtime{Docker, Podman}

// ContainerState is the observed run state of a container.
type ContainerState int

const (
	StateStopped ContainerState = iota
	StateRunning
)

func (s ContainerState) String() string {
	if s == StateRunning {
		return "Running"
	}
	return "Stopped"
}

// ContainerSummary is one record of the running-container listing.
type ContainerSummary struct {
	ID   string
	Name string
}

// RunSpec is a fully derived `run` invocation for a detached container.
type RunSpec struct {
	Runtime Runtime
	Name    string
	Args    []string
}

// Result is the outcome of a subprocess that was launched successfully.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the subprocess exited with status zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// LaunchError means the subprocess could not be started or did not finish
// (binary missing, permission denied, timed out). It is distinct from a
// nonzero exit, which is returned as a Result.
type LaunchError struct {
	Name string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Launcher runs an external program and captures its output.
type Launcher interface {
	Launch(ctx context.Context, name string, args ...string) (*Result, error)
}

// ContainerRuntime defines the contract for container operations against one engine.
type ContainerRuntime interface {
	Name() Runtime
	CreateContainer(ctx context.Context, spec *RunSpec) (string, error)
	ListContainers(ctx context.Context) ([]ContainerSummary, error)
	InspectContainer(ctx context.Context, id string) (ContainerState, error)
	StartContainer(ctx context.Context, id string) error
	ExecShell(ctx context.Context, id, command string) (string, error)
}
