package provisioner

import (
	"context"

	"devcontainerctl/pkg/devcontainer"
	"devcontainerctl/pkg/runtime"
)

const (
	// ContainerNamePrefix is prepended to the sanitized configuration name.
	ContainerNamePrefix = "zed-devcontainer"

	// DefaultWorkspaceTarget is where the project is mounted when the
	// configuration does not declare a workspaceMount.
	DefaultWorkspaceTarget = "/workspace"
)

// KeepAliveCommand keeps a detached container running so later exec calls
// have a target.
var KeepAliveCommand = []string{"sleep", "infinity"}

// Hook names used in logs and reports.
const (
	HookPostCreate = "postCreateCommand"
	HookPostStart  = "postStartCommand"
	HookPostAttach = "postAttachCommand"
)

// PostCreateRunner runs the post-create hook of a configuration inside a
// container that already exists.
type PostCreateRunner interface {
	RunPostCreate(ctx context.Context, rt runtime.ContainerRuntime, container string, cfg *devcontainer.Configuration) error
}
