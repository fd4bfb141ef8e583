package app

import (
	"fmt"
	"strings"

	"devcontainerctl/internal/provisioner"
	"devcontainerctl/pkg/devcontainer"
	runtimePkg "devcontainerctl/pkg/runtime"
)

const (
	LabelOpen    = "Devcontainer Open"
	LabelRebuild = "Devcontainer Rebuild"
	LabelAttach  = "Devcontainer Attach"
)

func renderOpenReport(state *OperationState) *Report {
	var b strings.Builder

	fmt.Fprintf(&b, "Opening devcontainer for project: %s\n\n", state.ProjectPath)
	fmt.Fprintf(&b, "Container runtime: %s\n", state.runtimeName())
	writeBranch(&b, state)
	writeConfigSummary(&b, state.Config)

	b.WriteString("\nCreating container...\n")
	fmt.Fprintf(&b, "Container created: %s\n", state.ContainerName)

	b.WriteString("\nRunning post-create commands...\n")
	for _, warning := range state.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}

	b.WriteString("\n✓ Container is ready!\n\n")
	writeConnectInstructions(&b, state.runtimeName(), state.ContainerName)
	fmt.Fprintf(&b, "\nOr run 'devcontainerctl attach %s'.\n", state.ContainerName)

	return &Report{Label: LabelOpen, Text: b.String(), Warnings: state.Warnings}
}

func renderRebuildReport(state *OperationState) *Report {
	var b strings.Builder

	b.WriteString("Rebuilding devcontainer...\n\n")
	fmt.Fprintf(&b, "Worktree: %s\n", state.ProjectPath)
	writeBranch(&b, state)
	fmt.Fprintf(&b, "Container runtime: %s\n", state.runtimeName())
	writeConfigSummary(&b, state.Config)
	fmt.Fprintf(&b, "Container name: %s\n", provisioner.ContainerName(state.Config))

	hooks := declaredHooks(state.Config)
	if len(hooks) > 0 {
		fmt.Fprintf(&b, "Declared hooks: %s\n", strings.Join(hooks, ", "))
	}

	b.WriteString("\nThis feature will:\n")
	b.WriteString("1. Stop the current container\n")
	b.WriteString("2. Remove the container\n")
	b.WriteString("3. Create a new container with updated configuration\n\n")
	b.WriteString("Note: Manual rebuild is required. Use 'devcontainerctl open' to create a new container.\n")

	return &Report{Label: LabelRebuild, Text: b.String()}
}

func renderAttachReport(state *OperationState) *Report {
	var b strings.Builder

	fmt.Fprintf(&b, "Container: %s\n", state.ContainerName)
	fmt.Fprintf(&b, "Status: %s\n\n", state.ContainerState)

	if state.Started {
		b.WriteString("Container is not running. Starting it...\n")
		b.WriteString("Container started.\n\n")
	}

	writeConnectInstructions(&b, state.runtimeName(), state.ContainerName)

	return &Report{Label: LabelAttach, Text: b.String()}
}

func writeBranch(b *strings.Builder, state *OperationState) {
	if state.Workspace == nil || !state.Workspace.IsRepository || state.Workspace.Branch == "" {
		return
	}
	if head := state.Workspace.ShortHead(); head != "" {
		fmt.Fprintf(b, "Git branch: %s (%s)\n", state.Workspace.Branch, head)
		return
	}
	fmt.Fprintf(b, "Git branch: %s\n", state.Workspace.Branch)
}

func writeConfigSummary(b *strings.Builder, cfg *devcontainer.Configuration) {
	if cfg.Name != nil {
		fmt.Fprintf(b, "Devcontainer name: %s\n", *cfg.Name)
	}
	if cfg.Image != nil {
		fmt.Fprintf(b, "Using image: %s\n", *cfg.Image)
	}
}

func writeConnectInstructions(b *strings.Builder, rt runtimePkg.Runtime, container string) {
	b.WriteString("To connect to this container:\n")
	fmt.Fprintf(b, "  %s exec -it %s sh\n", rt, container)
	b.WriteString("or over SSH-style remote development:\n")
	fmt.Fprintf(b, "  ssh root@localhost -o ProxyCommand=\"%s exec -i %s sh\"\n", rt, container)
}

// declaredHooks lists the lifecycle hooks the configuration sets. Only
// postCreateCommand is ever executed.
func declaredHooks(cfg *devcontainer.Configuration) []string {
	var hooks []string
	for _, h := range []struct {
		name string
		cmd  devcontainer.HookCommand
	}{
		{provisioner.HookPostCreate, cfg.PostCreateCommand},
		{provisioner.HookPostStart, cfg.PostStartCommand},
		{provisioner.HookPostAttach, cfg.PostAttachCommand},
	} {
		if h.cmd.IsSet() {
			hooks = append(hooks, fmt.Sprintf("%s (%s)", h.name, h.cmd.Kind))
		}
	}
	return hooks
}
