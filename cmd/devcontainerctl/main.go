package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"devcontainerctl/internal/app"
	"devcontainerctl/internal/config"
	apperrors "devcontainerctl/internal/errors"
	"devcontainerctl/internal/parser"
	"devcontainerctl/internal/runtime"
	"devcontainerctl/internal/ui"
	"devcontainerctl/internal/workspace"
)

// version is set at build time via ldflags
var version = "dev"

var settings *config.Settings

var rootCmd = &cobra.Command{
	Use:     "devcontainerctl",
	Short:   "devcontainerctl - Create and attach to development containers",
	Version: version,
	Long: `devcontainerctl reads a project's devcontainer.json, creates a detached
container for it with docker or podman, runs its post-create command and
prints how to connect.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
		settings = loaded

		level := ui.ParseLevel(settings.LogLevel)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(ui.NewLogger(os.Stderr, level))
	},
}

var openCmd = &cobra.Command{
	Use:   "open <project-path>",
	Short: "Create a devcontainer for a project",
	Long: `Open loads .devcontainer/devcontainer.json (or .devcontainer.json) from the
project, creates a detached container from its image with the workspace,
mounts and forwarded ports it declares, and runs postCreateCommand inside it.

A failing postCreateCommand is reported as a warning; the container is kept.`,
	Run: func(cmd *cobra.Command, args []string) {
		report, err := newOrchestrator().Open(cmd.Context(), args)
		if err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
		printReport(report)
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [path]",
	Short: "Check a devcontainer configuration and describe how to rebuild it",
	Long: `Rebuild validates the devcontainer configuration found at path and that a
container runtime is available, then lists the manual rebuild steps. Without
path the root of the git worktree containing the current directory is used.
No container is changed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var worktree string
		if len(args) == 1 {
			worktree = args[0]
		} else if wd, err := os.Getwd(); err == nil {
			worktree = defaultWorktree(ui.NewConsole(), wd)
		}

		report, err := newOrchestrator().Rebuild(cmd.Context(), worktree)
		if err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
		printReport(report)
	},
}

var attachCmd = &cobra.Command{
	Use:   "attach <container>",
	Short: "Start a devcontainer if needed and print how to connect",
	Long: `Attach inspects the named container, starts it when it is stopped and prints
connection instructions. Shell completion offers the running containers.`,
	ValidArgsFunction: completeAttach,
	Run: func(cmd *cobra.Command, args []string) {
		report, err := newOrchestrator().Attach(cmd.Context(), args)
		if err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}
		printReport(report)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <project-path>",
	Short: "Print a project's devcontainer configuration as parsed",
	Long: `Show loads the project's devcontainer.json and prints the fields devcontainerctl
understands as JSON. The configuration does not need an image to be shown.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := parser.Load(args[0])
		if err != nil {
			apperrors.HandleError(err)
			os.Exit(1)
		}

		data, err := cfg.JSON()
		if err != nil {
			ui.NewConsole().PrintError(err.Error())
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective devcontainerctl settings",
	Run: func(cmd *cobra.Command, args []string) {
		out, err := settings.YAML()
		if err != nil {
			ui.NewConsole().PrintError(err.Error())
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func newOrchestrator() *app.Orchestrator {
	return app.New(runtime.NewExecLauncher(settings.CommandTimeout), settings.Runtime)
}

// defaultWorktree picks the rebuild target when no path is given: the root of
// the git worktree containing wd, or wd itself outside a repository.
func defaultWorktree(console *ui.Console, wd string) string {
	info, err := workspace.Resolve(wd)
	if err != nil {
		console.PrintWarning(fmt.Sprintf("Could not read git worktree, using %s: %v", wd, err))
		return wd
	}
	if !info.IsRepository {
		console.PrintWarning("Not inside a git worktree, using " + wd)
		return wd
	}
	return info.Root
}

func printReport(report *app.Report) {
	ui.NewConsole().PrintSection(report.Label, report.Text)
}

func completeAttach(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	completions, err := newOrchestrator().CompleteAttachArgument(cmd.Context(), args)
	if err != nil {
		cobra.CompErrorln(err.Error())
		return nil, cobra.ShellCompDirectiveError
	}

	suggestions := make([]string, 0, len(completions))
	for _, c := range completions {
		suggestions = append(suggestions, c.NewText+"\t"+c.Label)
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the settings file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
