package errors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"devcontainerctl/internal/ui"
)

type ErrorHandler struct {
	logger  *slog.Logger
	console *ui.Console
}

func NewErrorHandler() (*ErrorHandler, error) {
	logFile, err := createLogFile()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	console := ui.NewConsole()

	return &ErrorHandler{
		logger:  logger,
		console: console,
	}, nil
}

// newConsoleOnlyHandler is used when no log file can be opened.
func newConsoleOnlyHandler() *ErrorHandler {
	return &ErrorHandler{
		logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
		console: ui.NewConsole(),
	}
}

// getOSStandardLogDir picks the per-user log location of the platform.
// DEVCONTAINERCTL_LOG_DIR overrides it.
func getOSStandardLogDir() (string, error) {
	if dir := os.Getenv("DEVCONTAINERCTL_LOG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	var base string
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Logs", "devcontainerctl"), nil
	case "windows":
		if base = os.Getenv("LOCALAPPDATA"); base == "" {
			base = filepath.Join(home, "AppData", "Local")
		}
	case "linux", "freebsd", "openbsd", "netbsd":
		if base = os.Getenv("XDG_STATE_HOME"); base == "" {
			base = filepath.Join(home, ".local", "state")
		}
	default:
		return filepath.Join(home, ".devcontainerctl", "logs"), nil
	}
	return filepath.Join(base, "devcontainerctl", "logs"), nil
}

const (
	logFileName    = "devcontainerctl.log"
	maxLogBytes    = 10 * 1024 * 1024
	maxGenerations = 5
)

// resolveLogDir returns a writable log directory, falling back to the
// working directory when the standard location cannot be used.
func resolveLogDir() (string, error) {
	logDir, err := getOSStandardLogDir()
	if err == nil {
		if err = ensureWritable(logDir); err == nil {
			return logDir, nil
		}
	}

	cwd, cwdErr := os.Getwd()
	if cwdErr != nil {
		return "", fmt.Errorf("cannot determine current directory for fallback logging: %w", cwdErr)
	}
	fmt.Fprintf(os.Stderr, "Warning: cannot use log directory %s: %v. Logging to %s instead.\n", logDir, err, cwd)
	return cwd, nil
}

func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	if err := probe.Close(); err != nil {
		slog.Warn("Failed to close log directory probe", "path", name, "error", err)
	}
	return os.Remove(name)
}

// rotate shifts log.N to log.N+1, dropping the oldest generation, and moves
// the active log to log.1.
func rotate(logPath string) error {
	oldest := fmt.Sprintf("%s.%d", logPath, maxGenerations)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove old log file", "path", oldest, "error", err)
	}

	for i := maxGenerations - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", logPath, i)
		to := fmt.Sprintf("%s.%d", logPath, i+1)
		if err := os.Rename(from, to); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to rotate log file", "old", from, "new", to, "error", err)
		}
	}

	if err := os.Rename(logPath, logPath+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func createLogFile() (*os.File, error) {
	logDir, err := resolveLogDir()
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	logPath := filepath.Join(logDir, logFileName)

	if info, err := os.Stat(logPath); err == nil && info.Size() >= maxLogBytes {
		if err := rotate(logPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to rotate log file: %v\n", err)
		}
	}

	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

func (h *ErrorHandler) Handle(err error) {
	if err == nil {
		return
	}

	var devErr *DevcontainerError
	if errors.As(err, &devErr) {
		h.handleDevcontainerError(devErr)
	} else {
		h.handleGenericError(err)
	}
}

func (h *ErrorHandler) handleDevcontainerError(err *DevcontainerError) {
	h.logStructuredError(err)

	// The first line is the verbatim error; the cause is only repeated when
	// the message does not already carry it.
	cause := err.Cause
	if strings.Contains(err.Error(), cause) {
		cause = ""
	}
	message := h.console.FormatErrorMessage(err.Error(), cause, err.Suggestion)
	h.console.PrintError(message)
}

func (h *ErrorHandler) handleGenericError(err error) {
	h.logger.Error("Unhandled error occurred",
		"error", err.Error(),
		"type", "generic",
	)

	h.console.PrintError(err.Error())
}

func (h *ErrorHandler) logStructuredError(err *DevcontainerError) {
	logAttrs := []slog.Attr{
		slog.String("error", err.OriginalErr.Error()),
		slog.String("type", getErrorTypeName(err.Type)),
		slog.String("context", err.Context),
	}

	if err.Cause != "" {
		logAttrs = append(logAttrs, slog.String("cause", err.Cause))
	}

	if err.Suggestion != "" {
		logAttrs = append(logAttrs, slog.String("suggestion", err.Suggestion))
	}

	h.logger.LogAttrs(context.TODO(), slog.LevelError, "devcontainerctl error occurred", logAttrs...)
}

func getErrorTypeName(errType error) string {
	switch errType {
	case ErrConfigNotFound:
		return "config_not_found"
	case ErrConfigParse:
		return "config_parse_failed"
	case ErrNoRuntime:
		return "no_runtime"
	case ErrUnsupportedBuildSource:
		return "unsupported_build_source"
	case ErrNoImage:
		return "no_image"
	case ErrCreateFailed:
		return "create_failed"
	case ErrStartFailed:
		return "start_failed"
	case ErrInspectFailed:
		return "inspect_failed"
	case ErrHookFailed:
		return "hook_failed"
	case ErrListFailed:
		return "list_failed"
	case ErrMissingArgument:
		return "missing_argument"
	case ErrSettingsInvalid:
		return "settings_invalid"
	default:
		return "unknown"
	}
}
