package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfigNotFound         = errors.New("devcontainer configuration not found")
	ErrConfigParse            = errors.New("devcontainer configuration parse failed")
	ErrNoRuntime              = errors.New("no container runtime available")
	ErrUnsupportedBuildSource = errors.New("unsupported build source")
	ErrNoImage                = errors.New("no image specified")
	ErrCreateFailed           = errors.New("container creation failed")
	ErrStartFailed            = errors.New("container start failed")
	ErrInspectFailed          = errors.New("container inspection failed")
	ErrHookFailed             = errors.New("lifecycle hook failed")
	ErrListFailed             = errors.New("container listing failed")
	ErrMissingArgument        = errors.New("missing argument")
	ErrSettingsInvalid        = errors.New("settings invalid")
)

// DevcontainerError carries a taxonomy type together with text for the user.
// Error() returns the single-line message of OriginalErr.
type DevcontainerError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *DevcontainerError) Error() string {
	return e.OriginalErr.Error()
}

func (e *DevcontainerError) Unwrap() error {
	return e.OriginalErr
}

// Is matches the taxonomy type, so errors.Is(err, ErrCreateFailed) works
// through any amount of wrapping.
func (e *DevcontainerError) Is(target error) bool {
	return e.Type == target
}

func NewDevcontainerError(errorType error, context, cause, suggestion string, originalErr error) *DevcontainerError {
	return &DevcontainerError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewConfigNotFoundError(projectPath string, candidates []string) *DevcontainerError {
	return NewDevcontainerError(ErrConfigNotFound,
		"No devcontainer.json found in project",
		fmt.Sprintf("none of %s exist", strings.Join(candidates, ", ")),
		"Create .devcontainer/devcontainer.json or .devcontainer.json in "+projectPath,
		errors.New("No devcontainer.json found in project"),
	)
}

func NewConfigParseError(path string, err error) *DevcontainerError {
	return NewDevcontainerError(ErrConfigParse,
		"Failed to parse "+path,
		err.Error(),
		"Fix the JSON syntax of the devcontainer configuration",
		fmt.Errorf("Failed to parse devcontainer.json: %w", err),
	)
}

func NewNoRuntimeError() *DevcontainerError {
	return NewDevcontainerError(ErrNoRuntime,
		"No container runtime available",
		"neither docker nor podman could be launched",
		"Install docker or podman and make sure it is on PATH",
		errors.New("Neither docker nor podman found. Please install a container runtime."),
	)
}

func NewUnsupportedBuildSourceError(dockerfile string) *DevcontainerError {
	return NewDevcontainerError(ErrUnsupportedBuildSource,
		"Building from Dockerfile not yet implemented",
		"Dockerfile: "+dockerfile,
		"Build the image manually and specify it in the 'image' field",
		fmt.Errorf("Building from Dockerfile not yet implemented. Please build the image manually and specify it in 'image' field. Dockerfile: %s", dockerfile),
	)
}

func NewNoImageError() *DevcontainerError {
	return NewDevcontainerError(ErrNoImage,
		"No image or dockerfile specified in devcontainer.json",
		"",
		"Add an 'image' field to the devcontainer configuration",
		errors.New("No image or dockerfile specified in devcontainer.json"),
	)
}

// runtimeFailure builds the message shared by the lifecycle errors: a launch
// failure wraps the OS error, an exit failure carries the captured stderr.
func runtimeFailure(errorType error, action, stderr string, launchErr error) *DevcontainerError {
	if launchErr != nil {
		return NewDevcontainerError(errorType, "Failed to "+action, launchErr.Error(),
			"Check that the container runtime is installed and executable",
			fmt.Errorf("Failed to %s: %w", action, launchErr))
	}
	stderr = singleLine(stderr)
	return NewDevcontainerError(errorType, "Failed to "+action, stderr, "",
		fmt.Errorf("Failed to %s: %s", action, stderr))
}

func NewCreateError(stderr string, launchErr error) *DevcontainerError {
	return runtimeFailure(ErrCreateFailed, "create container", stderr, launchErr)
}

func NewStartError(stderr string, launchErr error) *DevcontainerError {
	return runtimeFailure(ErrStartFailed, "start container", stderr, launchErr)
}

func NewInspectError(launchErr error) *DevcontainerError {
	return runtimeFailure(ErrInspectFailed, "inspect container", "", launchErr)
}

func NewListError(launchErr error) *DevcontainerError {
	return runtimeFailure(ErrListFailed, "list containers", "", launchErr)
}

func NewHookError(stderr string, launchErr error) *DevcontainerError {
	if launchErr != nil {
		return runtimeFailure(ErrHookFailed, "execute command in container", "", launchErr)
	}
	stderr = singleLine(stderr)
	return NewDevcontainerError(ErrHookFailed, "Command failed", stderr, "",
		fmt.Errorf("Command failed: %s", stderr))
}

func NewMissingArgumentError(message string) *DevcontainerError {
	return NewDevcontainerError(ErrMissingArgument, message, "", "", errors.New(message))
}

func NewSettingsError(context, cause string, originalErr error) *DevcontainerError {
	return NewDevcontainerError(ErrSettingsInvalid, context, cause,
		"Check the devcontainerctl config file and DEVCONTAINERCTL_* environment variables", originalErr)
}

func singleLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", " ")
}
