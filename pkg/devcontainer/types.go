package devcontainer

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Configuration is the parsed form of a devcontainer.json file.
// Every field is optional; whether the configuration is usable to create a
// container is decided later, when run arguments are built from it.
type Configuration struct {
	Name              *string     `json:"name,omitempty"`
	Image             *string     `json:"image,omitempty"`
	Dockerfile        *string     `json:"dockerfile,omitempty"`
	Context           *string     `json:"context,omitempty"`
	WorkspaceFolder   *string     `json:"workspaceFolder,omitempty"`
	WorkspaceMount    *string     `json:"workspaceMount,omitempty"`
	Mounts            []string    `json:"mounts"`
	RunArgs           []string    `json:"runArgs"`
	PostCreateCommand HookCommand `json:"postCreateCommand"`
	PostStartCommand  HookCommand `json:"postStartCommand"`
	PostAttachCommand HookCommand `json:"postAttachCommand"`
	ForwardPorts      []uint16    `json:"forwardPorts"`
	RemoteUser        *string     `json:"remoteUser,omitempty"`
}

// DisplayName returns the declared name, or "" when none is set.
func (c *Configuration) DisplayName() string {
	return deref(c.Name)
}

// ImageRef returns the declared image, or "" when none is set.
func (c *Configuration) ImageRef() string {
	return deref(c.Image)
}

// JSON renders the configuration as indented JSON, including fields that
// would not be enough to create a container.
func (c *Configuration) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// HookKind identifies which shape a lifecycle command was declared with.
type HookKind int

const (
	// HookNone means the key was absent or null.
	HookNone HookKind = iota
	// HookShell is a single string run through the shell.
	HookShell
	// HookArgs is an array of tokens, flattened into one shell command.
	HookArgs
	// HookUnsupported covers objects, numbers and booleans. It resolves to a no-op.
	HookUnsupported
)

func (k HookKind) String() string {
	switch k {
	case HookNone:
		return "none"
	case HookShell:
		return "shell"
	case HookArgs:
		return "args"
	case HookUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// HookCommand is a lifecycle command in one of the shapes devcontainer.json allows.
type HookCommand struct {
	Kind  HookKind
	Shell string
	Args  []string
}

// UnmarshalJSON implements json.Unmarshaler. It never fails on an unexpected
// shape; such values are recorded as HookUnsupported.
func (h *HookCommand) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*h = HookCommand{Kind: HookNone}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*h = HookCommand{Kind: HookShell, Shell: s}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		// Non-string elements are dropped.
		args := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				args = append(args, s)
			}
		}
		*h = HookCommand{Kind: HookArgs, Args: args}
	default:
		*h = HookCommand{Kind: HookUnsupported}
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Shell and array hooks keep their
// declared shape; anything else is written as null.
func (h HookCommand) MarshalJSON() ([]byte, error) {
	switch h.Kind {
	case HookShell:
		return json.Marshal(h.Shell)
	case HookArgs:
		return json.Marshal(h.Args)
	default:
		return []byte("null"), nil
	}
}

// IsSet reports whether a command of any shape was declared.
func (h HookCommand) IsSet() bool {
	return h.Kind != HookNone
}

// ShellCommand returns the command line to hand to `sh -c`. The second return
// value is false when there is nothing to run. An array without string tokens
// still runs, as an empty command line.
func (h HookCommand) ShellCommand() (string, bool) {
	switch h.Kind {
	case HookShell:
		return h.Shell, true
	case HookArgs:
		return strings.Join(h.Args, " "), true
	default:
		return "", false
	}
}
