package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	apperrors "devcontainerctl/internal/errors"
)

const (
	EnvPrefix             = "DEVCONTAINERCTL"
	DefaultCommandTimeout = 5 * time.Minute
)

// Settings configures devcontainerctl itself, as opposed to the
// devcontainer.json of a project.
type Settings struct {
	// Runtime is probed before the default order when set.
	Runtime string `mapstructure:"runtime" yaml:"runtime" validate:"omitempty,oneof=docker podman"`
	// CommandTimeout bounds every runtime subprocess. Zero disables it.
	CommandTimeout time.Duration `mapstructure:"command_timeout" yaml:"command_timeout" validate:"gte=0"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "devcontainerctl", "config.yaml")
}

// Load reads settings from path (or the default location when path is
// empty), applies DEVCONTAINERCTL_* environment overrides and validates the
// result. A missing file at the default location is not an error.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("runtime", "")
	v.SetDefault("command_timeout", DefaultCommandTimeout)
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.NewSettingsError("Failed to read settings file "+path, err.Error(),
				fmt.Errorf("failed to read settings file: %w", err))
		}
	} else if explicit {
		return nil, apperrors.NewSettingsError("Settings file not found: "+path, "",
			fmt.Errorf("settings file not found: %s", path))
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, apperrors.NewSettingsError("Failed to decode settings", err.Error(),
			fmt.Errorf("failed to decode settings: %w", err))
	}
	settings.Runtime = strings.ToLower(strings.TrimSpace(settings.Runtime))

	if err := validate.Struct(&settings); err != nil {
		verr := formatValidationError(err)
		return nil, apperrors.NewSettingsError("Invalid settings", verr.Error(), verr)
	}

	return &settings, nil
}

// YAML renders the effective settings.
func (s *Settings) YAML() (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return string(data), nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validation failed: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	if len(messages) == 1 {
		return fmt.Errorf("validation error: %s", messages[0])
	}
	return fmt.Errorf("validation errors: %s", strings.Join(messages, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("field '%s' must not be negative", field)
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, e.Tag())
	}
}
