package parser

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	apperrors "devcontainerctl/internal/errors"
	"devcontainerctl/pkg/devcontainer"
)

// ReadFileFunc reads a whole file. os.ReadFile is used unless a Loader is
// built with another one.
type ReadFileFunc func(path string) ([]byte, error)

// Loader locates and decodes devcontainer configurations.
type Loader struct {
	readFile ReadFileFunc
}

func NewLoader(readFile ReadFileFunc) *Loader {
	if readFile == nil {
		readFile = os.ReadFile
	}
	return &Loader{readFile: readFile}
}

var defaultLoader = NewLoader(nil)

// Load reads the devcontainer configuration of projectPath from disk.
func Load(projectPath string) (*devcontainer.Configuration, error) {
	return defaultLoader.Load(projectPath)
}

// CandidatePaths lists the configuration locations in probe order.
func CandidatePaths(projectPath string) []string {
	return []string{
		filepath.Join(projectPath, ".devcontainer", "devcontainer.json"),
		filepath.Join(projectPath, ".devcontainer.json"),
	}
}

// Load returns the configuration from the first readable candidate path.
// A candidate that can be read but not decoded is an error; the next
// candidate is not tried. Missing business fields are not checked here.
func (l *Loader) Load(projectPath string) (*devcontainer.Configuration, error) {
	candidates := CandidatePaths(projectPath)

	for _, path := range candidates {
		data, err := l.readFile(path)
		if err != nil {
			slog.Debug("Devcontainer candidate not readable", "path", path, "error", err)
			continue
		}

		cfg, err := Parse(data)
		if err != nil {
			return nil, apperrors.NewConfigParseError(path, err)
		}

		slog.Info("Devcontainer configuration loaded", "path", path, "name", cfg.DisplayName())
		return cfg, nil
	}

	return nil, apperrors.NewConfigNotFoundError(projectPath, candidates)
}

// Parse decodes devcontainer.json content. Comments and trailing commas are
// accepted; unknown keys are ignored.
func Parse(data []byte) (*devcontainer.Configuration, error) {
	var cfg devcontainer.Configuration
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
