package runtime

import (
	"context"
	"log/slog"

	apperrors "devcontainerctl/internal/errors"
	"devcontainerctl/pkg/runtime"
)

// Detect returns the first engine whose `--version` can be launched. The exit
// code is ignored: the probe only asks whether the binary runs. preference,
// when it names a supported engine, is probed first.
func Detect(ctx context.Context, launcher runtime.Launcher, preference string) (runtime.Runtime, error) {
	for _, candidate := range probeOrder(preference) {
		if _, err := launcher.Launch(ctx, string(candidate), "--version"); err != nil {
			slog.Debug("Container runtime not available", "runtime", candidate, "error", err)
			continue
		}
		slog.Info("Container runtime detected", "runtime", candidate)
		return candidate, nil
	}
	return "", apperrors.NewNoRuntimeError()
}

func probeOrder(preference string) []runtime.Runtime {
	order := make([]runtime.Runtime, 0, len(runtime.SupportedRuntimes))
	for _, rt := range runtime.SupportedRuntimes {
		if string(rt) == preference {
			order = append(order, rt)
		}
	}
	for _, rt := range runtime.SupportedRuntimes {
		if string(rt) != preference {
			order = append(order, rt)
		}
	}
	return order
}
