package app

import (
	"context"
)

// Stage represents a single step of an orchestrated operation.
// Each stage implements this interface to provide a name and execution logic.
type Stage interface {
	Name() string
	Execute(ctx context.Context, state *OperationState) error
}

// Report is the labeled text section an operation produces for the host.
type Report struct {
	Label    string
	Text     string
	Warnings []string
}

// Completion is one suggestion offered while completing an attach argument.
type Completion struct {
	Label      string
	NewText    string
	RunCommand bool
}
