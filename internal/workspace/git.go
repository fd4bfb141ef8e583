package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Info describes the project directory an operation runs against.
type Info struct {
	// Root is the worktree root when Path is inside a git repository,
	// otherwise the absolute form of Path.
	Root         string
	Branch       string
	Head         string
	IsRepository bool
}

// Resolve locates the git worktree containing path. A path outside any
// repository is not an error; it is returned as its own root.
func Resolve(path string) (*Info, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		slog.Debug("Project is not a git repository", "path", absPath)
		return &Info{Root: absPath}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", absPath, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	info := &Info{
		Root:         worktree.Filesystem.Root(),
		IsRepository: true,
	}

	// HEAD is read unresolved so a branch without commits still has a name.
	ref, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD: %w", err)
	}
	switch ref.Type() {
	case plumbing.SymbolicReference:
		info.Branch = ref.Target().Short()
		if resolved, err := repo.Head(); err == nil {
			info.Head = resolved.Hash().String()
		}
	case plumbing.HashReference:
		info.Head = ref.Hash().String()
	}

	slog.Debug("Resolved git worktree", "root", info.Root, "branch", info.Branch)
	return info, nil
}

// ShortHead returns the abbreviated commit hash, or "" before the first commit.
func (i *Info) ShortHead() string {
	if len(i.Head) < 7 {
		return i.Head
	}
	return i.Head[:7]
}
