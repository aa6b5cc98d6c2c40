package gitadapter

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/jgivc/toolmanifest/internal/common"
)

type gitHistory struct {
	root string
	log  *slog.Logger
}

// NewGitHistory looks up change times with git, running inside root.
// Paths passed to LastChange are relative to root.
func NewGitHistory(root string, log *slog.Logger) *gitHistory {
	return &gitHistory{
		root: root,
		log:  log.With(slog.String("item", "GitHistory")),
	}
}

// LastChange returns the committer date of the latest commit touching path,
// in strict ISO 8601 as printed by git.
func (g *gitHistory) LastChange(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "log", "-1", "--format=%cI", "--", path)
	cmd.Dir = g.root

	out, err := cmd.Output()
	if err != nil {
		g.log.Debug("git log failed", slog.String("path", path), slog.Any("error", err))

		return "", fmt.Errorf("%w: git log %s: %w", common.ErrHistoryUnavailable, path, err)
	}

	ts := strings.TrimSpace(string(out))
	if ts == "" {
		return "", fmt.Errorf("%w: no commits touch %s", common.ErrHistoryUnavailable, path)
	}

	return ts, nil
}

type noHistory struct{}

// NewNoHistory returns a provider that never has history, so callers always
// fall back to the current time.
func NewNoHistory() noHistory {
	return noHistory{}
}

func (noHistory) LastChange(_ context.Context, path string) (string, error) {
	return "", fmt.Errorf("%w: history disabled for %s", common.ErrHistoryUnavailable, path)
}
