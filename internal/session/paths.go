package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/harunnryd/tsukai/internal/pathutil"
)

// ResolveWorkspaceRootPath resolves the configured workspace root path.
// If empty, it falls back to ~/.tsukai/workspaces.
func ResolveWorkspaceRootPath(workspaceRootPath string) (string, error) {
	if trimmed := strings.TrimSpace(workspaceRootPath); trimmed != "" {
		return pathutil.Expand(trimmed)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tsukai", "workspaces"), nil
}

// WorkspacePath returns the base path for a workspace.
func WorkspacePath(workspaceID string, workspaceRootPath string) (string, error) {
	root, err := ResolveWorkspaceRootPath(workspaceRootPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, workspaceID), nil
}

// TranscriptPath returns the JSONL transcript path for a session.
func TranscriptPath(basePath, sessionID string) string {
	return filepath.Join(basePath, "sessions", sessionID+".jsonl")
}
