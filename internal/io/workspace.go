package ioutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkspaceCreateError reports that the per-run workspace directory could
// not be created.
type WorkspaceCreateError struct {
	Path string
	Err  error
}

func (e *WorkspaceCreateError) Error() string {
	return fmt.Sprintf("create workspace %s: %v", e.Path, e.Err)
}

func (e *WorkspaceCreateError) Unwrap() error {
	return e.Err
}

// Workspace is the temporary directory that holds downloaded segments
// until they are merged.
//
// Every run gets its own directory, named after the creation time plus a
// random suffix, so concurrent runs sharing a base directory never collide.
//
// Example:
//
//	ws, err := NewWorkspace("")
//	if err != nil {
//	    return err
//	}
//	defer ws.Remove()
//
//	path := ws.File("00000.ts")
type Workspace struct {
	path string
}

// NewWorkspace creates a fresh directory below baseDir. An empty baseDir
// means os.TempDir().
func NewWorkspace(baseDir string) (*Workspace, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	name := fmt.Sprintf("hls-%d-%s", time.Now().UnixNano(), suffix)
	path := filepath.Join(baseDir, name)

	if err := EnsureDir(baseDir); err != nil {
		return nil, &WorkspaceCreateError{Path: path, Err: err}
	}
	// Mkdir rather than MkdirAll: an existing directory means a collision.
	if err := os.Mkdir(path, 0755); err != nil {
		return nil, &WorkspaceCreateError{Path: path, Err: err}
	}

	return &Workspace{path: path}, nil
}

// Path returns the workspace directory.
func (w *Workspace) Path() string {
	return w.path
}

// File returns the path of name inside the workspace.
func (w *Workspace) File(name string) string {
	return filepath.Join(w.path, name)
}

// Remove deletes the workspace and everything in it.
func (w *Workspace) Remove() error {
	return os.RemoveAll(w.path)
}
