// Package archive anchors operations to the configured archive root.
//
// It resolves user-supplied paths (absolute, root-relative or @-tagged)
// against the root, renders paths root-relative for display, and holds the
// advisory lock that serializes mutating commands against one archive tree.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// Archive is the resolved root of one taxonomy tree.
type Archive struct {
	root string
}

// New validates the root directory and returns the archive handle.
func New(root string) (*Archive, error) {
	root = filepath.Clean(strings.TrimSpace(root))
	if root == "" || root == "." {
		return nil, fmt.Errorf("archive root is empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("archive root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("archive root %s is not a directory", root)
	}
	return &Archive{root: root}, nil
}

// Root returns the archive root directory.
func (a *Archive) Root() string { return a.root }

// Resolve turns a user-supplied path into an absolute path inside the
// archive. Absolute paths pass through; relative ones are joined to the
// root when they are not reachable from the working directory.
func (a *Archive) Resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == "." {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
		return a.root
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if _, err := os.Stat(path); err == nil {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	}
	return filepath.Join(a.root, path)
}

// DisplayPath renders a path relative to the archive root for logs and
// reports; paths outside the root are returned unchanged.
func (a *Archive) DisplayPath(path string) string {
	rel, err := filepath.Rel(a.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// Lock acquires the advisory single-writer lock for the archive. The
// returned release function is safe to call once; concurrent pwf
// invocations against the same root block on each other.
func (a *Archive) Lock() (release func() error, err error) {
	lock := flock.New(filepath.Join(a.root, ".pwf.lock"))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock archive %s: %w", a.root, err)
	}
	return lock.Unlock, nil
}
