// Package protect toggles filesystem permission bits on archive subtrees
// and records checksums of locked files in the sidecar manifest.
package protect

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"pwf/internal/archive"
	"pwf/internal/check"
	"pwf/internal/errs"
	"pwf/internal/logging"
	"pwf/internal/manifest"
)

const (
	dirLockedMode  = os.FileMode(0o555)
	fileLockedMode = os.FileMode(0o444)
	dirOpenMode    = os.FileMode(0o775)
	fileOpenMode   = os.FileMode(0o664)
)

// Manager locks and unlocks archive subtrees.
type Manager struct {
	arch    *archive.Archive
	checker *check.Checker
	logger  *slog.Logger
}

// New constructs a Manager bound to one archive.
func New(arch *archive.Archive, checker *check.Checker, logger *slog.Logger) *Manager {
	return &Manager{
		arch:    arch,
		checker: checker,
		logger:  logging.NewComponentLogger(logger, "protect"),
	}
}

// Protect makes the subtree at path read-only and appends a manifest line
// for every locked file. Unless forced, the subtree is checked first with
// the protection category excluded; a dirty tree is never locked.
func (m *Manager) Protect(path string, forced bool) error {
	if !forced {
		opts := check.Options{Ignore: []check.Category{check.CategoryProtection}}
		if err := m.checker.Run(path, opts); err != nil {
			return err
		}
	}

	m.logger.Info("protecting", logging.String("path", m.arch.DisplayPath(path)))

	entries, err := sortedSubtree(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		switch {
		case entry.info.IsDir():
			if err := os.Chmod(entry.path, dirLockedMode); err != nil {
				return errs.Wrap(errs.ErrIO, "protect", "chmod "+entry.path, err)
			}
		case entry.info.Mode().IsRegular():
			if err := manifest.Append(path, entry.path); err != nil {
				return errs.Wrap(errs.ErrIO, "protect", "record checksum for "+entry.path, err)
			}
			if err := os.Chmod(entry.path, fileLockedMode); err != nil {
				return errs.Wrap(errs.ErrIO, "protect", "chmod "+entry.path, err)
			}
		}
	}
	return nil
}

// Unprotect makes directories below path writable again. Files stay locked
// unless includeFiles is set, so content can be added or removed but not
// modified. The sidecar manifest, when present, is always loosened.
func (m *Manager) Unprotect(path string, includeFiles bool) error {
	m.logger.Info("unprotecting",
		logging.String("path", m.arch.DisplayPath(path)),
		logging.Bool("include_files", includeFiles),
	)

	entries, err := sortedSubtree(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		switch {
		case entry.info.IsDir():
			if err := os.Chmod(entry.path, dirOpenMode); err != nil {
				return errs.Wrap(errs.ErrIO, "protect", "chmod "+entry.path, err)
			}
		case includeFiles && entry.info.Mode().IsRegular():
			if err := os.Chmod(entry.path, fileOpenMode); err != nil {
				return errs.Wrap(errs.ErrIO, "protect", "chmod "+entry.path, err)
			}
		}
	}

	manifestPath := manifest.PathFor(path)
	if _, err := os.Lstat(manifestPath); err == nil {
		if err := os.Chmod(manifestPath, fileOpenMode); err != nil {
			return errs.Wrap(errs.ErrIO, "protect", "chmod "+manifestPath, err)
		}
	}
	return nil
}

type subtreeEntry struct {
	path string
	info fs.FileInfo
}

// sortedSubtree lists everything below path (the root included) in lexical
// order. Directory modes must change after their children are visited when
// locking; the sorted order plus chmod-on-visit keeps traversal valid
// because locked directories remain listable (0o555).
func sortedSubtree(path string) ([]subtreeEntry, error) {
	var entries []subtreeEntry
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, subtreeEntry{path: p, info: info})
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "protect", "walk "+path, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })
	return entries, nil
}
