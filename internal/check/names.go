package check

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/unicode/norm"

	"pwf/internal/errs"
	"pwf/internal/logging"
	"pwf/internal/taxonomy"
)

// checkNames verifies that every file and directory name in the subtree,
// including the root itself, only contains allowed characters. Names are
// NFC-normalized before matching so decomposed umlauts from foreign
// filesystems do not trip the allow-list.
func (c *Checker) checkNames(root string) error {
	foundAny := false

	report := func(path string) {
		c.logger.Info("illegal name", logging.String("path", c.arch.DisplayPath(path)))
		foundAny = true
	}

	if !legalName(filepath.Base(root)) {
		report(root)
	}
	err := walkSubtree(root, func(path string, _ fs.DirEntry) error {
		if !legalName(filepath.Base(path)) {
			report(path)
		}
		return nil
	})
	if err != nil {
		return errs.Wrap(errs.ErrIO, "check", "walk "+root, err)
	}

	if foundAny {
		return errs.Wrap(errs.ErrCheck, "check", "found illegal chars in file or folder names", nil)
	}
	return nil
}

func legalName(name string) bool {
	return taxonomy.IsLegalName(norm.NFC.String(name))
}

// fixNames applies the deterministic replacement table to every illegal
// name, deepest paths first so parent renames cannot invalidate child paths.
// It returns the possibly renamed root path; in dry-run mode it only logs
// the renames it would perform.
func (c *Checker) fixNames(root string, dryRun bool) (string, error) {
	if dryRun {
		c.logger.Info("dry-run: would do the following")
	}

	var toFix []string
	if !legalName(filepath.Base(root)) {
		toFix = append(toFix, root)
	}
	err := walkSubtree(root, func(path string, _ fs.DirEntry) error {
		if !legalName(filepath.Base(path)) {
			toFix = append(toFix, path)
		}
		return nil
	})
	if err != nil {
		return root, errs.Wrap(errs.ErrIO, "check", "walk "+root, err)
	}

	// Deepest first: children are renamed before their parents move.
	sort.Sort(sort.Reverse(sort.StringSlice(toFix)))

	newRoot := root
	for _, path := range toFix {
		newName := taxonomy.FixName(filepath.Base(path))
		newPath := filepath.Join(filepath.Dir(path), newName)

		c.logger.Info("rename",
			logging.String("from", c.arch.DisplayPath(path)),
			logging.String("to", newName),
		)
		if dryRun {
			continue
		}
		if err := os.Rename(path, newPath); err != nil {
			return newRoot, errs.Wrap(errs.ErrIO, "check", "rename "+path, err)
		}
		if path == root {
			newRoot = newPath
		}
	}
	return newRoot, nil
}
