package check

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"pwf/internal/errs"
	"pwf/internal/logging"
	"pwf/internal/taxonomy"
)

// checkPathLocations verifies that every file with a known extension sits in
// the canonical type directory for its category. Unknown extensions are
// counted and reported as a warning, not a violation.
func (c *Checker) checkPathLocations(root string) error {
	foundAny := false
	ignored := make(map[string]struct{})

	err := walkSubtree(root, func(path string, entry fs.DirEntry) error {
		if entry.IsDir() {
			return nil
		}
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		cat, ok := taxonomy.CategoryForExtension(ext)
		if !ok {
			if ext != "" {
				ignored[ext] = struct{}{}
			}
			return nil
		}
		if filepath.Base(filepath.Dir(path)) != cat.DirName() {
			c.logger.Info("file in wrong location",
				logging.String("path", c.arch.DisplayPath(path)),
				logging.String("want_dir", cat.DirName()),
			)
			foundAny = true
		}
		return nil
	})
	if err != nil {
		return errs.Wrap(errs.ErrIO, "check", "walk "+root, err)
	}

	if len(ignored) > 0 {
		exts := make([]string, 0, len(ignored))
		for ext := range ignored {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		c.logger.Warn("ignored unknown extensions", logging.String("extensions", strings.Join(exts, ",")))
	}

	if foundAny {
		return errs.Wrap(errs.ErrCheck, "check", "found files in wrong locations", nil)
	}
	return nil
}
