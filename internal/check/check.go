package check

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	"pwf/internal/archive"
	"pwf/internal/logging"
	"pwf/internal/taxonomy"
)

// Checker runs consistency checks against archive subtrees.
type Checker struct {
	arch   *archive.Archive
	logger *slog.Logger
}

// New constructs a Checker bound to one archive.
func New(arch *archive.Archive, logger *slog.Logger) *Checker {
	return &Checker{
		arch:   arch,
		logger: logging.NewComponentLogger(logger, "check"),
	}
}

// Options selects and tunes the checks for one run.
type Options struct {
	// Ignore removes categories from the checklist.
	Ignore []Category
	// Only narrows the checklist to the given categories before ignores.
	Only []Category
	// Fix repairs illegal names before the names check runs.
	Fix bool
	// DryRun makes Fix only report the renames it would perform.
	DryRun bool
}

// Run validates the subtree at path. It returns nil when every enabled
// category passes; the first failing category aborts the run with an
// aggregate error.
func (c *Checker) Run(path string, opts Options) error {
	desc, err := taxonomy.Classify(path)
	if err != nil {
		return err
	}
	path = desc.Path

	checklist, warnNames, err := resolveChecklist(desc.Stage, opts.Ignore, opts.Only)
	if err != nil {
		return err
	}
	if warnNames {
		c.logger.Warn("ignoring name violations is strongly discouraged")
	}
	c.logger.Info("checking subtree",
		logging.String("path", c.arch.DisplayPath(path)),
		logging.String("stage", desc.Stage.String()),
		logging.String("categories", checklist.names()),
	)

	if checklist.has(CategoryNames) && opts.Fix {
		fixedPath, err := c.fixNames(path, opts.DryRun)
		if err != nil {
			return err
		}
		if opts.DryRun {
			return nil
		}
		if fixedPath != path {
			// The rename shifted the root; everything derived from the
			// old path is stale.
			if _, err := taxonomy.Classify(fixedPath); err != nil {
				return err
			}
			path = fixedPath
		}
	}

	for _, cat := range runOrder {
		if !checklist.has(cat) {
			continue
		}
		if cat == CategoryMissingFiles && checklist.has(CategoryChecksums) {
			// Checksum verification already covers existence.
			continue
		}
		if err := c.runCategory(cat, path); err != nil {
			return err
		}
	}

	c.logger.Info("check passed", logging.String("path", c.arch.DisplayPath(path)))
	return nil
}

func (c *Checker) runCategory(cat Category, path string) error {
	switch cat {
	case CategoryNames:
		return c.checkNames(path)
	case CategoryDuplicates:
		return c.checkDuplicates(path)
	case CategoryProtection:
		return c.checkProtection(path)
	case CategoryRawDerivatives:
		return c.checkRawDerivatives(path)
	case CategoryPathLocation:
		return c.checkPathLocations(path)
	case CategoryChecksums:
		return c.checkChecksums(path)
	case CategoryMissingFiles:
		return c.checkMissingFiles(path)
	default:
		return nil
	}
}

// walkSubtree visits every entry below root in lexical order, excluding the
// root itself. Callbacks receive the lstat-style DirEntry.
func walkSubtree(root string, fn func(path string, entry fs.DirEntry) error) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		return fn(path, entry)
	})
}
