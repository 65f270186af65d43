// Package importer moves validated event folders from the inbox into the
// protected original archive.
//
// An import is the fixed sequence check, unprotect destination year, move,
// re-protect. The consistency check gates the move; nothing enters
// 1_original without passing it.
package importer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"pwf/internal/archive"
	"pwf/internal/check"
	"pwf/internal/errs"
	"pwf/internal/fileutil"
	"pwf/internal/logging"
	"pwf/internal/protect"
	"pwf/internal/taxonomy"
)

// Importer moves event folders from 0_new into 1_original.
type Importer struct {
	arch      *archive.Archive
	checker   *check.Checker
	protector *protect.Manager
	logger    *slog.Logger
}

// New constructs an importer with its own checker and protection manager.
func New(arch *archive.Archive, logger *slog.Logger) *Importer {
	checker := check.New(arch, logger)
	return &Importer{
		arch:      arch,
		checker:   checker,
		protector: protect.New(arch, checker, logger),
		logger:    logging.NewComponentLogger(logger, "import"),
	}
}

// Options tune one import run.
type Options struct {
	// Ignore is passed to the pre-import check. Only the raw-derivatives
	// category may be ignored on import.
	Ignore []check.Category
	// Year overrides the archive year when the event name does not carry
	// one. Ignored when the year is derivable.
	Year int
	// KeepUnprotected leaves the destination year folder writable after
	// the move.
	KeepUnprotected bool
	// DryRun validates and reports the move without touching anything.
	DryRun bool
}

// Import validates the event folder at path and moves it into the original
// archive under its year.
func (im *Importer) Import(path string, opts Options) error {
	src := im.arch.Resolve(path)
	desc, err := taxonomy.Classify(src)
	if err != nil {
		return err
	}
	if desc.Stage != taxonomy.StageNew || !desc.IsEventDir {
		return errs.Wrap(errs.ErrPolicy, "import",
			"can only import event directories from "+taxonomy.StageNew.DirName(), nil)
	}

	year, err := resolveYear(desc, opts.Year)
	if err != nil {
		return err
	}

	if err := validateIgnores(opts.Ignore); err != nil {
		return err
	}
	if len(opts.Ignore) > 0 {
		im.logger.Warn("importing with ignored checks is strongly discouraged")
	}

	if err := im.checker.Run(src, check.Options{Ignore: opts.Ignore}); err != nil {
		return err
	}

	yearDir := filepath.Join(im.arch.Root(),
		taxonomy.StageOriginal.DirName(), strconv.Itoa(year))
	dst := filepath.Join(yearDir, desc.Event)
	if _, err := os.Lstat(dst); err == nil {
		return errs.Wrap(errs.ErrPolicy, "import",
			"destination already exists: "+im.arch.DisplayPath(dst), nil)
	}

	im.logger.Info("importing event",
		logging.String("src", im.arch.DisplayPath(src)),
		logging.String("dst", im.arch.DisplayPath(dst)),
		logging.Bool("dry_run", opts.DryRun))
	if opts.DryRun {
		return nil
	}

	if _, err := os.Stat(yearDir); os.IsNotExist(err) {
		if err := os.MkdirAll(yearDir, 0o775); err != nil {
			return errs.Wrap(errs.ErrIO, "import", "create year directory", err)
		}
	} else if err := im.protector.Unprotect(yearDir, false); err != nil {
		return err
	}

	if err := fileutil.MoveTree(src, dst); err != nil {
		return errs.Wrap(errs.ErrIO, "import", "move event", err)
	}

	if opts.KeepUnprotected {
		im.logger.Warn("destination left unprotected",
			logging.String("path", im.arch.DisplayPath(yearDir)))
		return nil
	}
	return im.protector.Protect(yearDir, true)
}

// resolveYear picks the archive year from the event name, falling back to
// the explicit override.
func resolveYear(desc taxonomy.Descriptor, override int) (int, error) {
	if desc.Year != 0 {
		return desc.Year, nil
	}
	if override == 0 {
		return 0, errs.Wrap(errs.ErrPolicy, "import",
			"cannot auto-detect year and no override was provided", nil)
	}
	if override < 1900 || override > 2100 {
		return 0, errs.Wrap(errs.ErrPolicy, "import",
			fmt.Sprintf("invalid year %d, must be between 1900 and 2100", override), nil)
	}
	return override, nil
}

// validateIgnores restricts the import ignore list to raw-derivatives.
func validateIgnores(ignore []check.Category) error {
	for _, cat := range ignore {
		if cat != check.CategoryRawDerivatives {
			return errs.Wrap(errs.ErrPolicy, "import",
				"only the raw-derivatives check may be ignored on import", nil)
		}
	}
	return nil
}
