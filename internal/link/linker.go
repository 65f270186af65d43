package link

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pwf/internal/archive"
	"pwf/internal/errs"
	"pwf/internal/logging"
	"pwf/internal/taxonomy"
)

// Linker creates relative symlinks between taxonomy stages.
type Linker struct {
	arch   *archive.Archive
	logger *slog.Logger
}

// NewLinker creates a linker bound to an archive.
func NewLinker(arch *archive.Archive, logger *slog.Logger) *Linker {
	return &Linker{
		arch:   arch,
		logger: logging.NewComponentLogger(logger, "link"),
	}
}

// Options control a link operation.
type Options struct {
	// Forced replaces existing destination entries instead of skipping them.
	Forced bool
	// Recursive descends into subdirectories of a directory source.
	Recursive bool
	// All disables the preview selection filter when linking into the lab.
	All bool
	// DryRun reports what would be linked without touching the filesystem.
	DryRun bool
}

// Link resolves the destination (literal path or @-tag), validates the stage
// transition and links the source file or directory.
func (l *Linker) Link(srcArg, dstArg string, opts Options) error {
	src := l.arch.Resolve(srcArg)
	info, err := os.Stat(src)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "link", "stat source", err)
	}

	var dst string
	if taxonomy.IsTag(dstArg) {
		tag, err := taxonomy.ParseTag(dstArg)
		if err != nil {
			return err
		}
		desc, err := taxonomy.Classify(src)
		if err != nil {
			return err
		}
		// An illegal destination stage is reported before any source
		// layout problem.
		if err := CheckStageTransition(desc.Stage, tag.Stage()); err != nil {
			return err
		}
		dst, err = ResolveTagDestination(src, tag)
		if err != nil {
			return err
		}
	} else {
		dst = l.arch.Resolve(dstArg)
		if target, statErr := os.Stat(dst); statErr == nil && target.IsDir() && !info.IsDir() {
			dst = filepath.Join(dst, filepath.Base(src))
		}
	}

	if err := CheckLinkAllowed(src, dst); err != nil {
		return err
	}

	if !info.IsDir() {
		return l.LinkFile(src, dst, opts)
	}

	filter, err := l.previewFilter(src, dst, opts)
	if err != nil {
		return err
	}
	return l.LinkDirectory(src, dst, filter, opts)
}

// LinkFile creates a single relative symlink at dst pointing at src. A
// symlink source is flattened so the new link points at the final target
// instead of chaining. Existing destinations are skipped unless forced.
func (l *Linker) LinkFile(src, dst string, opts Options) error {
	target := src
	if info, err := os.Lstat(src); err == nil && info.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(src)
		if err != nil {
			l.logger.Warn("cannot flatten symlink source, linking as-is",
				logging.String("path", l.arch.DisplayPath(src)),
				logging.Error(err))
		} else {
			target = resolved
		}
	}

	if _, err := os.Lstat(dst); err == nil {
		if !opts.Forced {
			l.logger.Warn("destination exists, skipping",
				logging.String("path", l.arch.DisplayPath(dst)))
			return nil
		}
		if !opts.DryRun {
			if err := os.Remove(dst); err != nil {
				return errs.Wrap(errs.ErrIO, "link", "replace destination", err)
			}
		}
	}

	rel, err := RelativeLinkTarget(l.arch, target, dst)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "link", "compute link target", err)
	}

	l.logger.Info("linking",
		logging.String("path", l.arch.DisplayPath(dst)),
		logging.String("target", rel),
		logging.Bool("dry_run", opts.DryRun))
	if opts.DryRun {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errs.Wrap(errs.ErrIO, "link", "create destination directory", err)
	}
	if err := os.Symlink(rel, dst); err != nil {
		return errs.Wrap(errs.ErrIO, "link", "create symlink", err)
	}
	return nil
}

// LinkDirectory links the regular files of src into dst. A non-nil filter
// restricts linking to names containing a filter entry; a name matched by
// more than one entry is linked once and logged as ambiguous.
func (l *Linker) LinkDirectory(src, dst string, filter []string, opts Options) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "link", "read source directory", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if opts.Recursive {
				if err := l.LinkDirectory(filepath.Join(src, name), filepath.Join(dst, name), filter, opts); err != nil {
					return err
				}
			}
			continue
		}
		if filter != nil {
			switch matches := countMatches(name, filter); {
			case matches == 0:
				continue
			case matches > 1:
				l.logger.Warn("name matches multiple filter entries",
					logging.String("name", name),
					logging.Int("matches", matches))
			}
		}
		if err := l.LinkFile(filepath.Join(src, name), filepath.Join(dst, name), opts); err != nil {
			return err
		}
	}
	return nil
}

// previewFilter derives the lab selection filter from the preview folder
// next to the destination. It applies only when linking raw or jpg folders
// into the lab and opts.All is unset; a missing preview folder disables the
// filter with a warning.
func (l *Linker) previewFilter(src, dst string, opts Options) ([]string, error) {
	if opts.All {
		return nil, nil
	}
	dstDesc, err := taxonomy.Classify(dst)
	if err != nil {
		return nil, err
	}
	srcDesc, err := taxonomy.Classify(src)
	if err != nil {
		return nil, err
	}
	if dstDesc.Stage != taxonomy.StageLab {
		return nil, nil
	}
	if srcDesc.FileType != taxonomy.CategoryRaw && srcDesc.FileType != taxonomy.CategoryJPG {
		return nil, nil
	}

	previewDir := filepath.Join(filepath.Dir(dst), taxonomy.PreviewDirName)
	entries, err := os.ReadDir(previewDir)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("no preview folder, linking everything",
			logging.String("path", l.arch.DisplayPath(previewDir)))
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "link", "read preview directory", err)
	}

	filter := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), taxonomy.PreviewSuffix) {
			continue
		}
		// Previews keep the full source name ("DSC_100.NEF-preview.jpg"),
		// so stripping the suffix selects exactly the previewed file.
		filter = append(filter, taxonomy.StripPreviewSuffix(entry.Name()))
	}
	return filter, nil
}

func countMatches(name string, filter []string) int {
	matches := 0
	for _, entry := range filter {
		if strings.Contains(name, entry) {
			matches++
		}
	}
	return matches
}
