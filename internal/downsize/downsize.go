// Package downsize scales archive images into fixed bounding boxes for web
// presentation and printing.
//
// Outputs land next to their source in a subfolder named after the size tag
// ("jpg/UHD/DSC_100-UHD.jpg"). Existing outputs are never overwritten.
package downsize

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"pwf/internal/archive"
	"pwf/internal/errs"
	"pwf/internal/logging"
	"pwf/internal/taxonomy"
)

// Engine scales images below an archive root.
type Engine struct {
	arch    *archive.Archive
	quality int
	logger  *slog.Logger
}

// NewEngine creates an engine writing JPEG output at the given quality.
func NewEngine(arch *archive.Archive, quality int, logger *slog.Logger) *Engine {
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Engine{
		arch:    arch,
		quality: quality,
		logger:  logging.NewComponentLogger(logger, "downsize"),
	}
}

// Run downsizes the file at path, or every media file directly inside it
// when path is a directory, into the tag's bounding box.
func (e *Engine) Run(path string, tag SizeTag, dryRun bool) error {
	_, box, err := ParseSizeTag(string(tag))
	if err != nil {
		return err
	}

	src := e.arch.Resolve(path)
	files, err := collectFiles(src)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := e.downsizeFile(file, tag, box, dryRun); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) downsizeFile(file string, tag SizeTag, box Size, dryRun bool) error {
	dstDir := filepath.Join(filepath.Dir(file), string(tag))
	dst := filepath.Join(dstDir, OutputName(filepath.Base(file), tag))

	if _, err := os.Stat(dst); err == nil {
		e.logger.Info("skipping, output exists",
			logging.String("path", e.arch.DisplayPath(dst)))
		return nil
	}

	cat, ok := taxonomy.CategoryForFile(filepath.Base(file))
	if !ok || (cat != taxonomy.CategoryJPG && cat != taxonomy.CategoryVideo) {
		return errs.Wrap(errs.ErrPolicy, "downsize",
			"can only downsize jpg images and videos: "+e.arch.DisplayPath(file), nil)
	}
	if cat == taxonomy.CategoryVideo {
		// TODO: scale videos through ffmpeg (libx265) once wired up.
		e.logger.Warn("video downsizing not implemented, skipping",
			logging.String("path", e.arch.DisplayPath(file)))
		return nil
	}

	e.logger.Info("downsizing",
		logging.String("src", e.arch.DisplayPath(file)),
		logging.String("tag", string(tag)),
		logging.Bool("dry_run", dryRun))
	if dryRun {
		return nil
	}

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return errs.Wrap(errs.ErrIO, "downsize", "create output directory", err)
	}
	return ScaleImage(file, dst, box, e.quality)
}

// ScaleImage writes a scaled JPEG copy of src to dst, fitting the
// orientation-aligned bounding box.
func ScaleImage(src, dst string, box Size, quality int) error {
	img, err := imaging.Open(src)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "downsize", "open image", err)
	}

	bounds := img.Bounds()
	size := ComputeInsideBox(Size{Width: bounds.Dx(), Height: bounds.Dy()}, box, true)

	scaled := imaging.Resize(img, size.Width, size.Height, imaging.Lanczos)
	if err := imaging.Save(scaled, dst, imaging.JPEGQuality(quality)); err != nil {
		return errs.Wrap(errs.ErrIO, "downsize", "save image", err)
	}
	return nil
}

// OutputName derives the output filename for a source file and tag
// ("DSC_100.jpg" -> "DSC_100-UHD.jpg").
func OutputName(name string, tag SizeTag) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s-%s%s", stem, tag, ext)
}

// collectFiles expands a directory into its direct media file children;
// subfolders (including earlier tag outputs) are not descended into.
func collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "downsize", "stat path", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "downsize", "read directory", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	return files, nil
}
