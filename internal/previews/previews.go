// Package previews renders small preview images of RAW and JPG sources.
//
// JPG previews are scaled copies of the original; RAW previews reuse the
// JPEG thumbnail embedded in the file's exif block instead of decoding the
// sensor data. Previews are named after the full source filename
// ("DSC_100.NEF" -> "DSC_100.NEF-preview.jpg") so one folder can hold
// previews of raw and jpg siblings side by side.
package previews

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"pwf/internal/archive"
	"pwf/internal/downsize"
	"pwf/internal/errs"
	"pwf/internal/logging"
	"pwf/internal/taxonomy"
)

// Extractor renders previews below an archive root.
type Extractor struct {
	arch    *archive.Archive
	box     downsize.Size
	quality int
	logger  *slog.Logger
}

// New creates an extractor rendering previews into the bounding box named
// by sizeTag.
func New(arch *archive.Archive, sizeTag string, quality int, logger *slog.Logger) (*Extractor, error) {
	_, box, err := downsize.ParseSizeTag(sizeTag)
	if err != nil {
		return nil, err
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Extractor{
		arch:    arch,
		box:     box,
		quality: quality,
		logger:  logging.NewComponentLogger(logger, "previews"),
	}, nil
}

// Options tune one extraction run.
type Options struct {
	// Recursive descends into subdirectories of a directory source.
	Recursive bool
	// FilterFile restricts extraction to source names listed in the file,
	// one name per line. Used to restore cleaned-up lab preview folders.
	FilterFile string
	// DryRun reports what would be rendered without writing anything.
	DryRun bool
}

// Run renders previews for the file or directory at srcArg into dstArg.
// An empty destination places previews next to the source; @lab targets the
// 1_preview folder of the matching lab event.
func (e *Extractor) Run(srcArg, dstArg string, opts Options) error {
	src := e.arch.Resolve(srcArg)
	if _, err := os.Stat(src); err != nil {
		return errs.Wrap(errs.ErrIO, "previews", "stat source", err)
	}

	dst, err := e.resolveDestination(src, dstArg, opts.DryRun)
	if err != nil {
		return err
	}

	filter, err := loadFilter(opts.FilterFile)
	if err != nil {
		return err
	}

	files, err := collectSources(src, opts.Recursive)
	if err != nil {
		return err
	}

	for _, file := range files {
		if strings.HasSuffix(file, taxonomy.PreviewSuffix) {
			continue
		}
		if filter != nil && !filter[filepath.Base(file)] {
			e.logger.Info("skipping, no filter match",
				logging.String("path", e.arch.DisplayPath(file)))
			continue
		}
		if err := e.extractOne(file, dst, opts.DryRun); err != nil {
			return err
		}
	}
	return nil
}

// resolveDestination expands the destination argument. @lab maps to the
// 1_preview folder of the source's event in the lab tree and is created on
// the fly.
func (e *Extractor) resolveDestination(src, dstArg string, dryRun bool) (string, error) {
	if dstArg == "" {
		return filepath.Dir(src), nil
	}
	if !taxonomy.IsTag(dstArg) {
		dst := e.arch.Resolve(dstArg)
		info, err := os.Stat(dst)
		if err != nil || !info.IsDir() {
			return "", errs.Wrap(errs.ErrPolicy, "previews",
				"destination must be a directory or @lab", nil)
		}
		return dst, nil
	}

	if dstArg != string(taxonomy.TagLab) {
		return "", errs.Wrap(errs.ErrPolicy, "previews",
			"only the @lab tag is supported as preview destination", nil)
	}
	desc, err := taxonomy.Classify(src)
	if err != nil {
		return "", err
	}
	if desc.Event == "" {
		return "", errs.Wrap(errs.ErrPolicy, "previews",
			"@lab requires a source inside an event directory", nil)
	}

	dst := filepath.Join(e.arch.Root(), taxonomy.StageLab.DirName(),
		strconv.Itoa(desc.Year), desc.Event, taxonomy.PreviewDirName)
	if dryRun {
		e.logger.Info("would create preview folder",
			logging.String("path", e.arch.DisplayPath(dst)))
		return dst, nil
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", errs.Wrap(errs.ErrIO, "previews", "create preview folder", err)
	}
	return dst, nil
}

func (e *Extractor) extractOne(file, dstDir string, dryRun bool) error {
	dst := filepath.Join(dstDir, filepath.Base(file)+taxonomy.PreviewSuffix)
	if _, err := os.Stat(dst); err == nil {
		e.logger.Info("skipping, preview exists",
			logging.String("path", e.arch.DisplayPath(dst)))
		return nil
	}

	cat, ok := taxonomy.CategoryForFile(filepath.Base(file))
	if !ok || (cat != taxonomy.CategoryJPG && cat != taxonomy.CategoryRaw) {
		e.logger.Info("skipping unsupported extension",
			logging.String("path", e.arch.DisplayPath(file)))
		return nil
	}

	e.logger.Info("rendering preview",
		logging.String("src", e.arch.DisplayPath(file)),
		logging.String("dst", e.arch.DisplayPath(dst)),
		logging.Bool("dry_run", dryRun))
	if dryRun {
		return nil
	}

	if cat == taxonomy.CategoryJPG {
		return downsize.ScaleImage(file, dst, e.box, e.quality)
	}
	return e.extractRawPreview(file, dst)
}

// extractRawPreview scales the JPEG thumbnail embedded in a RAW file's exif
// block. RAW files without a usable thumbnail are an error; decoding sensor
// data is out of scope.
func (e *Extractor) extractRawPreview(file, dst string) error {
	f, err := os.Open(file)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "previews", "open raw file", err)
	}
	defer f.Close()

	meta, err := exif.Decode(f)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "previews", "decode exif", err)
	}
	thumb, err := meta.JpegThumbnail()
	if err != nil {
		return errs.Wrap(errs.ErrIO, "previews", "no embedded thumbnail", err)
	}

	img, err := imaging.Decode(bytes.NewReader(thumb))
	if err != nil {
		return errs.Wrap(errs.ErrIO, "previews", "decode thumbnail", err)
	}
	bounds := img.Bounds()
	size := downsize.ComputeInsideBox(
		downsize.Size{Width: bounds.Dx(), Height: bounds.Dy()}, e.box, true)
	scaled := imaging.Resize(img, size.Width, size.Height, imaging.Lanczos)
	if err := imaging.Save(scaled, dst, imaging.JPEGQuality(e.quality)); err != nil {
		return errs.Wrap(errs.ErrIO, "previews", "save preview", err)
	}
	return nil
}

// loadFilter reads a filter file into a name set. Empty lines and comments
// are skipped.
func loadFilter(path string) (map[string]bool, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "previews", "read filter file", err)
	}
	filter := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		filter[line] = true
	}
	return filter, nil
}

// collectSources expands a directory into its media file children.
func collectSources(path string, recursive bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "previews", "stat path", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(path, func(p string, entry os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && strings.Contains(entry.Name(), ".") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, errs.Wrap(errs.ErrIO, "previews", "walk directory", err)
		}
		return files, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "previews", "read directory", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	return files, nil
}
