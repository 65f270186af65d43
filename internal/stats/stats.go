// Package stats aggregates file counts and sizes per media category and
// keeps a history of snapshots in a SQLite database.
package stats

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"pwf/internal/errs"
	"pwf/internal/taxonomy"
)

// Entry is the aggregate for one media category.
type Entry struct {
	Category taxonomy.Category
	Count    int64
	Bytes    int64
}

// Report is one complete measurement of a subtree.
type Report struct {
	Path    string
	TakenAt time.Time
	Entries []Entry
}

// categoryTitles maps categories to their report labels.
var categoryTitles = map[taxonomy.Category]string{
	taxonomy.CategoryRaw:   "RAW images",
	taxonomy.CategoryJPG:   "JPG images",
	taxonomy.CategoryVideo: "Videos",
	taxonomy.CategoryAudio: "Audio files",
}

// Title returns the report label for a category.
func Title(cat taxonomy.Category) string { return categoryTitles[cat] }

// Collect walks the subtree at path and aggregates counts and sizes per
// media category. Files with unknown extensions are not counted. Symlinks
// count with the size of their target so linked trees report real content
// sizes.
func Collect(path string) (Report, error) {
	totals := make(map[taxonomy.Category]*Entry, 4)
	for _, cat := range taxonomy.Categories() {
		totals[cat] = &Entry{Category: cat}
	}

	err := filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		cat, ok := taxonomy.CategoryForFile(entry.Name())
		if !ok {
			return nil
		}
		info, err := os.Stat(p)
		if err != nil {
			// Dangling symlink; count it with zero size.
			totals[cat].Count++
			return nil
		}
		totals[cat].Count++
		totals[cat].Bytes += info.Size()
		return nil
	})
	if err != nil {
		return Report{}, errs.Wrap(errs.ErrIO, "stats", "walk subtree", err)
	}

	report := Report{Path: path, TakenAt: time.Now().UTC()}
	for _, cat := range taxonomy.Categories() {
		report.Entries = append(report.Entries, *totals[cat])
	}
	return report, nil
}

// HumanSize renders a byte count with binary prefixes and one decimal.
func HumanSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	units := []string{"KiB", "MiB", "GiB", "TiB"}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %s", float64(b)/float64(div), units[exp])
}
