package check

import (
	"errors"
	"io/fs"
	"os"
	"sort"

	"pwf/internal/errs"
	"pwf/internal/logging"
	"pwf/internal/manifest"
)

// checkDuplicates reports groups of files with identical content.
func (c *Checker) checkDuplicates(root string) error {
	groups, err := duplicateGroups(root)
	if err != nil {
		return err
	}

	for _, paths := range groups {
		c.logger.Info("found identical files")
		for _, path := range paths {
			c.logger.Info("  duplicate", logging.String("path", c.arch.DisplayPath(path)))
		}
	}

	if len(groups) > 0 {
		return errs.Wrap(errs.ErrCheck, "check", "found duplicate files", nil)
	}
	return nil
}

// duplicateGroups collects the duplicate candidates below root. Files are
// grouped by exact byte size first; within a size group, candidates sharing
// a first-8000-byte fingerprint count as identical, so files of different
// sizes are never grouped together. Symlinks are compared by their target's
// size and content; dangling links are skipped.
func duplicateGroups(root string) ([][]string, error) {
	bySize := make(map[int64][]string)
	err := walkSubtree(root, func(path string, entry fs.DirEntry) error {
		if entry.IsDir() {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		bySize[info.Size()] = append(bySize[info.Size()], path)
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "check", "walk "+root, err)
	}

	sizes := make([]int64, 0, len(bySize))
	for size := range bySize {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	var groups [][]string
	for _, size := range sizes {
		paths := bySize[size]
		if len(paths) < 2 {
			continue
		}

		byFingerprint := make(map[string][]string)
		for _, path := range paths {
			sum, err := manifest.PartialSum(path)
			if err != nil {
				return nil, errs.Wrap(errs.ErrIO, "check", "fingerprint "+path, err)
			}
			byFingerprint[sum] = append(byFingerprint[sum], path)
		}

		fingerprints := make([]string, 0, len(byFingerprint))
		for sum := range byFingerprint {
			fingerprints = append(fingerprints, sum)
		}
		sort.Strings(fingerprints)

		for _, sum := range fingerprints {
			group := byFingerprint[sum]
			if len(group) < 2 {
				continue
			}
			sort.Strings(group)
			groups = append(groups, group)
		}
	}
	return groups, nil
}
