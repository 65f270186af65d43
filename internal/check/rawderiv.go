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

// checkRawDerivatives reports files whose names are derived from an
// original RAW name, e.g. a JPG rendered from the same capture. For every
// RAW file the stem is extracted and any other file whose name contains
// that stem counts as a derivative.
func (c *Checker) checkRawDerivatives(root string) error {
	var files []string
	err := walkSubtree(root, func(path string, entry fs.DirEntry) error {
		if entry.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return errs.Wrap(errs.ErrIO, "check", "walk "+root, err)
	}

	rawExts := stringSet(taxonomy.RawExtensions())
	foundAny := false

	for _, rawFile := range files {
		base := filepath.Base(rawFile)
		ext := strings.TrimPrefix(filepath.Ext(base), ".")
		if _, ok := rawExts[ext]; !ok {
			continue
		}
		stem := taxonomy.DerivativeStem(base)
		if stem == "" {
			continue
		}

		var sameStem []string
		for _, other := range files {
			if strings.Contains(filepath.Base(other), stem) {
				sameStem = append(sameStem, other)
			}
		}
		if len(sameStem) > 1 {
			foundAny = true
			sort.Strings(sameStem)
			c.logger.Info("files with same name stem", logging.String("stem", stem))
			for _, path := range sameStem {
				c.logger.Info("  derivative", logging.String("path", c.arch.DisplayPath(path)))
			}
		}
	}

	if foundAny {
		return errs.Wrap(errs.ErrCheck, "check", "found RAW derivatives", nil)
	}
	return nil
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
