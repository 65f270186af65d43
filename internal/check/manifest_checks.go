package check

import (
	"errors"
	"io/fs"
	"os"

	"pwf/internal/errs"
	"pwf/internal/logging"
	"pwf/internal/manifest"
)

// checkChecksums reads the sidecar manifest beside root and recomputes the
// full-file checksum of every referenced file. Missing files and checksum
// mismatches are both collected before the category fails.
func (c *Checker) checkChecksums(root string) error {
	entries, err := manifest.Read(root)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "check", "read manifest for "+root, err)
	}

	foundAny := false
	for _, entry := range entries {
		sum, err := manifest.Sum(entry.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			c.logger.Error("file missing", logging.String("path", c.arch.DisplayPath(entry.Path)))
			foundAny = true
			continue
		case err != nil:
			return errs.Wrap(errs.ErrIO, "check", "checksum "+entry.Path, err)
		}
		if sum != entry.Checksum {
			c.logger.Error("md5 sum mismatch",
				logging.String("want", entry.Checksum),
				logging.String("got", sum),
				logging.String("path", c.arch.DisplayPath(entry.Path)),
			)
			foundAny = true
		}
	}

	if foundAny {
		return errs.Wrap(errs.ErrCheck, "check", "found missing files or files with wrong MD5 sum", nil)
	}
	return nil
}

// checkMissingFiles verifies only the existence of every manifest entry. It
// is skipped when the checksum category runs, which subsumes it.
func (c *Checker) checkMissingFiles(root string) error {
	entries, err := manifest.Read(root)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "check", "read manifest for "+root, err)
	}

	foundAny := false
	for _, entry := range entries {
		if _, err := os.Stat(entry.Path); errors.Is(err, fs.ErrNotExist) {
			c.logger.Error("file missing", logging.String("path", c.arch.DisplayPath(entry.Path)))
			foundAny = true
		}
	}

	if foundAny {
		return errs.Wrap(errs.ErrCheck, "check", "found missing files", nil)
	}
	return nil
}
