package check

import (
	"io/fs"
	"os"

	"pwf/internal/errs"
	"pwf/internal/logging"
)

// writeBits are the owner/group/other write permission bits; an entry is
// protected when none of them is set.
const writeBits = 0o222

// checkProtection verifies that no file or directory in the subtree,
// including the root itself, has a write bit set. Entries are inspected
// without following symlinks; the links themselves stay writable by nature
// and are not subject to protection.
func (c *Checker) checkProtection(root string) error {
	foundAny := false

	inspect := func(path string, info fs.FileInfo) {
		if info.Mode()&fs.ModeSymlink != 0 {
			return
		}
		if info.Mode().Perm()&writeBits != 0 {
			c.logger.Info("not protected",
				logging.String("mode", info.Mode().String()),
				logging.String("path", c.arch.DisplayPath(path)),
			)
			foundAny = true
		}
	}

	rootInfo, err := os.Lstat(root)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "check", "lstat "+root, err)
	}
	inspect(root, rootInfo)

	err = walkSubtree(root, func(path string, entry fs.DirEntry) error {
		info, err := entry.Info()
		if err != nil {
			return err
		}
		inspect(path, info)
		return nil
	})
	if err != nil {
		return errs.Wrap(errs.ErrIO, "check", "walk "+root, err)
	}

	if foundAny {
		return errs.Wrap(errs.ErrCheck, "check", "found unprotected files or directories", nil)
	}
	return nil
}
