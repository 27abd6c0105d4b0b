package render

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
)

var errNotADirectory = errors.New("output root is not a directory")

// Clean removes every non-directory entry below root and returns how many were
// removed. Directories, and symlinks pointing at directories, are left in
// place. A missing root is not an error; a root that is a symlink to a
// directory is cleaned through the link.
//
// Clean is destructive: it deletes any file under root, generated or not. It
// must run before the first page of a render cycle is written.
func Clean(root string) (int, error) {
	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return 0, nil
	case err != nil:
		return 0, cleanError(err, root, 0)
	case !info.IsDir():
		return 0, cleanError(errNotADirectory, root, 0)
	}
	target, err := filepath.EvalSymlinks(root)
	if err != nil {
		return 0, cleanError(err, root, 0)
	}

	removed := 0
	err = filepath.WalkDir(target, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || linksToDir(path, d) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, cleanError(err, root, removed)
	}
	return removed, nil
}

// linksToDir reports whether d is a symlink resolving to a directory. The link
// itself is kept and not descended into.
func linksToDir(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func cleanError(err error, root string, removed int) error {
	return derrors.WrapError(err, derrors.CategoryFileSystem, "clean output directory").
		Fatal().
		WithContext("output_root", root).
		WithContext("removed", removed).
		Build()
}
