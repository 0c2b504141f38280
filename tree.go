package fsentity

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// copyTree copies src into dst depth-first: every directory is created
// before its children are copied.
func copyTree(src *Directory, dst string, opts *copyOptions) error {
	return copyTreeVisit(src, dst, opts, map[string]struct{}{})
}

func copyTreeVisit(src *Directory, dst string, opts *copyOptions, visited map[string]struct{}) error {
	visited[src.path] = struct{}{}

	srcInfo, err := os.Stat(src.path)
	if err != nil {
		return newCopyDirectoryError(src.path, dst, err)
	}

	if info, err := os.Lstat(dst); err == nil && !info.IsDir() {
		if err := removeExisting(dst); err != nil {
			return err
		}
	}

	// owner access is kept until the children are in place
	perm := srcInfo.Mode().Perm()
	if err := os.Mkdir(dst, perm|0700); err != nil && !errors.Is(err, fs.ErrExist) {
		return newCopyDirectoryError(src.path, dst, err)
	}

	content, err := listChildren(opCopy, src.path)
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(content))
	for path := range content {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		name := filepath.Base(path)
		if opts.ignored(name) {
			continue
		}

		if err := content[path].copyTo(filepath.Join(dst, name), opts, visited); err != nil {
			return err
		}
	}

	if perm != perm|0700 {
		if err := os.Chmod(dst, perm); err != nil {
			return newCopyDirectoryError(src.path, dst, err)
		}
	}

	return nil
}

// removeTree deletes path and everything below it, children first.
// Symlinks are unlinked, never followed. The first failure aborts the walk.
func removeTree(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return newReadDirectoryError(opRemove, path, err)
	}

	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())

		if entry.IsDir() {
			if err := removeTree(child); err != nil {
				return err
			}
			continue
		}

		if err := removePath(child); err != nil {
			return newDeleteFileError(child, err)
		}
	}

	if err := removePath(path); err != nil {
		return newDeleteDirectoryError(path, err)
	}

	return nil
}

// removeExisting clears whatever occupies path
func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return newDeleteFileError(path, err)
	}

	if info.IsDir() {
		return removeTree(path)
	}

	if err := removePath(path); err != nil {
		return newDeleteFileError(path, err)
	}

	return nil
}
