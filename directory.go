package fsentity

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Directory is a directory bound to its canonical path
type Directory struct {
	pathEntity
}

func newDirectory(path string) *Directory {
	return &Directory{
		pathEntity: pathEntity{
			path: path,
			kind: KindDirectory,
		},
	}
}

// CreateDirectory creates a single directory. With WithRecursive missing
// parents are created too. It fails with ErrAlreadyExists when anything is
// already present at path.
func CreateDirectory(path string, options ...DirectoryOption) (*Directory, error) {
	opts := applyDirectoryOptions(options)

	if path == "" {
		return nil, newResolvePathError(path, fs.ErrInvalid)
	}

	if opts.recursive {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, newResolvePathError(path, err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), opts.perm); err != nil {
			return nil, newCreateDirectoryError(path, err)
		}
	}

	d := newDirectory("")
	if err := d.setPath(path); err != nil {
		return nil, err
	}

	if err := os.Mkdir(d.path, opts.perm); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, newAlreadyExistsError(opCreate, d.path)
		}
		return nil, newCreateDirectoryError(d.path, err)
	}

	logOp(opCreate, d.path).Str("kind", string(KindDirectory)).Msg("directory created")
	return d, nil
}

// OpenDirectory binds an entity to an existing directory
func OpenDirectory(path string) (*Directory, error) {
	d := newDirectory("")
	if err := d.setPath(path); err != nil {
		if path != "" && !pathExists(path) {
			return nil, newNotFoundError(opOpen, path)
		}
		return nil, err
	}

	if !isDirectory(d.path) {
		return nil, newNotFoundError(opOpen, d.path)
	}

	if !d.IsCreated() {
		return nil, newAccessError(opOpen, d.path)
	}

	return d, nil
}

// OpenOrCreateDirectory opens the directory at path, creating it first if needed
func OpenOrCreateDirectory(path string, options ...DirectoryOption) (*Directory, error) {
	if isDirectory(path) {
		return OpenDirectory(path)
	}

	return CreateDirectory(path, options...)
}

func (d *Directory) isNil() bool {
	return d == nil
}

func (d *Directory) reopen() (Entity, error) {
	dir, err := OpenDirectory(d.path)
	if err != nil {
		return nil, err
	}

	return dir, nil
}

// Content lists the direct children keyed by their path. Symlinks are
// followed to decide the kind; anything that is neither a regular file nor
// a directory is left out. Every call reads the directory again.
func (d *Directory) Content() (map[string]Entity, error) {
	if err := d.checkCreated(opList); err != nil {
		return nil, err
	}

	return listChildren(opList, d.path)
}

// listChildren classifies the children of path without the access check
// of IsCreated. Tree walks only need to read.
func listChildren(op, path string) (map[string]Entity, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, newReadDirectoryError(op, path, err)
	}

	content := make(map[string]Entity, len(entries))
	for _, entry := range entries {
		childPath := filepath.Join(path, entry.Name())

		info, err := os.Stat(childPath)
		if err != nil {
			continue
		}

		boundPath := childPath
		if entry.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(childPath)
			if err != nil {
				continue
			}
			boundPath = resolved
		}

		switch {
		case info.Mode().IsRegular():
			content[childPath] = newFile(boundPath)
		case info.IsDir():
			content[childPath] = newDirectory(boundPath)
		}
	}

	return content, nil
}

// Files lists the direct child files
func (d *Directory) Files() (map[string]*File, error) {
	content, err := d.Content()
	if err != nil {
		return nil, err
	}

	files := make(map[string]*File)
	for path, entity := range content {
		if file, ok := entity.(*File); ok {
			files[path] = file
		}
	}

	return files, nil
}

// Directories lists the direct child directories
func (d *Directory) Directories() (map[string]*Directory, error) {
	content, err := d.Content()
	if err != nil {
		return nil, err
	}

	directories := make(map[string]*Directory)
	for path, entity := range content {
		if dir, ok := entity.(*Directory); ok {
			directories[path] = dir
		}
	}

	return directories, nil
}

// Rename gives the directory a new name next to itself. With overwrite an
// existing target is removed first, recursively if it is a directory.
func (d *Directory) Rename(newName string, overwrite bool) error {
	if err := d.checkCreated(opRename); err != nil {
		return err
	}

	target, err := d.sibling(opRename, newName)
	if err != nil {
		return err
	}

	if target == d.path {
		if !overwrite {
			return newAlreadyExistsError(opRename, target)
		}
		return nil
	}

	if pathExists(target) {
		if !overwrite {
			return newAlreadyExistsError(opRename, target)
		}
		if err := removeExisting(target); err != nil {
			return err
		}
	}

	source := d.path
	if err := renamePath(source, target); err != nil {
		return newRenameDirectoryError(source, target, err)
	}

	if err := d.setPath(target); err != nil {
		return err
	}

	logOp(opRename, d.path).Str("from", source).Msg("directory renamed")
	return nil
}

// Copy deep-copies the directory to target. Children whose basename is
// given to WithIgnore are skipped. With WithOverwrite an existing target
// directory is merged into.
func (d *Directory) Copy(target string, options ...CopyOption) (*Directory, error) {
	return d.copy(target, applyCopyOptions(options))
}

func (d *Directory) copy(target string, opts *copyOptions) (*Directory, error) {
	if err := d.checkCreated(opCopy); err != nil {
		return nil, err
	}

	destination, err := d.prepareTarget(opCopy, target, opts)
	if err != nil {
		return nil, err
	}

	if err := copyTree(d, destination, opts); err != nil {
		return nil, err
	}

	logOp(opCopy, d.path).Str("to", destination).Msg("directory copied")

	if opts.keepOriginal {
		return d, nil
	}

	return newDirectory(destination), nil
}

// prepareTarget resolves target and clears the way for a copy or move
func (d *Directory) prepareTarget(op, target string, opts *copyOptions) (string, error) {
	destination, err := canonicalPath(target)
	if err != nil {
		return "", err
	}

	if destination == d.path {
		return "", newSamePathError(op, destination)
	}

	if isWithin(d.path, destination) {
		return "", newCopyIntoSelfError(op, d.path, destination)
	}

	if pathExists(destination) {
		if !opts.overwrite {
			return "", newAlreadyExistsError(op, destination)
		}
		if isWithin(destination, d.path) {
			return "", newTargetContainsSourceError(op, d.path, destination)
		}
		if !isDirectory(destination) {
			if err := removeExisting(destination); err != nil {
				return "", err
			}
		}
	}

	return destination, nil
}

func (d *Directory) copyEntity(target string, opts *copyOptions) (Entity, error) {
	dir, err := d.copy(target, opts)
	if err != nil {
		return nil, err
	}

	return dir, nil
}

func (d *Directory) copyTo(dst string, opts *copyOptions, visited map[string]struct{}) error {
	if _, seen := visited[d.path]; seen {
		logOp(opCopy, d.path).Msg("directory already copied, skipping")
		return nil
	}

	return copyTreeVisit(d, dst, opts, visited)
}

// Move relocates the directory. Without an ignore list and with a free
// target a plain rename is used. Otherwise the tree is copied and the
// source removed, which is not atomic.
func (d *Directory) Move(target string, options ...CopyOption) (*Directory, error) {
	return d.move(target, applyCopyOptions(options))
}

func (d *Directory) move(target string, opts *copyOptions) (*Directory, error) {
	if err := d.checkCreated(opMove); err != nil {
		return nil, err
	}

	source := d.path
	destination, err := d.prepareTarget(opMove, target, opts)
	if err != nil {
		return nil, err
	}

	if !pathExists(destination) && len(opts.ignore) == 0 {
		err := renamePath(source, destination)
		if err == nil {
			d.invalidate()
			logOp(opMove, source).Str("to", destination).Msg("directory moved")
			return newDirectory(destination), nil
		}
		if !isCrossDevice(err) {
			return nil, newMoveDirectoryError(source, destination, err)
		}

		Logger().Warn().
			Str("op", opMove).
			Str("path", source).
			Str("to", destination).
			Msg("rename crossed devices, falling back to copy and remove")
	}

	if err := copyTree(d, destination, opts); err != nil {
		return nil, err
	}

	if err := d.Remove(); err != nil {
		return nil, newMoveDirectoryError(source, destination, err)
	}

	logOp(opMove, source).Str("to", destination).Msg("directory moved by copy")
	return newDirectory(destination), nil
}

func (d *Directory) moveEntity(target string, opts *copyOptions) (Entity, error) {
	dir, err := d.move(target, opts)
	if err != nil {
		return nil, err
	}

	return dir, nil
}

// Append moves child into the directory under its basename, or copies it
// with WithKeepSource. It returns the entity at the new location.
func (d *Directory) Append(child Entity, options ...CopyOption) (Entity, error) {
	if err := d.checkCreated(opAppendTo); err != nil {
		return nil, err
	}

	if isNilEntity(child) {
		return nil, newEntityKindError(opAppendTo)
	}

	if !child.IsCreated() {
		return nil, newNotCreatedError(opAppendTo, child.Path())
	}

	opts := applyCopyOptions(options)
	target := filepath.Join(d.path, filepath.Base(child.Path()))

	if opts.keepSource {
		return child.copyEntity(target, opts)
	}

	return child.moveEntity(target, opts)
}

// Remove deletes the directory with everything below it, children first.
// It stops at the first entry that cannot be removed, leaving the rest.
func (d *Directory) Remove() error {
	if err := d.checkCreated(opRemove); err != nil {
		return err
	}

	path := d.path
	if err := removeTree(path); err != nil {
		return err
	}

	d.invalidate()
	logOp(opRemove, path).Msg("directory removed")
	return nil
}
