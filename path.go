package fsentity

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// pathEntity holds the state shared by files and directories
type pathEntity struct {
	path string
	kind EntityKind
}

func (p *pathEntity) Path() string {
	return p.path
}

func (p *pathEntity) Kind() EntityKind {
	return p.kind
}

func (p *pathEntity) IsCreated() bool {
	if p.path == "" {
		return false
	}

	info, err := os.Stat(p.path)
	if err != nil {
		return false
	}

	switch p.kind {
	case KindFile:
		if !info.Mode().IsRegular() {
			return false
		}
	case KindDirectory:
		if !info.IsDir() {
			return false
		}
	default:
		return false
	}

	return accessible(p.path, info)
}

func (p *pathEntity) Info() (*PathInfo, error) {
	if err := p.checkCreated(opInfo); err != nil {
		return nil, err
	}

	return newPathInfo(p.path)
}

func (p *pathEntity) setPath(path string) error {
	resolved, err := canonicalPath(path)
	if err != nil {
		return err
	}

	p.path = resolved
	return nil
}

func (p *pathEntity) invalidate() {
	p.path = ""
}

func (p *pathEntity) checkCreated(op string) error {
	if !p.IsCreated() {
		return newNotCreatedError(op, p.path)
	}

	return nil
}

// sibling returns the path of name next to the entity
func (p *pathEntity) sibling(op, name string) (string, error) {
	if !isBareName(name) {
		return "", newBadNameError(op, name)
	}

	return filepath.Join(filepath.Dir(p.path), name), nil
}

// canonicalPath returns the absolute, symlink-free form of path.
// A path that does not exist yet resolves through its parent.
func canonicalPath(path string) (string, error) {
	if path == "" {
		return "", newResolvePathError(path, fs.ErrInvalid)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", newResolvePathError(path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", newResolvePathError(path, err)
	}

	parent, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return "", newResolvePathError(path, err)
	}

	return filepath.Join(parent, filepath.Base(abs)), nil
}

func isBareName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	return !strings.ContainsRune(name, '/') && !strings.ContainsRune(name, filepath.Separator)
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func isFile(path string) bool {
	stat, _ := os.Stat(path)
	if stat == nil {
		return false
	}

	return stat.Mode().IsRegular()
}

func isDirectory(path string) bool {
	stat, _ := os.Stat(path)
	if stat == nil {
		return false
	}

	return stat.IsDir()
}

// isWithin reports whether path equals root or lies below it
func isWithin(root, path string) bool {
	if path == root {
		return true
	}

	return strings.HasPrefix(path, strings.TrimSuffix(root, string(filepath.Separator))+string(filepath.Separator))
}
