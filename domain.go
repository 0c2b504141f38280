// Package fsentity wraps files and directories in path-bound entities
// whose operations return typed errors.
package fsentity

// EntityKind tells files and directories apart
type EntityKind string

const (
	KindFile      EntityKind = "file"
	KindDirectory EntityKind = "directory"
)

// Entity is a *File or a *Directory bound to a canonical path.
// The unexported methods keep the set of implementations closed.
type Entity interface {
	// Path returns the canonical path, or "" once the entity was removed.
	Path() string
	Kind() EntityKind
	// IsCreated reports whether the path exists, is readable and writable,
	// and has the kind of the entity. Every call queries the filesystem.
	IsCreated() bool
	Info() (*PathInfo, error)
	Rename(newName string, overwrite bool) error
	Remove() error

	isNil() bool
	reopen() (Entity, error)
	copyEntity(target string, opts *copyOptions) (Entity, error)
	moveEntity(target string, opts *copyOptions) (Entity, error)
	// copyTo writes the entity to dst as one step of a tree copy
	copyTo(dst string, opts *copyOptions, visited map[string]struct{}) error
}

var (
	_ Entity = (*File)(nil)
	_ Entity = (*Directory)(nil)
)

func isNilEntity(e Entity) bool {
	return e == nil || e.isNil()
}
