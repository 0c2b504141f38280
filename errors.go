package fsentity

import (
	"os"

	"github.com/boostgo/errorx"
)

// Kind classifies every error returned by this package.
// Match it with errors.Is(err, ErrNotFound).
type Kind string

func (k Kind) Error() string {
	return string(k)
}

const (
	ErrInvalidArgument Kind = "fsentity.invalid_argument"
	ErrInvalidPath     Kind = "fsentity.invalid_path"
	ErrNotFound        Kind = "fsentity.not_found"
	ErrAlreadyExists   Kind = "fsentity.already_exists"
	ErrNotCreated      Kind = "fsentity.not_created"
	ErrIOFailure       Kind = "fsentity.io_failure"
)

// Error is returned by all entity operations
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op + " " + e.Path + ": " + string(e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of this error.
func (e *Error) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && kind == e.Kind
}

var (
	ErrResolvePath    = errorx.New("fsentity.path.resolve")
	ErrStatPath       = errorx.New("fsentity.path.stat")
	ErrAccessPath     = errorx.New("fsentity.path.access")
	ErrBadName        = errorx.New("fsentity.path.bad_name")
	ErrPathOutside    = errorx.New("fsentity.path.outside_root")
	ErrEntityKind     = errorx.New("fsentity.entity.kind")
	ErrSamePath       = errorx.New("fsentity.entity.same_path")
	ErrPathRemoved    = errorx.New("fsentity.entity.removed")
	ErrEntityMissing  = errorx.New("fsentity.entity.not_created")
	ErrTargetIsParent = errorx.New("fsentity.entity.target_contains_source")
	ErrPathOccupied   = errorx.New("fsentity.entity.occupied")
	ErrPathMissing    = errorx.New("fsentity.entity.missing")

	ErrCreateFile       = errorx.New("fsentity.file.create")
	ErrCreateBackupFile = errorx.New("fsentity.file.create.backup")
	ErrCreateParentDirs = errorx.New("fsentity.file.create.parents")
	ErrReadFile         = errorx.New("fsentity.file.read")
	ErrOpenFile         = errorx.New("fsentity.file.open")
	ErrWriteFile        = errorx.New("fsentity.file.write")
	ErrVerifyFile       = errorx.New("fsentity.file.verify")
	ErrRenameFile       = errorx.New("fsentity.file.rename")
	ErrCopyFile         = errorx.New("fsentity.file.copy")
	ErrMoveFile         = errorx.New("fsentity.file.move")
	ErrDeleteFile       = errorx.New("fsentity.file.delete")
	ErrHashFile         = errorx.New("fsentity.file.hash")
	ErrUnknownHash      = errorx.New("fsentity.file.hash.unknown")

	ErrCreateDirectory  = errorx.New("fsentity.directory.create")
	ErrReadDirectory    = errorx.New("fsentity.directory.read")
	ErrRenameDirectory  = errorx.New("fsentity.directory.rename")
	ErrCopyDirectory    = errorx.New("fsentity.directory.copy")
	ErrCopyIntoSelf     = errorx.New("fsentity.directory.copy.into_self")
	ErrMoveDirectory    = errorx.New("fsentity.directory.move")
	ErrDeleteDirectory  = errorx.New("fsentity.directory.delete")
	ErrCompareDirectory = errorx.New("fsentity.directory.compare")

	ErrSearchFiles    = errorx.New("fsentity.search.files")
	ErrInvalidPattern = errorx.New("fsentity.search.invalid_pattern")

	ErrLoadConfig  = errorx.New("fsentity.config.load")
	ErrParseConfig = errorx.New("fsentity.config.parse")
)

const (
	opResolve   = "resolve"
	opInfo      = "info"
	opCreate    = "create"
	opOpen      = "open"
	opRead      = "read"
	opOverwrite = "overwrite"
	opAppend    = "append"
	opHash      = "hash"
	opRename    = "rename"
	opCopy      = "copy"
	opMove      = "move"
	opRemove    = "remove"
	opList      = "list"
	opAppendTo  = "append_child"
	opFind      = "find"
	opCompare   = "compare"
	opRelative  = "relative_path"
	opConfig    = "config"
)

type pathErrorContext struct {
	Path  string `json:"path"`
	Error error  `json:"error"`
}

type moveErrorContext struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Error       error  `json:"error"`
}

func newError(kind Kind, op, path string, detail error) error {
	return &Error{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  detail,
	}
}

// newNotCreatedError tells a removed or moved entity (empty path) apart
// from one whose path is missing, of the other kind or not accessible.
func newNotCreatedError(op, path string) error {
	detail := ErrEntityMissing
	if path == "" {
		detail = ErrPathRemoved
	}

	return newError(ErrNotCreated, op, path, detail.
		SetData(pathErrorContext{
			Path: path,
		}))
}

func newAlreadyExistsError(op, path string) error {
	return newError(ErrAlreadyExists, op, path, ErrPathOccupied.
		SetData(pathErrorContext{
			Path: path,
		}))
}

func newNotFoundError(op, path string) error {
	return newError(ErrNotFound, op, path, ErrPathMissing.
		SetError(os.ErrNotExist).
		SetData(pathErrorContext{
			Path:  path,
			Error: os.ErrNotExist,
		}))
}

func newResolvePathError(path string, err error) error {
	return newError(ErrInvalidPath, opResolve, path, ErrResolvePath.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}

func newBadNameError(op, name string) error {
	return newError(ErrInvalidArgument, op, name, ErrBadName.
		SetData(pathErrorContext{
			Path: name,
		}))
}

func newAccessError(op, path string) error {
	return newError(ErrIOFailure, op, path, ErrAccessPath.
		SetError(os.ErrPermission).
		SetData(pathErrorContext{
			Path:  path,
			Error: os.ErrPermission,
		}))
}

func newSamePathError(op, path string) error {
	return newError(ErrInvalidArgument, op, path, ErrSamePath.
		SetData(pathErrorContext{
			Path: path,
		}))
}

func newEntityKindError(op string) error {
	return newError(ErrInvalidArgument, op, "", ErrEntityKind)
}

func newIOError(op, path string, detail error) error {
	return newError(ErrIOFailure, op, path, detail)
}

func newCreateFileError(path string, err error) error {
	return newIOError(opCreate, path, ErrCreateFile.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}

func newCreateParentDirsError(path string, err error) error {
	return newIOError(opCreate, path, ErrCreateParentDirs.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}

func newCreateBackupFileError(path string, err error) error {
	return newIOError(opOverwrite, path, ErrCreateBackupFile.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}

func newReadFileError(path string, err error) error {
	return newIOError(opRead, path, ErrReadFile.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}

func newOpenFileError(op, path string, err error) error {
	return newIOError(op, path, ErrOpenFile.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}

func newWriteFileError(op, path string, err error) error {
	return newIOError(op, path, ErrWriteFile.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}

func newVerifyFileError(op, path string) error {
	return newIOError(op, path, ErrVerifyFile.
		SetData(pathErrorContext{
			Path: path,
		}))
}

func newHashFileError(path string, err error) error {
	return newIOError(opHash, path, ErrHashFile.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}

func newRenameFileError(src, dst string, err error) error {
	return newIOError(opRename, src, ErrRenameFile.
		SetError(err).
		SetData(moveErrorContext{
			Source:      src,
			Destination: dst,
			Error:       err,
		}))
}

func newCopyFileError(src, dst string, err error) error {
	return newIOError(opCopy, src, ErrCopyFile.
		SetError(err).
		SetData(moveErrorContext{
			Source:      src,
			Destination: dst,
			Error:       err,
		}))
}

func newMoveFileError(src, dst string, err error) error {
	return newIOError(opMove, src, ErrMoveFile.
		SetError(err).
		SetData(moveErrorContext{
			Source:      src,
			Destination: dst,
			Error:       err,
		}))
}

func newDeleteFileError(path string, err error) error {
	return newIOError(opRemove, path, ErrDeleteFile.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}

func newCreateDirectoryError(path string, err error) error {
	return newIOError(opCreate, path, ErrCreateDirectory.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}

func newReadDirectoryError(op, path string, err error) error {
	return newIOError(op, path, ErrReadDirectory.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}

func newRenameDirectoryError(src, dst string, err error) error {
	return newIOError(opRename, src, ErrRenameDirectory.
		SetError(err).
		SetData(moveErrorContext{
			Source:      src,
			Destination: dst,
			Error:       err,
		}))
}

func newCopyDirectoryError(src, dst string, err error) error {
	return newIOError(opCopy, src, ErrCopyDirectory.
		SetError(err).
		SetData(moveErrorContext{
			Source:      src,
			Destination: dst,
			Error:       err,
		}))
}

func newCopyIntoSelfError(op, src, dst string) error {
	return newError(ErrInvalidArgument, op, src, ErrCopyIntoSelf.
		SetData(moveErrorContext{
			Source:      src,
			Destination: dst,
		}))
}

func newTargetContainsSourceError(op, src, dst string) error {
	return newError(ErrInvalidArgument, op, src, ErrTargetIsParent.
		SetData(moveErrorContext{
			Source:      src,
			Destination: dst,
		}))
}

func newMoveDirectoryError(src, dst string, err error) error {
	return newIOError(opMove, src, ErrMoveDirectory.
		SetError(err).
		SetData(moveErrorContext{
			Source:      src,
			Destination: dst,
			Error:       err,
		}))
}

func newDeleteDirectoryError(path string, err error) error {
	return newIOError(opRemove, path, ErrDeleteDirectory.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		}))
}
