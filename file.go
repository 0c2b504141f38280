package fsentity

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

const lineSeparator = "\n"

// swapped in tests to simulate cross-device moves and failing unlinks
var (
	renamePath = os.Rename
	removePath = os.Remove
)

// File is a regular file bound to its canonical path
type File struct {
	pathEntity
}

func newFile(path string) *File {
	return &File{
		pathEntity: pathEntity{
			path: path,
			kind: KindFile,
		},
	}
}

// CreateFile creates a new empty file. It fails with ErrAlreadyExists when
// anything is already present at path.
func CreateFile(path string, options ...FileOption) (*File, error) {
	opts := applyFileOptions(options)

	if path == "" {
		return nil, newResolvePathError(path, fs.ErrInvalid)
	}

	if opts.createDirs {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, newResolvePathError(path, err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			return nil, newCreateParentDirsError(path, err)
		}
	}

	f := newFile("")
	if err := f.setPath(path); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(f.path, os.O_RDWR|os.O_CREATE|os.O_EXCL, opts.perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, newAlreadyExistsError(opCreate, f.path)
		}
		return nil, newCreateFileError(f.path, err)
	}

	if err := file.Close(); err != nil {
		return nil, newCreateFileError(f.path, err)
	}

	logOp(opCreate, f.path).Str("kind", string(KindFile)).Msg("file created")
	return f, nil
}

// OpenFile binds an entity to an existing regular file
func OpenFile(path string) (*File, error) {
	f := newFile("")
	if err := f.setPath(path); err != nil {
		if path != "" && !pathExists(path) {
			return nil, newNotFoundError(opOpen, path)
		}
		return nil, err
	}

	if !isFile(f.path) {
		return nil, newNotFoundError(opOpen, f.path)
	}

	if !f.IsCreated() {
		return nil, newAccessError(opOpen, f.path)
	}

	return f, nil
}

// OpenOrCreateFile opens the file at path, creating it first if needed
func OpenOrCreateFile(path string, options ...FileOption) (*File, error) {
	if isFile(path) {
		return OpenFile(path)
	}

	return CreateFile(path, options...)
}

func (f *File) isNil() bool {
	return f == nil
}

func (f *File) reopen() (Entity, error) {
	file, err := OpenFile(f.path)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// Read returns the full file content
func (f *File) Read() ([]byte, error) {
	if err := f.checkCreated(opRead); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, newReadFileError(f.path, err)
	}

	return data, nil
}

// ReadString returns the full file content as string
func (f *File) ReadString() (string, error) {
	data, err := f.Read()
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Overwrite replaces the whole file content.
// Unless WithVerify(false) is given the content is read back and compared.
func (f *File) Overwrite(content []byte, options ...FileOption) error {
	if err := f.checkCreated(opOverwrite); err != nil {
		return err
	}

	return f.write(opOverwrite, content, applyFileOptions(options))
}

// OverwriteString replaces the whole file content with a string
func (f *File) OverwriteString(content string, options ...FileOption) error {
	return f.Overwrite([]byte(content), options...)
}

// Append adds content after the current content, separated by a line break
// (or a single space with WithoutNewline). An empty file gets content as is.
// Read and write are separate steps, so concurrent writers can race.
func (f *File) Append(content []byte, options ...FileOption) error {
	if err := f.checkCreated(opAppend); err != nil {
		return err
	}

	opts := applyFileOptions(options)

	current, err := os.ReadFile(f.path)
	if err != nil {
		return newReadFileError(f.path, err)
	}

	next := content
	if len(current) > 0 {
		separator := " "
		if opts.newline {
			separator = lineSeparator
		}

		next = make([]byte, 0, len(current)+len(separator)+len(content))
		next = append(next, current...)
		next = append(next, separator...)
		next = append(next, content...)
	}

	return f.write(opAppend, next, opts)
}

// AppendString appends string content
func (f *File) AppendString(content string, options ...FileOption) error {
	return f.Append([]byte(content), options...)
}

// Clean truncates the file
func (f *File) Clean() error {
	return f.Overwrite(nil)
}

func (f *File) write(op string, content []byte, opts *fileOptions) error {
	if opts.backup {
		if err := copyFileContent(f.path, f.path+".backup", defaultCopyOptions().bufferSize); err != nil {
			return newCreateBackupFileError(f.path, err)
		}
	}

	var err error
	if opts.atomic {
		err = writeFileAtomic(f.path, content)
	} else {
		err = os.WriteFile(f.path, content, opts.perm)
	}
	if err != nil {
		return newWriteFileError(op, f.path, err)
	}

	if opts.verify {
		written, err := os.ReadFile(f.path)
		if err != nil {
			return newReadFileError(f.path, err)
		}
		if !bytes.Equal(written, content) {
			return newVerifyFileError(op, f.path)
		}
	}

	logOp(op, f.path).Int("bytes", len(content)).Bool("atomic", opts.atomic).Msg("file written")
	return nil
}

// writeFileAtomic writes content to a temporary sibling and renames it over path
func writeFileAtomic(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if _, err := tmp.Write(content); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	// umask may have narrowed the mode given to OpenFile
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return nil
}

// Hash returns the MD5 digest of the content
func (f *File) Hash() (string, error) {
	return f.Checksum(HashMD5)
}

// Checksum returns the hex digest of the content
func (f *File) Checksum(hashType HashType) (string, error) {
	if err := f.checkCreated(opHash); err != nil {
		return "", err
	}

	h, ok := hashType.hasher()
	if !ok {
		return "", newError(ErrInvalidArgument, opHash, f.path, ErrUnknownHash.
			SetData(struct {
				HashType string `json:"hash_type"`
			}{
				HashType: string(hashType),
			}))
	}

	file, err := os.Open(f.path)
	if err != nil {
		return "", newOpenFileError(opHash, f.path, err)
	}
	defer file.Close()

	if _, err := io.Copy(h, file); err != nil {
		return "", newHashFileError(f.path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Compare reports whether both files have the same MD5 digest
func (f *File) Compare(other *File) (bool, error) {
	if other == nil {
		return false, newEntityKindError(opCompare)
	}

	left, err := f.Hash()
	if err != nil {
		return false, err
	}

	right, err := other.Hash()
	if err != nil {
		return false, err
	}

	return left == right, nil
}

// Contains reports whether the content matches pattern
func (f *File) Contains(pattern *regexp.Regexp) (bool, error) {
	if pattern == nil {
		return false, newError(ErrInvalidArgument, opRead, f.path, ErrInvalidPattern)
	}

	data, err := f.Read()
	if err != nil {
		return false, err
	}

	return pattern.Match(data), nil
}

// Replace rewrites every match of pattern with replacement.
// The replacement may reference groups the way regexp.ReplaceAll does.
func (f *File) Replace(pattern *regexp.Regexp, replacement string, options ...FileOption) error {
	if pattern == nil {
		return newError(ErrInvalidArgument, opOverwrite, f.path, ErrInvalidPattern)
	}

	data, err := f.Read()
	if err != nil {
		return err
	}

	return f.Overwrite(pattern.ReplaceAll(data, []byte(replacement)), options...)
}

// Rename gives the file a new name in the same directory
func (f *File) Rename(newName string, overwrite bool) error {
	if err := f.checkCreated(opRename); err != nil {
		return err
	}

	target, err := f.sibling(opRename, newName)
	if err != nil {
		return err
	}

	if pathExists(target) && !overwrite {
		return newAlreadyExistsError(opRename, target)
	}

	source := f.path
	if err := renamePath(source, target); err != nil {
		return newRenameFileError(source, target, err)
	}

	if err := f.setPath(target); err != nil {
		return err
	}

	logOp(opRename, f.path).Str("from", source).Msg("file renamed")
	return nil
}

// Copy copies the content to target and returns the entity bound to it,
// or the receiver with WithKeepOriginal.
func (f *File) Copy(target string, options ...CopyOption) (*File, error) {
	return f.copy(target, applyCopyOptions(options))
}

func (f *File) copy(target string, opts *copyOptions) (*File, error) {
	if err := f.checkCreated(opCopy); err != nil {
		return nil, err
	}

	destination, err := f.prepareTarget(opCopy, target, opts)
	if err != nil {
		return nil, err
	}

	if err := copyFileContent(f.path, destination, opts.bufferSize); err != nil {
		return nil, newCopyFileError(f.path, destination, err)
	}

	logOp(opCopy, f.path).Str("to", destination).Msg("file copied")

	if opts.keepOriginal {
		return f, nil
	}

	return newFile(destination), nil
}

// prepareTarget resolves target for a copy or move. With overwrite a
// directory in the way is removed; a file is replaced by the write itself.
func (f *File) prepareTarget(op, target string, opts *copyOptions) (string, error) {
	destination, err := canonicalPath(target)
	if err != nil {
		return "", err
	}

	if destination == f.path {
		return "", newSamePathError(op, destination)
	}

	info, err := os.Lstat(destination)
	if err != nil {
		return destination, nil
	}

	if !opts.overwrite {
		return "", newAlreadyExistsError(op, destination)
	}

	if info.IsDir() {
		if isWithin(destination, f.path) {
			return "", newTargetContainsSourceError(op, f.path, destination)
		}
		if err := removeExisting(destination); err != nil {
			return "", err
		}
	}

	return destination, nil
}

func (f *File) copyEntity(target string, opts *copyOptions) (Entity, error) {
	file, err := f.copy(target, opts)
	if err != nil {
		return nil, err
	}

	return file, nil
}

func (f *File) copyTo(dst string, opts *copyOptions, _ map[string]struct{}) error {
	if info, err := os.Lstat(dst); err == nil && info.IsDir() {
		if err := removeExisting(dst); err != nil {
			return err
		}
	}

	if err := copyFileContent(f.path, dst, opts.bufferSize); err != nil {
		return newCopyFileError(f.path, dst, err)
	}

	return nil
}

// Move relocates the file to target. A plain rename is used when possible;
// across devices it falls back to copy followed by remove, which is not
// atomic. The receiver is invalidated on success.
func (f *File) Move(target string, options ...CopyOption) (*File, error) {
	return f.move(target, applyCopyOptions(options))
}

func (f *File) move(target string, opts *copyOptions) (*File, error) {
	if err := f.checkCreated(opMove); err != nil {
		return nil, err
	}

	destination, err := f.prepareTarget(opMove, target, opts)
	if err != nil {
		return nil, err
	}

	source := f.path
	err = renamePath(source, destination)
	if err == nil {
		f.invalidate()
		logOp(opMove, source).Str("to", destination).Msg("file moved")
		return newFile(destination), nil
	}

	if !isCrossDevice(err) {
		return nil, newMoveFileError(source, destination, err)
	}

	Logger().Warn().
		Str("op", opMove).
		Str("path", source).
		Str("to", destination).
		Msg("rename crossed devices, falling back to copy and remove")

	if err := copyFileContent(source, destination, opts.bufferSize); err != nil {
		return nil, newCopyFileError(source, destination, err)
	}

	if err := f.Remove(); err != nil {
		return nil, newMoveFileError(source, destination, err)
	}

	return newFile(destination), nil
}

func (f *File) moveEntity(target string, opts *copyOptions) (Entity, error) {
	file, err := f.move(target, opts)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// Remove deletes the file and invalidates the entity
func (f *File) Remove() error {
	if err := f.checkCreated(opRemove); err != nil {
		return err
	}

	path := f.path
	if err := removePath(path); err != nil {
		return newDeleteFileError(path, err)
	}

	f.invalidate()
	logOp(opRemove, path).Msg("file removed")
	return nil
}

// copyFileContent copies src to dst, keeping the source mode for new files
func copyFileContent(src, dst string, bufferSize int) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, sourceInfo.Mode().Perm())
	if err != nil {
		return err
	}

	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(destFile, sourceFile, buf); err != nil {
		_ = destFile.Close()
		return err
	}

	return destFile.Close()
}
