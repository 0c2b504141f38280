package fsentity

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTempDir returns a canonical temporary directory removed after the test
func newTempDir(t *testing.T, pattern string) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", pattern)
	require.NoError(t, err, "Failed to create temp dir")
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	resolved, err := filepath.EvalSymlinks(tmpDir)
	require.NoError(t, err)

	return resolved
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestFileOperations(t *testing.T) {
	tmpDir := newTempDir(t, "fsentity_file_test_*")

	t.Run("CreateAndOpen", func(t *testing.T) {
		path := filepath.Join(tmpDir, "created.txt")

		file, err := CreateFile(path)
		require.NoError(t, err)
		assert.True(t, file.IsCreated())
		assert.Equal(t, path, file.Path())
		assert.Equal(t, KindFile, file.Kind())

		content, err := file.Read()
		require.NoError(t, err)
		assert.Empty(t, content)

		opened, err := OpenFile(path)
		require.NoError(t, err)
		assert.Equal(t, file.Path(), opened.Path())
	})

	t.Run("CreateRelativePathIsCanonical", func(t *testing.T) {
		path := filepath.Join(tmpDir, "nested", "..", "relative.txt")
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "nested"), 0755))

		file, err := CreateFile(path)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmpDir, "relative.txt"), file.Path())
	})

	t.Run("CreateExisting", func(t *testing.T) {
		path := filepath.Join(tmpDir, "existing.txt")
		writeTestFile(t, path, "data")

		_, err := CreateFile(path)
		require.ErrorIs(t, err, ErrAlreadyExists)
		assert.Equal(t, "data", readTestFile(t, path))
	})

	t.Run("CreateOverDirectory", func(t *testing.T) {
		path := filepath.Join(tmpDir, "occupied")
		require.NoError(t, os.Mkdir(path, 0755))

		_, err := CreateFile(path)
		require.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("CreateWithoutParent", func(t *testing.T) {
		_, err := CreateFile(filepath.Join(tmpDir, "missing", "deeper", "file.txt"))
		require.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("CreateWithDirs", func(t *testing.T) {
		path := filepath.Join(tmpDir, "with", "dirs", "file.txt")

		file, err := CreateFile(path, WithCreateDirs())
		require.NoError(t, err)
		assert.True(t, file.IsCreated())
	})

	t.Run("CreateWithPermissions", func(t *testing.T) {
		path := filepath.Join(tmpDir, "perms.txt")

		_, err := CreateFile(path, WithPermissions(0600))
		require.NoError(t, err)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("CreateEmptyPath", func(t *testing.T) {
		_, err := CreateFile("")
		require.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("OpenMissing", func(t *testing.T) {
		_, err := OpenFile(filepath.Join(tmpDir, "nope.txt"))
		require.ErrorIs(t, err, ErrNotFound)

		_, err = OpenFile(filepath.Join(tmpDir, "nope", "nope.txt"))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("OpenDirectoryAsFile", func(t *testing.T) {
		_, err := OpenFile(tmpDir)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("OpenOrCreate", func(t *testing.T) {
		path := filepath.Join(tmpDir, "intuitive.txt")

		file, err := OpenOrCreateFile(path)
		require.NoError(t, err)
		require.NoError(t, file.OverwriteString("kept"))

		again, err := OpenOrCreateFile(path)
		require.NoError(t, err)

		content, err := again.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "kept", content)
	})

	t.Run("OverwriteAndRead", func(t *testing.T) {
		file, err := CreateFile(filepath.Join(tmpDir, "overwrite.txt"))
		require.NoError(t, err)

		for _, content := range []string{"first", "second\nline", ""} {
			require.NoError(t, file.OverwriteString(content))

			read, err := file.ReadString()
			require.NoError(t, err)
			assert.Equal(t, content, read)
		}
	})

	t.Run("OverwriteAtomic", func(t *testing.T) {
		path := filepath.Join(tmpDir, "atomic.txt")
		file, err := CreateFile(path, WithPermissions(0600))
		require.NoError(t, err)

		require.NoError(t, file.OverwriteString("atomic content", WithAtomic()))
		assert.Equal(t, "atomic content", readTestFile(t, path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		entries, err := os.ReadDir(tmpDir)
		require.NoError(t, err)
		for _, entry := range entries {
			assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"), "temporary file left behind: %s", entry.Name())
		}
	})

	t.Run("OverwriteWithBackup", func(t *testing.T) {
		path := filepath.Join(tmpDir, "backup.txt")
		writeTestFile(t, path, "old")

		file, err := OpenFile(path)
		require.NoError(t, err)
		require.NoError(t, file.OverwriteString("new", WithBackup()))

		assert.Equal(t, "new", readTestFile(t, path))
		assert.Equal(t, "old", readTestFile(t, path+".backup"))
	})

	t.Run("Append", func(t *testing.T) {
		file, err := CreateFile(filepath.Join(tmpDir, "append.txt"))
		require.NoError(t, err)

		require.NoError(t, file.AppendString("first"))
		require.NoError(t, file.AppendString("second"))
		require.NoError(t, file.AppendString("third", WithoutNewline()))

		content, err := file.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "first\nsecond third", content)
	})

	t.Run("Clean", func(t *testing.T) {
		path := filepath.Join(tmpDir, "clean.txt")
		writeTestFile(t, path, "dirty")

		file, err := OpenFile(path)
		require.NoError(t, err)
		require.NoError(t, file.Clean())
		assert.Empty(t, readTestFile(t, path))
	})

	t.Run("HashAndChecksum", func(t *testing.T) {
		path := filepath.Join(tmpDir, "hash.txt")
		writeTestFile(t, path, "hello")

		file, err := OpenFile(path)
		require.NoError(t, err)

		hash, err := file.Hash()
		require.NoError(t, err)
		assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", hash)

		sha1sum, err := file.Checksum(HashSHA1)
		require.NoError(t, err)
		assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", sha1sum)

		sha256sum, err := file.Checksum(HashSHA256)
		require.NoError(t, err)
		assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", sha256sum)

		_, err = file.Checksum(HashType("crc32"))
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("Compare", func(t *testing.T) {
		writeTestFile(t, filepath.Join(tmpDir, "cmp_a.txt"), "same")
		writeTestFile(t, filepath.Join(tmpDir, "cmp_b.txt"), "same")
		writeTestFile(t, filepath.Join(tmpDir, "cmp_c.txt"), "other")

		a, err := OpenFile(filepath.Join(tmpDir, "cmp_a.txt"))
		require.NoError(t, err)
		b, err := OpenFile(filepath.Join(tmpDir, "cmp_b.txt"))
		require.NoError(t, err)
		c, err := OpenFile(filepath.Join(tmpDir, "cmp_c.txt"))
		require.NoError(t, err)

		equal, err := a.Compare(b)
		require.NoError(t, err)
		assert.True(t, equal)

		equal, err = a.Compare(c)
		require.NoError(t, err)
		assert.False(t, equal)

		_, err = a.Compare(nil)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("ContainsAndReplace", func(t *testing.T) {
		path := filepath.Join(tmpDir, "regex.txt")
		writeTestFile(t, path, "version=1.2.3")

		file, err := OpenFile(path)
		require.NoError(t, err)

		found, err := file.Contains(regexp.MustCompile(`version=\d+`))
		require.NoError(t, err)
		assert.True(t, found)

		require.NoError(t, file.Replace(regexp.MustCompile(`version=(\d+)\.\d+\.\d+`), "version=${1}.9.9"))
		assert.Equal(t, "version=1.9.9", readTestFile(t, path))

		_, err = file.Contains(nil)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("Rename", func(t *testing.T) {
		path := filepath.Join(tmpDir, "rename_a.txt")
		writeTestFile(t, path, "a")

		file, err := OpenFile(path)
		require.NoError(t, err)
		require.NoError(t, file.Rename("rename_b.txt", false))

		assert.Equal(t, filepath.Join(tmpDir, "rename_b.txt"), file.Path())
		assert.NoFileExists(t, path)
		assert.Equal(t, "a", readTestFile(t, file.Path()))
	})

	t.Run("RenameOntoExisting", func(t *testing.T) {
		source := filepath.Join(tmpDir, "a.txt")
		target := filepath.Join(tmpDir, "b.txt")
		writeTestFile(t, source, "from a")
		writeTestFile(t, target, "from b")

		file, err := OpenFile(source)
		require.NoError(t, err)

		err = file.Rename("b.txt", false)
		require.ErrorIs(t, err, ErrAlreadyExists)
		assert.Equal(t, source, file.Path())
		assert.Equal(t, "from b", readTestFile(t, target))

		require.NoError(t, file.Rename("b.txt", true))
		assert.Equal(t, target, file.Path())
		assert.Equal(t, "from a", readTestFile(t, target))
		assert.NoFileExists(t, source)
	})

	t.Run("RenameBadName", func(t *testing.T) {
		file, err := CreateFile(filepath.Join(tmpDir, "badname.txt"))
		require.NoError(t, err)

		for _, name := range []string{"", ".", "..", "sub/name.txt"} {
			err := file.Rename(name, true)
			require.ErrorIs(t, err, ErrInvalidArgument, "name %q", name)
		}
	})

	t.Run("Copy", func(t *testing.T) {
		source := filepath.Join(tmpDir, "copy_src.txt")
		target := filepath.Join(tmpDir, "copy_dst.txt")
		writeTestFile(t, source, "copied content")

		file, err := OpenFile(source)
		require.NoError(t, err)

		copied, err := file.Copy(target)
		require.NoError(t, err)
		assert.Equal(t, target, copied.Path())

		sourceHash, err := file.Hash()
		require.NoError(t, err)
		targetHash, err := copied.Hash()
		require.NoError(t, err)
		assert.Equal(t, sourceHash, targetHash)

		_, err = file.Copy(target)
		require.ErrorIs(t, err, ErrAlreadyExists)

		require.NoError(t, file.OverwriteString("changed"))
		same, err := file.Copy(target, WithOverwrite(), WithKeepOriginal(), WithBufferSize(4))
		require.NoError(t, err)
		assert.Same(t, file, same)
		assert.Equal(t, "changed", readTestFile(t, target))

		_, err = file.Copy(source, WithOverwrite())
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("Move", func(t *testing.T) {
		source := filepath.Join(tmpDir, "move_src.txt")
		target := filepath.Join(tmpDir, "move_dst.txt")
		writeTestFile(t, source, "moved content")

		file, err := OpenFile(source)
		require.NoError(t, err)

		moved, err := file.Move(target)
		require.NoError(t, err)
		assert.Equal(t, target, moved.Path())
		assert.NoFileExists(t, source)
		assert.Equal(t, "moved content", readTestFile(t, target))

		assert.False(t, file.IsCreated())
		_, err = file.Read()
		require.ErrorIs(t, err, ErrNotCreated)
	})

	t.Run("MoveOntoExisting", func(t *testing.T) {
		source := filepath.Join(tmpDir, "move2_src.txt")
		target := filepath.Join(tmpDir, "move2_dst.txt")
		writeTestFile(t, source, "new")
		writeTestFile(t, target, "old")

		file, err := OpenFile(source)
		require.NoError(t, err)

		_, err = file.Move(target)
		require.ErrorIs(t, err, ErrAlreadyExists)
		assert.FileExists(t, source)

		moved, err := file.Move(target, WithOverwrite())
		require.NoError(t, err)
		assert.Equal(t, "new", readTestFile(t, moved.Path()))
	})

	t.Run("CopyOverDirectory", func(t *testing.T) {
		source := filepath.Join(tmpDir, "over_dir_src.txt")
		target := filepath.Join(tmpDir, "over_dir_dst")
		writeTestFile(t, source, "file wins")
		makeTree(t, target, map[string]string{"nested/old.txt": "old"})

		file, err := OpenFile(source)
		require.NoError(t, err)

		_, err = file.Copy(target)
		require.ErrorIs(t, err, ErrAlreadyExists)
		assert.DirExists(t, target)

		copied, err := file.Copy(target, WithOverwrite())
		require.NoError(t, err)
		assert.True(t, copied.IsCreated())
		assert.Equal(t, "file wins", readTestFile(t, target))
	})

	t.Run("MoveOverDirectory", func(t *testing.T) {
		source := filepath.Join(tmpDir, "move_over_src.txt")
		target := filepath.Join(tmpDir, "move_over_dst")
		writeTestFile(t, source, "moved over")
		makeTree(t, target, map[string]string{"old.txt": "old"})

		file, err := OpenFile(source)
		require.NoError(t, err)

		moved, err := file.Move(target, WithOverwrite())
		require.NoError(t, err)
		assert.Equal(t, "moved over", readTestFile(t, moved.Path()))
		assert.NoFileExists(t, source)
	})

	t.Run("OverwriteParentDirectory", func(t *testing.T) {
		parent := filepath.Join(tmpDir, "holder")
		source := filepath.Join(parent, "inner.txt")
		writeTestFile(t, source, "inner")

		file, err := OpenFile(source)
		require.NoError(t, err)

		_, err = file.Copy(parent, WithOverwrite())
		require.ErrorIs(t, err, ErrInvalidArgument)

		_, err = file.Move(parent, WithOverwrite())
		require.ErrorIs(t, err, ErrInvalidArgument)

		assert.Equal(t, "inner", readTestFile(t, source))
		assert.True(t, file.IsCreated())
	})

	t.Run("OpenWithoutAccess", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root passes every access check")
		}

		path := filepath.Join(tmpDir, "readonly.txt")
		writeTestFile(t, path, "locked")
		require.NoError(t, os.Chmod(path, 0444))

		_, err := OpenFile(path)
		require.ErrorIs(t, err, ErrIOFailure)
	})

	t.Run("Remove", func(t *testing.T) {
		path := filepath.Join(tmpDir, "remove.txt")
		writeTestFile(t, path, "bye")

		file, err := OpenFile(path)
		require.NoError(t, err)

		require.NoError(t, file.Remove())
		assert.NoFileExists(t, path)
		assert.False(t, file.IsCreated())
		assert.Empty(t, file.Path())

		require.ErrorIs(t, file.Remove(), ErrNotCreated)

		_, err = file.Info()
		require.ErrorIs(t, err, ErrNotCreated)
		require.ErrorIs(t, file.OverwriteString("x"), ErrNotCreated)
		require.ErrorIs(t, file.Rename("x.txt", true), ErrNotCreated)
	})

	t.Run("ExternalRemovalIsSeen", func(t *testing.T) {
		path := filepath.Join(tmpDir, "external.txt")
		writeTestFile(t, path, "x")

		file, err := OpenFile(path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		assert.False(t, file.IsCreated())
		_, err = file.Read()
		require.ErrorIs(t, err, ErrNotCreated)
	})
}
