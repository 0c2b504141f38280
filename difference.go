package fsentity

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// DifferenceType represents the type of difference between files/directories
type DifferenceType string

const (
	DiffAdded    DifferenceType = "added"
	DiffRemoved  DifferenceType = "removed"
	DiffModified DifferenceType = "modified"
	DiffSame     DifferenceType = "same"
)

// Difference represents a difference between directories
type Difference struct {
	Path      string
	Type      DifferenceType
	LeftInfo  os.FileInfo
	RightInfo os.FileInfo
}

type treeEntry struct {
	info os.FileInfo
	path string
}

// CompareDirectories compares two trees by relative path. Files with equal
// MD5 digests are the same; a kind change counts as modified. The result
// is sorted by path.
func CompareDirectories(left, right *Directory) ([]Difference, error) {
	if left == nil || right == nil {
		return nil, newEntityKindError(opCompare)
	}
	if err := left.checkCreated(opCompare); err != nil {
		return nil, err
	}
	if err := right.checkCreated(opCompare); err != nil {
		return nil, err
	}

	leftEntries, err := collectTree(left.path)
	if err != nil {
		return nil, err
	}

	rightEntries, err := collectTree(right.path)
	if err != nil {
		return nil, err
	}

	var differences []Difference

	for path, leftEntry := range leftEntries {
		rightEntry, exists := rightEntries[path]
		if !exists {
			// File only in left (removed from right)
			differences = append(differences, Difference{
				Path:     path,
				Type:     DiffRemoved,
				LeftInfo: leftEntry.info,
			})
			continue
		}

		diffType := DiffSame
		switch {
		case leftEntry.info.IsDir() != rightEntry.info.IsDir():
			diffType = DiffModified
		case !leftEntry.info.IsDir():
			same, err := sameContent(leftEntry, rightEntry)
			if err != nil {
				return nil, err
			}
			if !same {
				diffType = DiffModified
			}
		}

		differences = append(differences, Difference{
			Path:      path,
			Type:      diffType,
			LeftInfo:  leftEntry.info,
			RightInfo: rightEntry.info,
		})
	}

	// Check for files only in right (added)
	for path, rightEntry := range rightEntries {
		if _, exists := leftEntries[path]; !exists {
			differences = append(differences, Difference{
				Path:      path,
				Type:      DiffAdded,
				RightInfo: rightEntry.info,
			})
		}
	}

	sort.Slice(differences, func(i, j int) bool {
		return differences[i].Path < differences[j].Path
	})

	logOp(opCompare, left.path).Str("right", right.path).Int("entries", len(differences)).Msg("directories compared")
	return differences, nil
}

// collectTree indexes the tree below root by relative path. Symlinks are
// followed and a canonical directory is only entered once, matching copyTree.
func collectTree(root string) (map[string]treeEntry, error) {
	entries := make(map[string]treeEntry)

	if err := collectTreeVisit(root, "", entries, map[string]struct{}{}); err != nil {
		return nil, newIOError(opCompare, root, ErrCompareDirectory.
			SetError(err).
			SetData(pathErrorContext{
				Path:  root,
				Error: err,
			}))
	}

	return entries, nil
}

func collectTreeVisit(dir, rel string, entries map[string]treeEntry, visited map[string]struct{}) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	visited[resolved] = struct{}{}

	children, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, child := range children {
		path := filepath.Join(dir, child.Name())

		// dangling links are skipped, as in Content
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		childRel := filepath.Join(rel, child.Name())

		if !info.IsDir() {
			if info.Mode().IsRegular() {
				entries[childRel] = treeEntry{info: info, path: path}
			}
			continue
		}

		canonical, err := filepath.EvalSymlinks(path)
		if err != nil {
			return err
		}
		if _, seen := visited[canonical]; seen {
			continue
		}

		entries[childRel] = treeEntry{info: info, path: path}
		if err := collectTreeVisit(path, childRel, entries, visited); err != nil {
			return err
		}
	}

	return nil
}

func sameContent(left, right treeEntry) (bool, error) {
	if left.info.Size() != right.info.Size() {
		return false, nil
	}

	leftSum, err := md5Sum(left.path)
	if err != nil {
		return false, err
	}

	rightSum, err := md5Sum(right.path)
	if err != nil {
		return false, err
	}

	return leftSum == rightSum, nil
}

func md5Sum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", newOpenFileError(opCompare, path, err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", newHashFileError(path, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
