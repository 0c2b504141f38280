package fsentity

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	_ "golang.org/x/image/bmp"
)

// PathInfo is a metadata snapshot taken when Info is called
type PathInfo struct {
	Path    string
	Dir     string
	Base    string
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
	IsDir   bool
}

var imageFormats = map[string]struct{}{
	"bmp":  {},
	"gif":  {},
	"jpeg": {},
	"png":  {},
}

func newPathInfo(path string) (*PathInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newIOError(opInfo, path, ErrStatPath.
			SetError(err).
			SetData(pathErrorContext{
				Path:  path,
				Error: err,
			}))
	}

	return &PathInfo{
		Path:    path,
		Dir:     filepath.Dir(path),
		Base:    filepath.Base(path),
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// Ext returns the basename suffix starting at the last dot, or "".
func (i *PathInfo) Ext() string {
	return filepath.Ext(i.Base)
}

// RelativePath strips the canonical form of root from the path.
// The path itself yields "".
func (i *PathInfo) RelativePath(root string) (string, error) {
	canonicalRoot, err := canonicalPath(root)
	if err != nil {
		return "", err
	}

	if !isWithin(canonicalRoot, i.Path) {
		return "", newError(ErrInvalidArgument, opRelative, i.Path, ErrPathOutside.
			SetData(struct {
				Path string `json:"path"`
				Root string `json:"root"`
			}{
				Path: i.Path,
				Root: canonicalRoot,
			}))
	}

	rel, err := filepath.Rel(canonicalRoot, i.Path)
	if err != nil {
		return "", newError(ErrInvalidArgument, opRelative, i.Path, ErrPathOutside.SetError(err))
	}

	if rel == "." {
		return "", nil
	}

	return rel, nil
}

// IsImage reports whether the header decodes as bmp, gif, jpeg or png
func (i *PathInfo) IsImage() bool {
	_, ok := i.ImageFormat()
	return ok
}

// ImageFormat returns the decoded image format name
func (i *PathInfo) ImageFormat() (string, bool) {
	if i.IsDir {
		return "", false
	}

	file, err := os.Open(i.Path)
	if err != nil {
		return "", false
	}
	defer file.Close()

	_, format, err := image.DecodeConfig(file)
	if err != nil {
		return "", false
	}

	if _, ok := imageFormats[format]; !ok {
		return "", false
	}

	return format, true
}
