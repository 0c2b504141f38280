//go:build !unix

package fsentity

import (
	"errors"
	"os"
)

func accessible(_ string, info os.FileInfo) bool {
	return info.Mode().Perm()&0600 == 0600
}

// Without EXDEV every link error may be a volume boundary, so the
// caller falls back to copy and remove.
func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr)
}
