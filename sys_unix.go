//go:build unix

package fsentity

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func accessible(path string, _ os.FileInfo) bool {
	return unix.Access(path, unix.R_OK|unix.W_OK) == nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
