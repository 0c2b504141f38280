package fsentity

import "os"

// DirectoryOption represents optional parameters for directory operations
type DirectoryOption func(*directoryOptions)

type directoryOptions struct {
	perm      os.FileMode
	recursive bool
}

// defaultDirectoryOptions returns default options for directory operations
func defaultDirectoryOptions() *directoryOptions {
	return &directoryOptions{
		perm:      0755,
		recursive: false,
	}
}

func applyDirectoryOptions(options []DirectoryOption) *directoryOptions {
	opts := defaultDirectoryOptions()
	for _, opt := range options {
		opt(opts)
	}

	return opts
}

// WithDirPermissions sets custom directory permissions
func WithDirPermissions(perm os.FileMode) DirectoryOption {
	return func(opts *directoryOptions) {
		opts.perm = perm
	}
}

// WithRecursive creates missing parent directories (like mkdir -p)
func WithRecursive() DirectoryOption {
	return func(opts *directoryOptions) {
		opts.recursive = true
	}
}
