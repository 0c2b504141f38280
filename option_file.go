package fsentity

import "os"

// FileOption represents optional parameters for file operations
type FileOption func(*fileOptions)

type fileOptions struct {
	perm       os.FileMode
	createDirs bool
	backup     bool
	verify     bool
	atomic     bool
	newline    bool
}

// defaultFileOptions returns default options for file operations
func defaultFileOptions() *fileOptions {
	return &fileOptions{
		perm:       0644,
		createDirs: false,
		backup:     false,
		verify:     true,
		atomic:     false,
		newline:    true,
	}
}

func applyFileOptions(options []FileOption) *fileOptions {
	opts := defaultFileOptions()
	for _, opt := range options {
		opt(opts)
	}

	return opts
}

// WithPermissions sets custom permissions for created files
func WithPermissions(perm os.FileMode) FileOption {
	return func(opts *fileOptions) {
		opts.perm = perm
	}
}

// WithCreateDirs creates parent directories if they don't exist
func WithCreateDirs() FileOption {
	return func(opts *fileOptions) {
		opts.createDirs = true
	}
}

// WithBackup copies the current content to <path>.backup before overwriting
func WithBackup() FileOption {
	return func(opts *fileOptions) {
		opts.backup = true
	}
}

// WithVerify toggles reading the content back after a write
func WithVerify(verify bool) FileOption {
	return func(opts *fileOptions) {
		opts.verify = verify
	}
}

// WithAtomic writes through a temporary sibling that is renamed over the file
func WithAtomic() FileOption {
	return func(opts *fileOptions) {
		opts.atomic = true
	}
}

// WithoutNewline makes Append join with a single space instead of a line break
func WithoutNewline() FileOption {
	return func(opts *fileOptions) {
		opts.newline = false
	}
}
