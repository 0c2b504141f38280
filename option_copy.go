package fsentity

// CopyOption represents options for copy, move and append operations
type CopyOption func(*copyOptions)

type copyOptions struct {
	overwrite    bool
	keepOriginal bool
	keepSource   bool
	ignore       map[string]struct{}
	bufferSize   int
}

// defaultCopyOptions returns default copy options
func defaultCopyOptions() *copyOptions {
	return &copyOptions{
		overwrite:    false,
		keepOriginal: false,
		keepSource:   false,
		ignore:       map[string]struct{}{},
		bufferSize:   32 * 1024, // 32KB
	}
}

func applyCopyOptions(options []CopyOption) *copyOptions {
	opts := defaultCopyOptions()
	for _, opt := range options {
		opt(opts)
	}

	return opts
}

func (opts *copyOptions) ignored(name string) bool {
	_, ok := opts.ignore[name]
	return ok
}

// WithOverwrite allows replacing an existing target
func WithOverwrite() CopyOption {
	return func(opts *copyOptions) {
		opts.overwrite = true
	}
}

// WithKeepOriginal makes Copy return the receiver instead of the new entity
func WithKeepOriginal() CopyOption {
	return func(opts *copyOptions) {
		opts.keepOriginal = true
	}
}

// WithKeepSource makes Directory.Append copy the child instead of moving it
func WithKeepSource() CopyOption {
	return func(opts *copyOptions) {
		opts.keepSource = true
	}
}

// WithIgnore skips children with these basenames at every depth
func WithIgnore(names ...string) CopyOption {
	return func(opts *copyOptions) {
		for _, name := range names {
			opts.ignore[name] = struct{}{}
		}
	}
}

// WithBufferSize sets custom buffer size for byte copies
func WithBufferSize(size int) CopyOption {
	return func(opts *copyOptions) {
		if size > 0 {
			opts.bufferSize = size
		}
	}
}
