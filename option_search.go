package fsentity

// SearchOption tunes Directory.Find
type SearchOption func(*searchOptions)

type searchOptions struct {
	maxDepth        int
	minDepth        int
	limitResults    int
	followSymlinks  bool
	caseSensitive   bool
	ignoreHidden    bool
	includePatterns []string
	excludePatterns []string
}

func applySearchOptions(options []SearchOption) *searchOptions {
	// negative depth and limit mean unbounded
	opts := &searchOptions{
		maxDepth:      -1,
		limitResults:  -1,
		caseSensitive: true,
	}
	for _, opt := range options {
		opt(opts)
	}

	return opts
}

// WithMaxDepth stops descending below depth. Direct children are depth 1.
func WithMaxDepth(depth int) SearchOption {
	return func(opts *searchOptions) {
		opts.maxDepth = depth
	}
}

// WithMinDepth skips files shallower than depth
func WithMinDepth(depth int) SearchOption {
	return func(opts *searchOptions) {
		opts.minDepth = depth
	}
}

// WithSearchFollowSymlinks descends into symlinked directories.
// Every canonical directory is walked once.
func WithSearchFollowSymlinks() SearchOption {
	return func(opts *searchOptions) {
		opts.followSymlinks = true
	}
}

// WithCaseSensitive controls case folding in pattern matching (default on)
func WithCaseSensitive(sensitive bool) SearchOption {
	return func(opts *searchOptions) {
		opts.caseSensitive = sensitive
	}
}

// WithIgnoreHidden skips dot files and does not enter dot directories
func WithIgnoreHidden() SearchOption {
	return func(opts *searchOptions) {
		opts.ignoreHidden = true
	}
}

// WithLimitResults stops the walk once limit files were found
func WithLimitResults(limit int) SearchOption {
	return func(opts *searchOptions) {
		opts.limitResults = limit
	}
}

// WithIncludePatterns keeps only files matching one of patterns
func WithIncludePatterns(patterns ...string) SearchOption {
	return func(opts *searchOptions) {
		opts.includePatterns = append(opts.includePatterns, patterns...)
	}
}

// WithExcludePatterns drops files and whole directories matching one of patterns
func WithExcludePatterns(patterns ...string) SearchOption {
	return func(opts *searchOptions) {
		opts.excludePatterns = append(opts.excludePatterns, patterns...)
	}
}
