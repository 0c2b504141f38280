package fsentity

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Find returns the regular files below the directory whose basename
// matches pattern (filepath.Match syntax).
func (d *Directory) Find(pattern string, options ...SearchOption) ([]*File, error) {
	if err := d.checkCreated(opFind); err != nil {
		return nil, err
	}

	opts := applySearchOptions(options)

	patterns := []string{pattern}
	patterns = append(patterns, opts.includePatterns...)
	patterns = append(patterns, opts.excludePatterns...)
	for _, p := range patterns {
		if _, err := matchPattern("", p, opts.caseSensitive); err != nil {
			return nil, err
		}
	}

	var results []*File
	resultsFound := 0
	seen := make(map[string]struct{})

	err := walkWithDepth(d.path, 0, func(path string, info os.FileInfo, depth int, err error) error {
		if err != nil {
			return err
		}

		// the root itself is never a result
		if depth == 0 {
			return nil
		}

		// Check depth limits
		if opts.maxDepth >= 0 && depth > opts.maxDepth {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Check result limit
		if opts.limitResults > 0 && resultsFound >= opts.limitResults {
			return io.EOF // Stop walking
		}

		// Handle hidden files
		if opts.ignoreHidden && isHidden(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Apply exclude patterns first
		for _, excludePattern := range opts.excludePatterns {
			matched, err := matchPattern(info.Name(), excludePattern, opts.caseSensitive)
			if err != nil {
				return err
			}
			if matched {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if info.IsDir() || !info.Mode().IsRegular() || depth < opts.minDepth {
			return nil
		}

		// Apply include patterns
		if len(opts.includePatterns) > 0 {
			included := false
			for _, includePattern := range opts.includePatterns {
				matched, err := matchPattern(info.Name(), includePattern, opts.caseSensitive)
				if err != nil {
					return err
				}
				if matched {
					included = true
					break
				}
			}
			if !included {
				return nil
			}
		}

		matched, err := matchPattern(info.Name(), pattern, opts.caseSensitive)
		if err != nil {
			return err
		}

		if matched {
			if resolved, err := filepath.EvalSymlinks(path); err == nil {
				path = resolved
			}
			if _, dup := seen[path]; dup {
				return nil
			}
			seen[path] = struct{}{}
			results = append(results, newFile(path))
			resultsFound++
		}

		return nil
	}, opts.followSymlinks, make(map[string]struct{}))

	if err != nil && err != io.EOF {
		return nil, newIOError(opFind, d.path, ErrSearchFiles.
			SetError(err).
			SetData(pathErrorContext{
				Path:  d.path,
				Error: err,
			}))
	}

	logOp(opFind, d.path).Str("pattern", pattern).Int("results", len(results)).Msg("files found")
	return results, nil
}

// walkWithDepth visits root and everything below it in lexical order,
// passing the depth relative to the starting point. With followSymlinks a
// linked directory is entered unless its canonical path was walked before.
// Errors below the root are skipped.
func walkWithDepth(root string, depth int, fn func(path string, info os.FileInfo, depth int, err error) error, followSymlinks bool, visited map[string]struct{}) error {
	info, err := os.Lstat(root)
	if err != nil {
		return fn(root, nil, depth, err)
	}

	if followSymlinks && info.Mode()&os.ModeSymlink != 0 {
		if info, err = os.Stat(root); err != nil {
			return fn(root, nil, depth, err)
		}
	}

	if info.IsDir() {
		canonical, err := filepath.EvalSymlinks(root)
		if err != nil {
			return fn(root, info, depth, err)
		}
		if _, seen := visited[canonical]; seen {
			return nil
		}
		visited[canonical] = struct{}{}
	}

	if err := fn(root, info, depth, nil); err != nil {
		if err == filepath.SkipDir && info.IsDir() {
			return nil
		}
		return err
	}

	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return fn(root, info, depth, err)
	}

	for _, entry := range entries {
		err := walkWithDepth(filepath.Join(root, entry.Name()), depth+1, fn, followSymlinks, visited)
		if err == io.EOF {
			return err
		}
	}

	return nil
}

// matchPattern matches a pattern against a name (supports * and ? wildcards)
func matchPattern(name, pattern string, caseSensitive bool) (bool, error) {
	if !caseSensitive {
		name = strings.ToLower(name)
		pattern = strings.ToLower(pattern)
	}

	matched, err := filepath.Match(pattern, name)
	if err != nil {
		return false, newError(ErrInvalidArgument, opFind, pattern, ErrInvalidPattern.
			SetError(err).
			SetData(struct {
				Pattern string `json:"pattern"`
				Error   error  `json:"error"`
			}{
				Pattern: pattern,
				Error:   err,
			}))
	}

	return matched, nil
}

// isHidden checks if a file/directory is hidden
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
