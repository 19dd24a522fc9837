package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/jamesainslie/fanout/pkg/fanout/config"
	"github.com/spf13/viper"
)

// resolveRoot resolves the positional path argument (or the configured
// default) to an absolute, existing directory.
func resolveRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	} else if defaultPath := viper.GetString("default_path"); defaultPath != "" {
		root = defaultPath
	}

	expanded, err := config.ExpandPath(root)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}

	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("path does not exist: %s", absPath)
		}
		return "", fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", absPath)
	}

	return absPath, nil
}

// discoverFiles walks root with fastwalk and returns every regular file
// not matched by an exclusion pattern. Results are sorted so runs over
// the same tree see items in a stable order.
func discoverFiles(root string, exclude []string) ([]string, error) {
	conf := fastwalk.Config{
		Follow: false, // Don't follow symlinks.
	}

	var mu sync.Mutex
	var files []string

	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			printVerbose("skipping %s: %v", path, err)
			return nil
		}

		if isExcluded(path, exclude) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() {
			mu.Lock()
			files = append(files, path)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// isExcluded checks a path against the exclusion patterns. A pattern
// matches as a path prefix (for directories) or as a glob against the
// basename.
func isExcluded(path string, exclude []string) bool {
	for _, pattern := range exclude {
		if pattern == "" {
			continue
		}

		if path == pattern {
			return true
		}
		if len(path) > len(pattern) && path[:len(pattern)+1] == pattern+string(filepath.Separator) {
			return true
		}

		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}
	return false
}
