package parser

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSuffix is the file suffix searched for in input directories.
const DefaultSuffix = "log"

// ExpandInputs expands files, directories and glob patterns into a
// deduplicated list of files. Directories are searched recursively for files
// ending in "."+suffix. The order of the inputs is preserved; directory
// contents are returned in lexical order.
func ExpandInputs(inputs []string, suffix string) ([]string, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	suffix = "." + strings.TrimPrefix(suffix, ".")

	seen := make(map[string]bool)
	var result []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, input := range inputs {
		matches := []string{input}
		if _, err := os.Stat(input); err != nil {
			globbed, gerr := filepath.Glob(input)
			if gerr != nil {
				return nil, fmt.Errorf("invalid glob pattern %q: %w", input, gerr)
			}
			if len(globbed) == 0 {
				return nil, fmt.Errorf("input not found: %s", input)
			}
			matches = globbed
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("reading input %s: %w", match, err)
			}
			if !info.IsDir() {
				add(match)
				continue
			}
			err = filepath.WalkDir(match, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.EqualFold(filepath.Ext(path), suffix) {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("searching %s: %w", match, err)
			}
		}
	}

	return result, nil
}
