package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// sourceExt is the extension of DATEX source files.
const sourceExt = ".dx"

// expandInputs turns command arguments into a sorted list of source
// files. Directories are walked for .dx files. With no arguments the
// include patterns are matched below root.
func expandInputs(args []string, root string, include []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	if len(args) == 0 {
		matched, err := matchIncludes(root, include)
		if err != nil {
			return nil, err
		}
		for _, f := range matched {
			add(f)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && skipDir(path, arg) {
				return filepath.SkipDir
			}
			if !d.IsDir() && filepath.Ext(path) == sourceExt {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

// matchIncludes walks root and keeps files whose slash-separated relative
// path matches one of the patterns.
func matchIncludes(root string, patterns []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path, root) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		for _, p := range patterns {
			if matchGlob(p, filepath.ToSlash(rel)) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", root, err)
	}
	return files, nil
}

// skipDir reports hidden directories below the walk root.
func skipDir(path, root string) bool {
	return path != root && strings.HasPrefix(filepath.Base(path), ".")
}

// matchGlob matches name against pattern segment by segment. A "**"
// segment matches any number of segments, including none.
func matchGlob(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			for i := 0; i <= len(name); i++ {
				if matchSegments(pattern[1:], name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, _ := filepath.Match(pattern[0], name[0]); !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}
