package source

import (
	"os"
	"path/filepath"
	"strings"
)

// Scan discovers CSV export files. The path may be a single file or a
// directory, which is walked recursively. Unreadable entries are skipped.
func Scan(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []DiscoveredFile{{Path: path, Name: info.Name()}}, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".csv") {
			return nil
		}
		files = append(files, DiscoveredFile{Path: p, Name: d.Name()})
		return nil
	})

	return files, err
}
