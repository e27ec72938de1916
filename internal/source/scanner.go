package source

import (
	"os"
	"path/filepath"
	"strings"
)

// formats maps accepted file extensions to viper config types.
var formats = map[string]string{
	".toml": "toml",
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
}

// FormatOf returns the config type for path, or "" when the extension is not
// a model format.
func FormatOf(path string) string {
	return formats[strings.ToLower(filepath.Ext(path))]
}

// ScanDir walks dir and discovers all model files. Hidden files and
// directories are skipped. A missing directory yields no files.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		name := d.Name()
		if path != dir && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		format := FormatOf(path)
		if format == "" {
			return nil
		}

		rel, _ := filepath.Rel(dir, path)
		parts := strings.Split(rel, string(filepath.Separator))
		group := ""
		if len(parts) > 1 {
			group = parts[0]
		}

		files = append(files, DiscoveredFile{
			Path:   path,
			Name:   strings.TrimSuffix(name, filepath.Ext(name)),
			Group:  group,
			Format: format,
		})
		return nil
	})

	return files, err
}

// CountGroups returns the number of unique groups in a set of discovered files.
func CountGroups(files []DiscoveredFile) int {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[f.Group] = struct{}{}
	}
	return len(seen)
}
