package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Recognized source extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".m2ts": true,
	".m4v":  true,
	".avi":  true,
	".ts":   true,
	".wmv":  true,
	".mov":  true,
}

// Discover lists the candidate videos directly inside inputDir, sorted for a
// deterministic processing order. The scan is non-recursive: artifact
// directories and leftover workspaces live in subdirectories, and descending
// into them would feed the pipeline its own outputs. Exclusions match full
// base filenames, case-insensitively.
func Discover(inputDir string, exclusions []string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", inputDir, err)
	}

	excluded := make(map[string]bool, len(exclusions))
	for _, name := range exclusions {
		if name != "" {
			excluded[strings.ToLower(name)] = true
		}
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !videoExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if excluded[strings.ToLower(name)] {
			continue
		}
		files = append(files, filepath.Join(inputDir, name))
	}
	sort.Strings(files)
	return files, nil
}
