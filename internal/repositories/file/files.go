// Package file implements the pipeline's source and output repositories on
// the local filesystem: dated raw exports under the raw directories, one
// fixed set of processed CSVs under the processed directory.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// latestFile returns the lexicographically greatest file name with the given
// extension in dir. Raw exports are named by date, so the greatest name is
// the most recent export.
func latestFile(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	latest := ""
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		if e.Name() > latest {
			latest = e.Name()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no %s files in %s", ext, dir)
	}
	return filepath.Join(dir, latest), nil
}
