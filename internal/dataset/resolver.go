package dataset

import (
	"fmt"
	"io/fs"
	"os"
)

// Resolve decides which CSV backs a pipeline run: the explicit path when one
// is given, else the previously ingested current dataset, else the bundled
// default. An explicit path that does not exist is an error, it never falls
// through to the other candidates.
func Resolve(explicit, current, fallback string) (string, error) {
	if explicit != "" {
		if fileExists(explicit) {
			return explicit, nil
		}
		return "", fmt.Errorf("csv file not found: %s: %w", explicit, fs.ErrNotExist)
	}
	if fileExists(current) {
		return current, nil
	}
	if fileExists(fallback) {
		return fallback, nil
	}
	return "", fmt.Errorf("csv file not found: %s: %w", fallback, fs.ErrNotExist)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
