// Package security validates filesystem paths taken from configuration.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// dangerousChars contains shell metacharacters that could be used for injection attacks.
var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// ValidateFilePath cleans path, makes it absolute and resolves symlinks when
// the file exists. Paths with shell metacharacters are rejected.
func ValidateFilePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("file path contains forbidden character %q: %s", char, path)
		}
	}

	cleanPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	resolvedPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolvedPath, nil
}

// ValidateFilePathInDir validates path and ensures it stays inside baseDir.
func ValidateFilePathInDir(path, baseDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("base directory cannot be empty")
	}

	cleanPath, err := ValidateFilePath(path)
	if err != nil {
		return "", err
	}
	resolvedBaseDir, err := ValidateFilePath(baseDir)
	if err != nil {
		return "", fmt.Errorf("invalid base directory: %w", err)
	}

	// Trailing separator keeps /data from matching /database.
	if !strings.HasPrefix(cleanPath, resolvedBaseDir+string(filepath.Separator)) && cleanPath != resolvedBaseDir {
		return "", fmt.Errorf("file path escapes base directory: %s is not within %s", path, baseDir)
	}
	return cleanPath, nil
}
