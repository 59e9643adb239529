package api

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// This file centralizes path validation for the files reviewkit writes (reviewer
// copies from `reviewkit new`) and for template names that arrive over HTTP.
//
// The checks mostly catch accidental misconfiguration (e.g. "../review.md" or a
// typo that points at /etc) with a clear message.

// templateNameRegex is the set of names a template file may have.
var templateNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ContainsPathTraversal checks if a path contains ".." components.
func ContainsPathTraversal(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

// IsAbsolutePath checks if a path is absolute (Unix or Windows style).
func IsAbsolutePath(path string) bool {
	if filepath.IsAbs(path) {
		return true
	}
	// Windows drive paths on Unix systems (e.g. "C:/...")
	return len(path) >= 2 && path[1] == ':'
}

// ValidateTemplateName rejects names that could not be a template file name,
// including anything containing a path separator.
func ValidateTemplateName(name string) error {
	name = normalizeName(name)
	if !templateNameRegex.MatchString(name) {
		return fmt.Errorf("invalid template name: %q", name)
	}
	return nil
}

// ValidateOutputFile checks that path is a Markdown file that resolves inside baseDir.
// Relative paths are resolved against baseDir.
//
// Checks performed:
// 1. Path is not empty
// 2. Path has a .md extension
// 3. Relative paths contain no ".." components
// 4. The resolved path is within baseDir (after resolving symlinks)
// 5. The parent directory is not a system-critical directory
func ValidateOutputFile(path string, baseDir string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("output path cannot be empty")
	}
	if !strings.EqualFold(filepath.Ext(path), ".md") {
		return "", fmt.Errorf("output file must have a .md extension: %s", path)
	}

	full := path
	if !IsAbsolutePath(path) {
		if ContainsPathTraversal(path) {
			return "", fmt.Errorf("directory traversal is not allowed: %s", path)
		}
		full = filepath.Join(baseDir, path)
	}
	full = filepath.Clean(full)

	resolvedBase, err := filepath.EvalSymlinks(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlinks for base directory %q: %w", baseDir, err)
	}

	// The file itself usually does not exist yet; resolve its directory instead.
	dir := filepath.Dir(full)
	resolvedDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolvedDir = dir
	}

	if !IsContainedIn(resolvedDir, resolvedBase) {
		return "", fmt.Errorf("output path must be within %s: %s", resolvedBase, path)
	}
	if err := validateNotSystemDirectory(resolvedDir); err != nil {
		return "", err
	}

	return filepath.Join(resolvedDir, filepath.Base(full)), nil
}

// ValidateOutputFileInCwd is ValidateOutputFile with the current working directory as base.
func ValidateOutputFileInCwd(path string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return ValidateOutputFile(path, cwd)
}

// IsContainedIn checks if a path is within (or equal to) a container directory.
func IsContainedIn(path, container string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absContainer, err := filepath.Abs(container)
	if err != nil {
		return false
	}
	if absPath == absContainer {
		return true
	}

	relPath, err := filepath.Rel(absContainer, absPath)
	if err != nil {
		return false
	}
	if relPath == ".." {
		return false
	}
	return !strings.HasPrefix(relPath, ".."+string(filepath.Separator))
}

// validateNotSystemDirectory checks that a path is not a system-critical directory
func validateNotSystemDirectory(cleanPath string) error {
	normalizedPath := filepath.ToSlash(strings.ToLower(cleanPath))

	dangerousPaths := []string{
		"/",
		"/bin",
		"/boot",
		"/dev",
		"/etc",
		"/lib",
		"/proc",
		"/sbin",
		"/sys",
		"/usr",
		"c:/",
		"c:/windows",
		"c:/program files",
	}

	for _, dangerous := range dangerousPaths {
		if normalizedPath == dangerous {
			return fmt.Errorf("output path is not valid: cannot write into system directory: %s", cleanPath)
		}
	}

	return nil
}
