package moments

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const maxFilenameLength = 255

var (
	safeFilenameRe = regexp.MustCompile(`^[A-Za-z0-9._ -]+$`)
	safeBasenameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ValidateImageFilename checks value against the filename grammar shared by
// create, patch, migration and the media path. It returns the trimmed name
// or an error naming the violated rule.
func ValidateImageFilename(value string) (string, error) {
	normalized := strings.TrimSpace(value)

	if normalized == "" {
		return "", errors.New("must not be empty")
	}
	if len(normalized) > maxFilenameLength {
		return "", fmt.Errorf("must be at most %d characters", maxFilenameLength)
	}
	if strings.ContainsAny(normalized, "/\\\x00") {
		return "", errors.New("must not contain path separators")
	}
	if normalized == "." || normalized == ".." || strings.Contains(normalized, "..") {
		return "", errors.New("must not contain '..'")
	}
	if strings.Contains(normalized, "://") || strings.ContainsAny(normalized, "?#") {
		return "", errors.New("must be a file name without URL or query string")
	}
	if !safeFilenameRe.MatchString(normalized) {
		return "", errors.New("contains unsupported characters")
	}

	return normalized, nil
}

// PhotostockBasename derives the extension-less image name the photostock
// service addresses objects by. The returned pair is (validated filename,
// basename).
func PhotostockBasename(filename string) (string, string, error) {
	normalized, err := ValidateImageFilename(filename)
	if err != nil {
		return "", "", err
	}

	name := normalized
	if idx := strings.LastIndex(normalized, "."); idx >= 0 {
		name = normalized[:idx]
	}
	name = strings.TrimSpace(name)

	if name == "" || strings.Contains(name, ".") {
		return "", "", errors.New("filename must have a valid basename")
	}
	if !safeBasenameRe.MatchString(name) {
		return "", "", errors.New("filename basename contains unsupported characters")
	}

	return normalized, name, nil
}
