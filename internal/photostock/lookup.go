// Package photostock resolves extension-less image names against the
// object-store bucket and serves the bytes.
package photostock

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var safeImageName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// validateImageName checks a requested base name. The name never carries an
// extension; the store lookup decides which variant exists.
func validateImageName(image string) (string, error) {
	name := strings.TrimSpace(image)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return "", errors.New("Invalid 'image' path. Use a file name without directories")
	}
	if strings.Contains(name, ".") {
		return "", errors.New("image must be without extension")
	}
	if !safeImageName.MatchString(name) {
		return "", errors.New("Invalid 'image' name. Use only letters, numbers, '-' and '_'")
	}
	return name, nil
}

// findMatchingKeys filters listed keys down to top-level objects whose stem is
// exactly the requested name and whose extension is a known image format.
// The result is sorted so an ambiguity report is deterministic.
func findMatchingKeys(imageName string, objectKeys []string) []string {
	matches := []string{}
	for _, key := range objectKeys {
		if strings.ContainsAny(key, "/\\\x00") {
			continue
		}

		dot := strings.LastIndex(key, ".")
		if dot < 0 {
			continue
		}
		stem, ext := key[:dot], key[dot:]
		if stem != imageName || !allowedExtensions[strings.ToLower(ext)] {
			continue
		}
		matches = append(matches, key)
	}
	sort.Strings(matches)
	return matches
}
