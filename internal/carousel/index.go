// Package carousel serves a rotating picture endpoint over the object-store
// bucket plus an auto-refreshing HTML view.
package carousel

import (
	"path"
	"regexp"
	"strings"
)

// When several objects share a basename, the better-compressed format wins.
var extensionPriority = map[string]int{
	".webp": 0,
	".png":  1,
	".jpg":  2,
	".jpeg": 3,
	".gif":  4,
}

var safeImageName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// sanitizeImageBaseName validates an extension-less image name. Path
// separators, NUL bytes and dots are rejected outright.
func sanitizeImageBaseName(value string) (string, bool) {
	name := strings.TrimSpace(value)
	if name == "" {
		return "", false
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return "", false
	}
	if !safeImageName.MatchString(name) {
		return "", false
	}
	return name, true
}

// BuildUniqueImageIndex maps each safe basename to the single object key that
// should serve it. Keys under prefixes, keys with unexpected extensions and
// keys with unsafe basenames are skipped; basename collisions are resolved by
// extension priority, first occurrence winning ties.
func BuildUniqueImageIndex(objectKeys []string) map[string]string {
	index := map[string]string{}

	for _, key := range objectKeys {
		if strings.ContainsAny(key, "/\\\x00") {
			continue
		}

		ext := strings.ToLower(path.Ext(key))
		priority, allowed := extensionPriority[ext]
		if !allowed {
			continue
		}

		stem, ok := sanitizeImageBaseName(strings.TrimSuffix(key, path.Ext(key)))
		if !ok {
			continue
		}

		existing, present := index[stem]
		if !present {
			index[stem] = key
			continue
		}
		if priority < extensionPriority[strings.ToLower(path.Ext(existing))] {
			index[stem] = key
		}
	}

	return index
}
