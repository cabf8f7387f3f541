package moments

import (
	"errors"
	"math"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mxkvch/valentine/internal/logger"
)

// Strict-mode normalization failures. Tolerant mode never fails; it logs and
// skips instead.
var (
	ErrImagesShape   = errors.New("images must be an array")
	ErrImageContent  = errors.New("contains unsupported image entries")
	ErrNoValidImages = errors.New("must contain at least one valid image")
)

// NormalizeStoredImages canonicalizes a stored images field into an ordered
// list of bare filenames. Historically the field held one of three shapes:
// a flat []string, a list of {key, order} objects with path-qualified keys,
// or garbage. Ordering for legacy objects honors a non-negative integral
// "order" value, falling back to input position; ties keep input order.
//
// In strict mode any unresolvable element aborts with an error; in tolerant
// mode it is logged and skipped. Strict mode also requires a non-empty result.
func NormalizeStoredImages(raw interface{}, momentID string, strict bool, log logger.Logger) ([]string, error) {
	items, ok := asList(raw)
	if !ok {
		if strict {
			return nil, ErrImagesShape
		}
		log.Warn("moment has invalid images type",
			logger.String("moment_id", momentID),
			logger.Any("images", raw))
		return []string{}, nil
	}

	type sortable struct {
		order int
		index int
		item  interface{}
	}

	entries := make([]sortable, 0, len(items))
	for index, item := range items {
		order := index
		if fields, isObject := asObject(item); isObject {
			if v, present := legacyOrder(fields["order"]); present && v >= 0 {
				order = v
			}
		}
		entries = append(entries, sortable{order: order, index: index, item: item})
	}

	// Stable sort keeps input position as the tie-break.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	normalized := make([]string, 0, len(entries))
	for _, entry := range entries {
		name, resolved := resolveImageEntry(entry.item)
		if !resolved {
			if strict {
				return nil, ErrImageContent
			}
			log.Warn("skipping invalid image in moment",
				logger.String("moment_id", momentID),
				logger.Any("image", entry.item))
			continue
		}
		normalized = append(normalized, name)
	}

	if strict && len(normalized) == 0 {
		return nil, ErrNoValidImages
	}

	return normalized, nil
}

// resolveImageEntry maps one stored element to a validated bare filename.
func resolveImageEntry(item interface{}) (string, bool) {
	if s, ok := item.(string); ok {
		name, err := ValidateImageFilename(s)
		if err != nil {
			return "", false
		}
		return name, true
	}

	if fields, ok := asObject(item); ok {
		key, isString := fields["key"].(string)
		if !isString {
			return "", false
		}
		return extractFilenameFromLegacyKey(key)
	}

	return "", false
}

// extractFilenameFromLegacyKey takes the last path segment of a possibly
// slashed object key and validates it as a filename.
func extractFilenameFromLegacyKey(value string) (string, bool) {
	key := strings.ReplaceAll(strings.TrimSpace(value), "\\", "/")
	if key == "" {
		return "", false
	}

	filename := key
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		filename = key[idx+1:]
	}
	if filename == "" {
		return "", false
	}

	name, err := ValidateImageFilename(filename)
	if err != nil {
		return "", false
	}
	return name, true
}

// asList widens the array shapes the bson decoder and plain JSON can produce.
func asList(raw interface{}) ([]interface{}, bool) {
	switch v := raw.(type) {
	case []interface{}:
		return v, true
	case primitive.A:
		return []interface{}(v), true
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	default:
		return nil, false
	}
}

// asObject widens the document shapes the bson decoder can produce for a
// legacy image entry.
func asObject(item interface{}) (map[string]interface{}, bool) {
	switch v := item.(type) {
	case map[string]interface{}:
		return v, true
	case primitive.M:
		return map[string]interface{}(v), true
	case primitive.D:
		return v.Map(), true
	default:
		return nil, false
	}
}

// legacyOrder accepts the integral numeric types bson decoding may hand back.
func legacyOrder(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// imagesEqual reports whether a stored raw images value is already the
// canonical flat []string form with the given content. Used by the migration
// runner to decide whether a rewrite is needed.
func imagesEqual(raw interface{}, normalized []string) bool {
	items, ok := asList(raw)
	if !ok {
		return false
	}
	if len(items) != len(normalized) {
		return false
	}
	for i, item := range items {
		s, isString := item.(string)
		if !isString || s != normalized[i] {
			return false
		}
	}
	return true
}
