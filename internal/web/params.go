package web

import (
	"fmt"
	"strings"
)

// Query flags accept the same spellings everywhere: true/1/yes and false/0/no.
var (
	trueValues  = map[string]bool{"true": true, "1": true, "yes": true}
	falseValues = map[string]bool{"false": true, "0": true, "no": true}
)

// ParseBoolParam parses a tri-state boolean query parameter. An empty value
// yields the default; anything outside the accepted spellings is an error.
func ParseBoolParam(value string, def bool, name string) (bool, error) {
	if value == "" {
		return def, nil
	}

	normalized := strings.ToLower(strings.TrimSpace(value))
	if trueValues[normalized] {
		return true, nil
	}
	if falseValues[normalized] {
		return false, nil
	}

	return false, fmt.Errorf("invalid %q value. Use one of: true/false, 1/0, yes/no", name)
}
