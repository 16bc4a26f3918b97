package format

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-formvalidator/pkg/model"
)

var tokenTrim = regexp.MustCompile(`^\{\{\s*|\s*\}\}$`)

// Interpolate replaces {{ key }} tokens in template with the stringified value
// of detail[key]. A single combined expression built from the detail keys is
// used so substitutions never feed into each other. Tokens naming keys that are
// missing from the detail, or whose value is nil, are left untouched.
func Interpolate(template string, detail model.Detail) string {
	if template == "" || len(detail) == 0 || !strings.Contains(template, "{{") {
		return template
	}

	keys := make([]string, 0, len(detail))
	for key, value := range detail {
		if key == "" || value == nil {
			continue
		}
		keys = append(keys, regexp.QuoteMeta(key))
	}
	if len(keys) == 0 {
		return template
	}
	// longest first so overlapping names prefer the most specific key
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	expr, err := regexp.Compile(`\{\{\s*(` + strings.Join(keys, "|") + `)\s*\}\}`)
	if err != nil {
		return template
	}

	return expr.ReplaceAllStringFunc(template, func(match string) string {
		name := tokenTrim.ReplaceAllString(match, "")
		value, ok := detail[name]
		if !ok || value == nil {
			return match
		}
		return Stringify(value)
	})
}

// Stringify renders a detail value for message output. Slices are joined with
// commas; everything else uses fmt formatting.
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, Stringify(item))
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(typed, ",")
	case []int:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	case []float64:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(value)
	}
}
