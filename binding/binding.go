// Package binding fills ${name} placeholders in label templates.
package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]*)\}`)

// Vars maps placeholder names to their values.
type Vars map[string]any

// UnknownFieldError reports a placeholder a template is not allowed to use.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown placeholder ${%s}", e.Field)
}

// Interpolate replaces every ${name} in text with vars[name].
// Placeholders without a value are left as written.
func Interpolate(text string, vars Vars) string {
	if len(vars) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-1])
		if val, ok := vars[name]; ok && name != "" {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Fields lists the placeholder names in text, in order of first use.
func Fields(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(groups[1])
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Check returns an *UnknownFieldError for the first placeholder in text
// that is not one of allowed. Empty placeholders are never allowed.
func Check(text string, allowed ...string) error {
	ok := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		ok[a] = true
	}
	for _, name := range Fields(text) {
		if !ok[name] {
			return &UnknownFieldError{Field: name}
		}
	}
	return nil
}
