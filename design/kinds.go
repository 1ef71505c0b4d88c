package design

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrUnknownKind is returned when a value outside the closed component set is used.
var ErrUnknownKind = errors.New("unknown component kind")

// ComponentKind is the value held by a single die cell.
type ComponentKind int

const (
	Empty ComponentKind = iota
	CPUP
	CPUE
	GPU
	NPU
	Smoke

	kindCount int = iota
)

var kindNames = [kindCount]string{
	Empty: "EMPTY",
	CPUP:  "CPU_P",
	CPUE:  "CPU_E",
	GPU:   "GPU",
	NPU:   "NPU",
	Smoke: "SMOKE",
}

// String returns the canonical upper-case name, e.g. "CPU_P".
func (k ComponentKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ComponentKind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k belongs to the closed set.
func (k ComponentKind) Valid() bool { return k >= 0 && int(k) < kindCount }

// Kinds returns every component kind in declaration order.
func Kinds() []ComponentKind {
	out := make([]ComponentKind, kindCount)
	for i := range out {
		out[i] = ComponentKind(i)
	}
	return out
}

// ParseKind resolves a user supplied name. Matching ignores case and treats
// '-' and ' ' like '_', so "cpu-p" resolves to CPU_P.
func ParseKind(name string) (ComponentKind, error) {
	norm := normalizeKindName(name)
	for i, n := range kindNames {
		if n == norm {
			return ComponentKind(i), nil
		}
	}
	if hint := suggestKind(norm); hint != "" {
		return Empty, fmt.Errorf("%w: %q (did you mean %s?)", ErrUnknownKind, name, hint)
	}
	return Empty, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

func normalizeKindName(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// suggestKind returns the closest canonical name within an edit distance of 2.
func suggestKind(norm string) string {
	if norm == "" {
		return ""
	}
	best, bestDist := "", 3
	for _, n := range kindNames {
		if d := levenshtein.ComputeDistance(norm, n); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}
