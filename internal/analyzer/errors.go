package analyzer

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType is matched by every *UnsupportedTypeError.
var ErrUnsupportedType = errors.New("unsupported schema type")

// supportedTypes are the type tags the analyzer resolves.
var supportedTypes = []string{"string", "integer", "number", "object", "array"}

// UnsupportedTypeError reports a schema node whose type tag is outside the
// supported set. Compilation stops at the first one.
type UnsupportedTypeError struct {
	Type       string
	Pointer    string
	Suggestion string // "did you mean 'string'?" or ""
}

func (e *UnsupportedTypeError) Error() string {
	at := e.Pointer
	if at == "" {
		at = "/"
	}
	msg := fmt.Sprintf("unsupported schema type '%s' at %s", e.Type, at)
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	return msg
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

func newUnsupported(typ, ptr string) *UnsupportedTypeError {
	return &UnsupportedTypeError{
		Type:       typ,
		Pointer:    ptr,
		Suggestion: SuggestFrom(typ, supportedTypes, 2),
	}
}

// Levenshtein computes the edit distance between two strings.
func Levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev = curr
	}
	return prev[lb]
}

// SuggestFrom finds the closest candidate within maxDist edits. Returns "" if
// nothing is close enough.
func SuggestFrom(input string, candidates []string, maxDist int) string {
	best := ""
	bestDist := maxDist + 1
	for _, c := range candidates {
		d := Levenshtein(input, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if best != "" && bestDist <= maxDist {
		return fmt.Sprintf("did you mean '%s'?", best)
	}
	return ""
}
