// Package registry centralizes the name-matching rules that the resolvers
// share: grouped identifier aliases, bone inference for placeholder
// attachments, bilateral body-part detection, and the "is this line
// coordinate data" check used to tell attachments apart from geometry.
package registry

import (
	"strings"
)

// Registry answers classification questions about descriptor identifiers
// and bone names. The zero value is not usable; call New.
type Registry struct {
	// Grouped maps alias suffixes to the block name they expand to in the
	// cross-referenced descriptor. The base-skin anatomy is defined once in
	// a shared descriptor and reused across characters through these.
	Grouped map[string]string
}

// New returns a registry with the stock grouped-identifier table.
func New() *Registry {
	return &Registry{
		Grouped: map[string]string{
			"arms":  "arms",
			"legs":  "legs",
			"foots": "foots",
			"body":  "body",
			"waist": "waist",
		},
	}
}

// GroupedBlock returns the block name an alias suffix expands to in the
// cross-referenced descriptor, if the suffix is a grouped identifier.
func (r *Registry) GroupedBlock(suffix string) (string, bool) {
	name, ok := r.Grouped[strings.ToLower(suffix)]
	return name, ok
}

// InferredBone guesses the target bone for an identifier that resolved to
// no block at all. The suffix doubles as the bone name ("head" attaches
// to the head bone); resolution always terminates with some result.
func (r *Registry) InferredBone(suffix string) string {
	return suffix
}

// IsBilateralPair reports whether two layer sources are the left/right
// halves of the same body part (e.g. "female.l_hand" / "female.r_hand").
// Such skin layers merge in a slot instead of replacing each other.
func (r *Registry) IsBilateralPair(a, b string) bool {
	sa, oka := bilateralBase(a)
	sb, okb := bilateralBase(b)
	return oka && okb && sa == sb && a != b
}

func bilateralBase(source string) (string, bool) {
	suffix := source
	if i := strings.LastIndexByte(source, '.'); i >= 0 {
		suffix = source[i+1:]
	}
	switch {
	case strings.HasPrefix(suffix, "l_"):
		return suffix[2:], true
	case strings.HasPrefix(suffix, "r_"):
		return suffix[2:], true
	}
	return "", false
}

// SplitIdentifier splits a dotted identifier into prefix and suffix.
// Identifiers with no dot or an empty suffix are malformed.
func SplitIdentifier(identifier string) (prefix, suffix string, ok bool) {
	i := strings.IndexByte(identifier, '.')
	if i < 0 || i == len(identifier)-1 {
		return "", "", false
	}
	return identifier[:i], identifier[i+1:], true
}

// LooksLikeCoordinateData reports whether a line (or field) consists only
// of digits, separators, and parentheses. Attachment blocks and
// DynamicVisual blocks share the same raw-line storage, so the attachment
// parser must reject face and vertex rows.
func LooksLikeCoordinateData(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c == ' ' || c == '\t' || c == ',' || c == '.' || c == '-' || c == '(' || c == ')':
		default:
			return false
		}
	}
	return true
}
