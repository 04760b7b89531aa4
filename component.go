package doclink

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// PathComponent is one segment of a link path.
type PathComponent struct {
	Full string // the segment as written, including any disambiguation suffix
	Name string // the segment with its disambiguation suffix removed
	Kind string // symbol kind disambiguation; empty when absent
	Hash string // symbol hash disambiguation; empty when absent
}

// HasDisambiguation reports whether the component carries a kind or hash.
func (c PathComponent) HasDisambiguation() bool {
	return c.Kind != "" || c.Hash != ""
}

const (
	documentationRoot = "documentation"
	tutorialsRoot     = "tutorials"
	docScheme         = "doc://"
)

// knownKinds are the symbol kind identifiers recognized as disambiguation.
var knownKinds = map[string]bool{
	"associatedtype": true,
	"case":           true,
	"class":          true,
	"deinit":         true,
	"dictionary":     true,
	"enum":           true,
	"extension":      true,
	"func":           true,
	"func.op":        true,
	"httpBody":       true,
	"httpParameter":  true,
	"httpRequest":    true,
	"httpResponse":   true,
	"init":           true,
	"ivar":           true,
	"macro":          true,
	"method":         true,
	"module":         true,
	"namespace":      true,
	"property":       true,
	"protocol":       true,
	"snippet":        true,
	"struct":         true,
	"subscript":      true,
	"type.method":    true,
	"type.property":  true,
	"type.subscript": true,
	"typealias":      true,
	"var":            true,
}

// IsKnownKind reports whether kind is accepted as a kind disambiguation.
func IsKnownKind(kind string) bool {
	return knownKinds[kind]
}

var knownLanguagePrefixes = []string{"swift.", "objc.", "data."}

// ParsePath splits a link path into components and reports whether the path
// is absolute. Empty components are dropped.
func ParsePath(path string) ([]PathComponent, bool) {
	return parsePath(path, true)
}

func parsePath(path string, omitEmpty bool) ([]PathComponent, bool) {
	if path == "" {
		return nil, true
	}

	isAbsolute := false
	if rest, ok := strings.CutPrefix(path, docScheme); ok {
		// The bundle identifier after the scheme isn't part of the hierarchy.
		path = ""
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			path = rest[i:]
		}
		isAbsolute = true
	}
	if strings.HasPrefix(path, "/") {
		isAbsolute = true
	}

	segments := strings.Split(path, "/")
	components := make([]PathComponent, 0, len(segments))
	for _, segment := range segments {
		if segment == "" && omitEmpty {
			continue
		}
		components = append(components, parseComponent(segment))
	}

	if len(components) > 0 {
		if first := components[0].Full; first == documentationRoot || first == tutorialsRoot {
			isAbsolute = true
		}
	}
	return components, isAbsolute
}

// parseComponent extracts a trailing "-kind", "-hash" or "-kind-hash" suffix.
// Anything that doesn't look like a suffix stays part of the name.
func parseComponent(segment string) PathComponent {
	plain := PathComponent{Full: segment, Name: segment}

	dash := strings.LastIndexByte(segment, '-')
	if dash <= 0 {
		return plain
	}
	name, suffix := segment[:dash], segment[dash+1:]

	if kind, ok := parseKind(suffix); ok {
		return PathComponent{Full: segment, Name: name, Kind: kind}
	}
	if !isValidHash(suffix) {
		return plain
	}

	if dash := strings.LastIndexByte(name, '-'); dash > 0 {
		if kind, ok := parseKind(name[dash+1:]); ok {
			return PathComponent{Full: segment, Name: name[:dash], Kind: kind, Hash: suffix}
		}
	}
	return PathComponent{Full: segment, Name: name, Hash: suffix}
}

// parseKind accepts a known kind, optionally with a language prefix such as
// "swift.". The prefix is dropped.
func parseKind(s string) (string, bool) {
	if knownKinds[s] {
		return s, true
	}
	for _, prefix := range knownLanguagePrefixes {
		if kind, ok := strings.CutPrefix(s, prefix); ok && knownKinds[kind] {
			return kind, true
		}
	}
	return "", false
}

// isValidHash accepts 1-7 lowercase base-36 characters, the range StableHash produces.
func isValidHash(s string) bool {
	if len(s) == 0 || len(s) > 7 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// StableHash returns the disambiguation hash for a symbol's precise
// identifier: the 32-bit FNV-1 hash rendered in base 36.
func StableHash(preciseID string) string {
	h := fnv.New32()
	h.Write([]byte(preciseID))
	return strconv.FormatUint(uint64(h.Sum32()), 36)
}

// joinComponents renders components as an absolute path.
func joinComponents(components []PathComponent) string {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = c.Full
	}
	joined := strings.Join(parts, "/")
	if !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	return joined
}
