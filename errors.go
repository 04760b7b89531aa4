package doclink

import (
	"fmt"
	"sort"
	"strings"
)

// FindError is implemented by every error Find returns. The set is closed:
// NotFoundError, UnknownNameError, UnknownDisambiguationError,
// LookupCollisionError, UnfindableMatchError and NonSymbolMatchError.
type FindError interface {
	error
	findError()
}

// PartialResult is the deepest node a failed search reached, with the path
// components consumed to reach it.
type PartialResult struct {
	Node Node
	Path []PathComponent
}

// PathString renders the consumed components as an absolute path.
func (p PartialResult) PathString() string {
	return joinComponents(p.Path)
}

// Candidate is a node that could have been meant, with the suffix that selects it.
type Candidate struct {
	Node           Node
	Disambiguation string
}

// NotFoundError means no starting point for the path exists.
type NotFoundError struct {
	Remaining         []PathComponent
	AvailableChildren []string
}

func (e *NotFoundError) Error() string {
	if len(e.Remaining) == 0 {
		return "no documentation element matches an empty path"
	}
	return fmt.Sprintf("no top-level documentation element named %q", e.Remaining[0].Full)
}

// UnknownNameError means a path component names no child of the partial result.
type UnknownNameError struct {
	PartialResult     PartialResult
	Remaining         []PathComponent
	AvailableChildren []string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("%q doesn't exist at %q", e.Remaining[0].Full, e.PartialResult.PathString())
}

// NearMisses returns the available children whose names are within a small
// edit distance of the unknown name, closest first.
func (e *UnknownNameError) NearMisses() []string {
	return nearMisses(e.Remaining[0].Name, e.AvailableChildren)
}

// UnknownDisambiguationError means the name matched but no child satisfies
// the requested kind or hash.
type UnknownDisambiguationError struct {
	PartialResult PartialResult
	Remaining     []PathComponent
	Candidates    []Candidate
}

func (e *UnknownDisambiguationError) Error() string {
	c := e.Remaining[0]
	suffixes := make([]string, len(e.Candidates))
	for i, cand := range e.Candidates {
		suffixes[i] = cand.Disambiguation
	}
	if !c.HasDisambiguation() {
		return fmt.Sprintf("%q at %q needs a disambiguation (candidates: %s)",
			c.Full, e.PartialResult.PathString(), strings.Join(suffixes, ", "))
	}
	return fmt.Sprintf("%q isn't a disambiguation for %q at %q (candidates: %s)",
		strings.TrimPrefix(c.Full, c.Name), c.Name, e.PartialResult.PathString(), strings.Join(suffixes, ", "))
}

// LookupCollisionError means a component matched several children and
// nothing broke the tie.
type LookupCollisionError struct {
	PartialResult PartialResult
	Remaining     []PathComponent
	Collisions    []Candidate
}

func (e *LookupCollisionError) Error() string {
	suffixes := make([]string, len(e.Collisions))
	for i, c := range e.Collisions {
		suffixes[i] = e.Remaining[0].Name + c.Disambiguation
	}
	return fmt.Sprintf("%q is ambiguous at %q (one of: %s)",
		e.Remaining[0].Full, e.PartialResult.PathString(), strings.Join(suffixes, ", "))
}

// UnfindableMatchError means the path matched a node that has no identifier.
type UnfindableMatchError struct {
	Node Node
}

func (e *UnfindableMatchError) Error() string {
	return fmt.Sprintf("%q matched an element that can't be linked to", e.Node.Name)
}

// NonSymbolMatchError means a symbol link matched an article or tutorial.
type NonSymbolMatchError struct {
	Path string
}

func (e *NonSymbolMatchError) Error() string {
	return fmt.Sprintf("symbol link %q matched a page that isn't a symbol", e.Path)
}

func (*NotFoundError) findError()              {}
func (*UnknownNameError) findError()           {}
func (*UnknownDisambiguationError) findError() {}
func (*LookupCollisionError) findError()       {}
func (*UnfindableMatchError) findError()       {}
func (*NonSymbolMatchError) findError()        {}

// nearMisses ranks names by Levenshtein distance to target, keeping those
// within roughly a third of the target's length.
func nearMisses(target string, names []string) []string {
	type scored struct {
		name     string
		distance int
	}
	threshold := max(2, len(target)/3)
	lower := strings.ToLower(target)

	var matches []scored
	for _, name := range names {
		d := levenshteinDistance(lower, strings.ToLower(name))
		if d <= threshold {
			matches = append(matches, scored{name, d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
