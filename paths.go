package doclink

import (
	"slices"
	"sort"
	"strings"
)

// Path returns the absolute, minimally disambiguated link path of the node id
// refers to. Symbols and articles live under "/documentation", tutorials
// under "/tutorials".
func (h *Hierarchy) Path(id ResolvedIdentifier) (string, bool) {
	n, ok := h.lookup[id]
	if !ok {
		return "", false
	}
	return h.pathOf(n), true
}

// Paths returns the link path of every node that can be linked to, sorted.
func (h *Hierarchy) Paths() []string {
	paths := make([]string, 0, len(h.lookup))
	for _, n := range h.lookup {
		paths = append(paths, h.pathOf(n))
	}
	sort.Strings(paths)
	return paths
}

func (h *Hierarchy) pathOf(id NodeID) string {
	var segments []string
	current := id
	for {
		n := &h.nodes[current]
		if n.parent == noNode {
			break
		}
		segment := n.name
		if container := h.nodes[n.parent].children[n.name]; container.count() > 1 {
			segment += container.disambiguation(current)
		}
		segments = append(segments, segment)
		current = n.parent
	}

	root := documentationRoot
	switch current {
	case h.tutorialOverviews:
		root = tutorialsRoot
	case h.tutorials:
		root = tutorialsRoot
		if id == current {
			segments = append(segments, h.nodes[current].name)
		}
	default:
		segments = append(segments, h.nodes[current].name)
	}
	segments = append(segments, root)

	slices.Reverse(segments)
	return "/" + strings.Join(segments, "/")
}
