package doclink

import (
	"log/slog"
	"sort"
)

// search carries the per-call state of one Find.
type search struct {
	h               *Hierarchy
	rawPath         string
	onlyFindSymbols bool
}

// Find resolves a link path to the node it denotes.
//
// When parent is non-nil and the path is relative, the search starts at that
// node and walks up through its ancestors. When onlyFindSymbols is true,
// articles and tutorials are skipped and a non-symbol match is an error.
//
// Every error returned is a FindError.
func (h *Hierarchy) Find(path string, parent *ResolvedIdentifier, onlyFindSymbols bool) (ResolvedIdentifier, error) {
	s := &search{h: h, rawPath: path, onlyFindSymbols: onlyFindSymbols}

	id, err := s.findNode(parent)
	if err == nil {
		n := &h.nodes[id]
		switch {
		case n.identifier.IsZero():
			err = &UnfindableMatchError{Node: h.view(id)}
		case onlyFindSymbols && n.symbol == nil:
			err = &NonSymbolMatchError{Path: path}
		}
	}
	if err != nil {
		h.recordFind(findOutcome(err))
		h.logger.Debug("link resolution failed",
			slog.String("path", path),
			slog.Bool("symbols_only", onlyFindSymbols),
			slog.String("error", err.Error()),
		)
		return ResolvedIdentifier{}, err
	}

	h.recordFind(outcomeResolved)
	h.logger.Debug("resolved link",
		slog.String("path", path),
		slog.String("name", h.nodes[id].name),
		slog.String("identifier", h.nodes[id].identifier.String()),
	)
	return h.nodes[id].identifier, nil
}

func (s *search) findNode(parent *ResolvedIdentifier) (NodeID, error) {
	h := s.h
	components, isAbsolute := parsePath(s.rawPath, true)
	if len(components) == 0 {
		return noNode, &NotFoundError{}
	}

	remaining := components
	isTutorialPath := remaining[0].Full == tutorialsRoot
	isDocumentationPath := remaining[0].Full == documentationRoot
	if isTutorialPath || isDocumentationPath {
		// The root folder name isn't part of the hierarchy.
		remaining = remaining[1:]
	}
	if len(remaining) == 0 {
		return noNode, &NotFoundError{}
	}

	if !s.onlyFindSymbols {
		if id, claimed, err := s.searchNonSymbolRoots(remaining, isTutorialPath, isDocumentationPath); claimed {
			return id, err
		}
	}

	if !isAbsolute && parent != nil {
		if start, ok := h.lookup[*parent]; ok {
			return s.searchUpward(start, remaining)
		}
	}
	return s.searchModules(remaining)
}

// searchNonSymbolRoots probes the article, tutorial and tutorial overview
// containers in that order. Only the first level or two are inspected before
// committing to a full search of one container.
func (s *search) searchNonSymbolRoots(remaining []PathComponent, isTutorialPath, isDocumentationPath bool) (NodeID, bool, error) {
	h := s.h
	first := remaining[0]

	if !isTutorialPath {
		switch {
		case h.matches(h.articles, first):
			if len(remaining) == 1 || h.anyChildMatches(h.articles, remaining[1]) {
				id, err := s.searchForNode(h.articles, remaining[1:])
				return id, true, err
			}
		case h.anyChildMatches(h.articles, first):
			id, err := s.searchForNode(h.articles, remaining)
			return id, true, err
		}
	}

	if !isDocumentationPath {
		switch {
		case h.matches(h.tutorials, first):
			id, err := s.searchForNode(h.tutorials, remaining[1:])
			return id, true, err
		case h.anyChildMatches(h.tutorials, first):
			id, err := s.searchForNode(h.tutorials, remaining)
			return id, true, err
		case h.anyChildMatches(h.tutorialOverviews, first):
			id, err := s.searchForNode(h.tutorialOverviews, remaining)
			return id, true, err
		}
	}
	return noNode, false, nil
}

// searchModules starts the search at the module the first component names.
func (s *search) searchModules(remaining []PathComponent) (NodeID, error) {
	h := s.h
	first := remaining[0]

	if id, ok := h.modules[first.Full]; ok {
		return s.searchForNode(id, remaining[1:])
	}
	if id, ok := h.modules[first.Name]; ok && h.matches(id, first) {
		return s.searchForNode(id, remaining[1:])
	}

	if len(h.modules) == 1 {
		// With a single module, module-relative paths are allowed.
		for _, only := range h.modules {
			if id, err := s.searchForNode(only, remaining); err == nil {
				return id, nil
			}
		}
	}

	available := make([]string, 0, len(h.modules)+2)
	available = append(available, h.Modules()...)
	available = append(available, h.nodes[h.articles].name, h.nodes[h.tutorials].name)
	sort.Strings(available)
	return noNode, &NotFoundError{Remaining: cloneComponents(remaining), AvailableChildren: available}
}

// searchUpward tries to resolve a relative path from start and then from each
// of its ancestors. The error from the level closest to start is kept, since
// it points at the most plausible failure.
func (s *search) searchUpward(start NodeID, remaining []PathComponent) (NodeID, error) {
	h := s.h
	first := remaining[0]
	var innerMost error

	for current := start; current != noNode; current = h.nodes[current].parent {
		if h.anyChildMatches(current, first) {
			id, err := s.searchForNode(current, remaining)
			if err == nil {
				return id, nil
			}
			if innerMost == nil {
				innerMost = err
			}
		}
		// The component may be ambiguous among the children but still name
		// this node itself.
		if h.matches(current, first) {
			id, err := s.searchForNode(current, remaining[1:])
			if err == nil {
				return id, nil
			}
			if innerMost == nil {
				innerMost = err
			}
		}
	}

	if id, err := s.searchModules(remaining); err == nil {
		return id, nil
	}
	// Searching from the starting point again gives a more specific error
	// than "not found" at the top level.
	id, err := s.searchForNode(start, remaining)
	if err == nil {
		return id, nil
	}
	if innerMost != nil {
		return noNode, innerMost
	}
	return noNode, err
}

// searchForNode descends from start one component at a time.
func (s *search) searchForNode(start NodeID, remaining []PathComponent) (NodeID, error) {
	current := start

	for len(remaining) > 0 {
		container, component, ok := s.childContainer(current, remaining[0])
		if !ok {
			return noNode, s.partialResultError(current, remaining)
		}

		child, collisions := container.find(component.Kind, component.Hash)
		switch {
		case child != noNode:
			current = child
			remaining = remaining[1:]

		case collisions == nil:
			return noNode, s.partialResultError(current, remaining)

		case len(remaining) == 1:
			return s.foldSameSymbolCollision(current, remaining, collisions)

		default:
			match, ok := s.lookahead(collisions, remaining[1])
			if !ok {
				return s.handleCollision(current, remaining, collisions)
			}
			s.collisionResolved(strategyLookahead, match)
			current = match
			remaining = remaining[2:]
		}
	}
	return current, nil
}

// childContainer finds the children named by component. A child named by the
// full text wins; the suffix is then part of the name, not a disambiguation.
func (s *search) childContainer(id NodeID, component PathComponent) (*disambiguationContainer, PathComponent, bool) {
	children := s.h.nodes[id].children
	if container, ok := children[component.Full]; ok {
		component.Kind, component.Hash = "", ""
		return container, component, true
	}
	if container, ok := children[component.Name]; ok {
		return container, component, true
	}
	return nil, component, false
}

// lookahead narrows a collision by resolving the next component under each
// candidate. It succeeds if exactly one candidate has a match, or if every
// match is the same symbol, in which case the primary language variant wins.
func (s *search) lookahead(collisions []candidate, next PathComponent) (NodeID, bool) {
	h := s.h
	var matches []NodeID
	for _, c := range collisions {
		container, component, ok := s.childContainer(c.id, next)
		if !ok {
			continue
		}
		if id, _ := container.find(component.Kind, component.Hash); id != noNode {
			matches = append(matches, id)
		}
	}

	switch {
	case len(matches) == 1:
		return matches[0], true
	case len(matches) > 1:
		precise := h.preciseID(matches[0])
		for _, id := range matches[1:] {
			if h.preciseID(id) != precise {
				return noNode, false
			}
		}
		for _, id := range matches {
			if sym := h.nodes[id].symbol; sym != nil && sym.Language == h.primaryLanguage {
				return id, true
			}
		}
		return matches[0], true
	}
	return noNode, false
}

// foldSameSymbolCollision handles a collision on the last component. Language
// variants of one symbol can collide with each other; if only one symbol
// remains once variants are folded, its primary language variant is returned.
func (s *search) foldSameSymbolCollision(current NodeID, remaining []PathComponent, collisions []candidate) (NodeID, error) {
	h := s.h
	unique := make(map[string]NodeID, 2)
	for _, c := range collisions {
		sym := h.nodes[c.id].symbol
		if sym == nil {
			return s.handleCollision(current, remaining, collisions)
		}
		if _, seen := unique[sym.PreciseID]; !seen || sym.Language == h.primaryLanguage {
			unique[sym.PreciseID] = c.id
		}
		if len(unique) > 1 {
			return s.handleCollision(current, remaining, collisions)
		}
	}
	for _, id := range unique {
		s.collisionResolved(strategySameSymbol, id)
		return id, nil
	}
	return s.handleCollision(current, remaining, collisions)
}

// handleCollision prefers the only favored candidate, then the only candidate
// whose symbol-ness matches the kind of link, before reporting the collision.
func (s *search) handleCollision(current NodeID, remaining []PathComponent, collisions []candidate) (NodeID, error) {
	h := s.h
	if id, ok := singleMatch(collisions, func(c candidate) bool { return !h.nodes[c.id].disfavored }); ok {
		s.collisionResolved(strategyFavored, id)
		return id, nil
	}
	// Symbol links want the symbol; other links prefer the page.
	if id, ok := singleMatch(collisions, func(c candidate) bool { return (h.nodes[c.id].symbol != nil) == s.onlyFindSymbols }); ok {
		s.collisionResolved(strategyKindClass, id)
		return id, nil
	}

	return noNode, &LookupCollisionError{
		PartialResult: s.partialResult(current, remaining),
		Remaining:     cloneComponents(remaining),
		Collisions:    h.publicCandidates(collisions),
	}
}

func (s *search) collisionResolved(strategy string, id NodeID) {
	s.h.recordCollisionResolved(strategy)
	s.h.logger.Debug("link collision resolved",
		slog.String("path", s.rawPath),
		slog.String("strategy", strategy),
		slog.String("name", s.h.nodes[id].name),
	)
}

func singleMatch(collisions []candidate, pred func(candidate) bool) (NodeID, bool) {
	match := noNode
	for _, c := range collisions {
		if !pred(c) {
			continue
		}
		if match != noNode {
			return noNode, false
		}
		match = c.id
	}
	return match, match != noNode
}

// partialResultError reports that remaining[0] can't be found under current.
func (s *search) partialResultError(current NodeID, remaining []PathComponent) error {
	h := s.h
	children := h.nodes[current].children
	if container, ok := children[remaining[0].Name]; ok {
		return &UnknownDisambiguationError{
			PartialResult: s.partialResult(current, remaining),
			Remaining:     cloneComponents(remaining),
			Candidates:    h.publicCandidates(container.disambiguatedValues()),
		}
	}

	available := make([]string, 0, len(children))
	for name := range children {
		available = append(available, name)
	}
	sort.Strings(available)
	return &UnknownNameError{
		PartialResult:     s.partialResult(current, remaining),
		Remaining:         cloneComponents(remaining),
		AvailableChildren: available,
	}
}

// partialResult pairs current with the components of the original path that
// precede remaining.
func (s *search) partialResult(current NodeID, remaining []PathComponent) PartialResult {
	all, _ := parsePath(s.rawPath, false)
	for len(all) > 0 && all[len(all)-1].Full == "" {
		all = all[:len(all)-1]
	}
	n := max(len(all)-len(remaining), 0)
	return PartialResult{
		Node: s.h.view(current),
		Path: cloneComponents(all[:n]),
	}
}

func (h *Hierarchy) publicCandidates(cs []candidate) []Candidate {
	out := make([]Candidate, len(cs))
	for i, c := range cs {
		out[i] = Candidate{Node: h.view(c.id), Disambiguation: c.disambiguation}
	}
	return out
}

func cloneComponents(cs []PathComponent) []PathComponent {
	if len(cs) == 0 {
		return []PathComponent{}
	}
	out := make([]PathComponent, len(cs))
	copy(out, cs)
	return out
}
