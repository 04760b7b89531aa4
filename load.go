package doclink

import (
	"fmt"

	"github.com/jward/doclink/internal/store"
)

// Open loads the hierarchy snapshot stored in the SQLite database at dbPath.
func Open(dbPath string, opts ...Option) (*Hierarchy, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("doclink: open store: %w", err)
	}
	defer s.Close()

	if err := s.Migrate(); err != nil {
		return nil, fmt.Errorf("doclink: migrate: %w", err)
	}
	return FromStore(s, opts...)
}

// FromStore rebuilds a hierarchy from the rows in s.
func FromStore(s *store.Store, opts ...Option) (*Hierarchy, error) {
	bundle, err := s.GetMetadata(store.MetadataBundleName)
	if err != nil {
		return nil, fmt.Errorf("doclink: load: %w", err)
	}
	rows, err := s.Nodes()
	if err != nil {
		return nil, fmt.Errorf("doclink: load: %w", err)
	}

	h := NewHierarchy(bundle, opts...)
	ids := make(map[int64]NodeID, len(rows))
	for _, r := range rows {
		id, err := h.addRow(r, ids)
		if err != nil {
			return nil, fmt.Errorf("doclink: load node %d %q: %w", r.ID, r.Name, err)
		}
		ids[r.ID] = id
	}
	return h, nil
}

func (h *Hierarchy) addRow(r *store.NodeRow, ids map[int64]NodeID) (NodeID, error) {
	var lang Language
	if r.Language != "" {
		l, err := ParseLanguage(r.Language)
		if err != nil {
			return noNode, err
		}
		lang = l
	}

	var opts []NodeOption
	if r.Disfavored {
		opts = append(opts, Disfavored())
	}
	if !r.Findable {
		opts = append(opts, Unfindable())
	}

	var parent NodeID
	if r.ParentID == nil {
		switch r.Root {
		case store.RootModules:
			return h.AddModule(r.Name, lang), nil
		case store.RootArticles:
			parent = h.articles
		case store.RootTutorials:
			parent = h.tutorials
		case store.RootTutorialOverviews:
			parent = h.tutorialOverviews
		default:
			return noNode, fmt.Errorf("unknown root %q", r.Root)
		}
	} else {
		p, ok := ids[*r.ParentID]
		if !ok {
			return noNode, fmt.Errorf("parent %d: %w", *r.ParentID, ErrInvalidParent)
		}
		parent = p
	}

	if r.Kind == "" {
		return h.AddPage(parent, r.Name, opts...)
	}
	return h.AddSymbol(parent, r.Name, Symbol{Kind: r.Kind, PreciseID: r.PreciseID, Language: lang}, opts...)
}

// Save writes the hierarchy to s. The three fixed containers are implied by
// the Root column and aren't stored.
func Save(h *Hierarchy, s *store.Store) error {
	if err := s.SetMetadata(store.MetadataBundleName, h.bundleName); err != nil {
		return fmt.Errorf("doclink: save: %w", err)
	}

	rows := make([]*store.NodeRow, 0, len(h.nodes))
	for i := range h.nodes {
		id := NodeID(i)
		if h.isContainer(id) {
			continue
		}
		n := &h.nodes[id]
		r := &store.NodeRow{
			ID:         rowID(id),
			Name:       n.name,
			Disfavored: n.disfavored,
			Findable:   !n.identifier.IsZero(),
		}
		if n.symbol != nil {
			r.Kind = n.symbol.Kind
			r.PreciseID = n.symbol.PreciseID
			r.Language = string(n.symbol.Language)
		}
		switch n.parent {
		case noNode:
			r.Root = store.RootModules
		case h.articles:
			r.Root = store.RootArticles
		case h.tutorials:
			r.Root = store.RootTutorials
		case h.tutorialOverviews:
			r.Root = store.RootTutorialOverviews
		default:
			parentID := rowID(n.parent)
			r.ParentID = &parentID
		}
		rows = append(rows, r)
	}

	if err := s.InsertNodes(rows); err != nil {
		return fmt.Errorf("doclink: save: %w", err)
	}
	return nil
}

func (h *Hierarchy) isContainer(id NodeID) bool {
	return id == h.articles || id == h.tutorials || id == h.tutorialOverviews
}

func rowID(id NodeID) int64 {
	return int64(id) + 1
}
