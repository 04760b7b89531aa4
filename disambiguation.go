package doclink

import "sort"

// nonSymbolKey is the kind and hash under which non-symbol nodes are stored.
const nonSymbolKey = "_"

// disambiguationContainer holds every child that shares one name, keyed by
// symbol kind and then by symbol hash.
type disambiguationContainer struct {
	storage map[string]map[string]NodeID
}

// candidate pairs a node with the shortest suffix that picks it out of its container.
type candidate struct {
	id             NodeID
	disambiguation string
}

func newDisambiguationContainer() *disambiguationContainer {
	return &disambiguationContainer{storage: make(map[string]map[string]NodeID)}
}

// add stores id under (kind, hash). Callers check get first.
func (c *disambiguationContainer) add(kind, hash string, id NodeID) {
	byHash, ok := c.storage[kind]
	if !ok {
		byHash = make(map[string]NodeID)
		c.storage[kind] = byHash
	}
	byHash[hash] = id
}

// get returns the node stored under exactly (kind, hash).
func (c *disambiguationContainer) get(kind, hash string) (NodeID, bool) {
	id, ok := c.storage[kind][hash]
	return id, ok
}

func (c *disambiguationContainer) count() int {
	n := 0
	for _, byHash := range c.storage {
		n += len(byHash)
	}
	return n
}

// find looks up a child by optional kind and hash. It returns the unique match,
// or noNode with the colliding candidates, or noNode and nil when nothing
// satisfies the disambiguation.
func (c *disambiguationContainer) find(kind, hash string) (NodeID, []candidate) {
	switch {
	case kind != "":
		byHash, ok := c.storage[kind]
		if !ok {
			return noNode, nil
		}
		if hash != "" {
			if id, ok := byHash[hash]; ok {
				return id, nil
			}
			return noNode, nil
		}
		if len(byHash) == 1 {
			for _, id := range byHash {
				return id, nil
			}
		}
		return noNode, c.candidates(func(k, _ string) bool { return k == kind })

	case hash != "":
		var matches []NodeID
		for _, byHash := range c.storage {
			if id, ok := byHash[hash]; ok {
				matches = append(matches, id)
			}
		}
		switch len(matches) {
		case 0:
			return noNode, nil
		case 1:
			return matches[0], nil
		}
		return noNode, c.candidates(func(_, h string) bool { return h == hash })

	default:
		if c.count() == 1 {
			for _, byHash := range c.storage {
				for _, id := range byHash {
					return id, nil
				}
			}
		}
		return noNode, c.disambiguatedValues()
	}
}

// disambiguatedValues returns every entry with its minimal disambiguation
// suffix, sorted by suffix.
func (c *disambiguationContainer) disambiguatedValues() []candidate {
	return c.candidates(func(string, string) bool { return true })
}

// disambiguation returns the minimal suffix for id, or "" if id isn't stored here.
func (c *disambiguationContainer) disambiguation(id NodeID) string {
	for _, cand := range c.disambiguatedValues() {
		if cand.id == id {
			return cand.disambiguation
		}
	}
	return ""
}

func (c *disambiguationContainer) candidates(include func(kind, hash string) bool) []candidate {
	hashCounts := make(map[string]int)
	for _, byHash := range c.storage {
		for hash := range byHash {
			hashCounts[hash]++
		}
	}

	var out []candidate
	for kind, byHash := range c.storage {
		for hash, id := range byHash {
			if !include(kind, hash) {
				continue
			}
			out = append(out, candidate{
				id:             id,
				disambiguation: minimalSuffix(kind, hash, len(byHash), hashCounts[hash]),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].disambiguation != out[j].disambiguation {
			return out[i].disambiguation < out[j].disambiguation
		}
		return out[i].id < out[j].id
	})
	return out
}

func minimalSuffix(kind, hash string, sameKind, sameHash int) string {
	switch {
	case kind == nonSymbolKey:
		return ""
	case sameKind == 1:
		return "-" + kind
	case sameHash == 1:
		return "-" + hash
	default:
		return "-" + kind + "-" + hash
	}
}
