// Package doclink resolves documentation links against a hierarchy of
// modules, symbols, articles and tutorials.
//
// # Paths
//
// A link path is a "/"-separated list of components such as
//
//	Kit/Widget/draw(in:)-func-1x2y3
//
// Each component may end in a disambiguation suffix: "-kind", "-hash" or
// "-kind-hash", where kind is a symbol kind identifier (optionally prefixed
// with a language, as in "swift.struct") and hash is the [StableHash] of the
// symbol's precise identifier. A leading "/", "documentation", "tutorials" or
// "doc://<bundle>" marks the path as absolute.
//
// # Usage
//
// Populate a [Hierarchy] once, then resolve links against it:
//
//	h := doclink.NewHierarchy("KitDocs")
//	kit := h.AddModule("Kit", doclink.LanguageSwift)
//	_, err := h.AddSymbol(kit, "Widget", doclink.Symbol{Kind: "struct", PreciseID: "s:3Kit6WidgetV"})
//
//	id, err := h.Find("Kit/Widget", nil, false)
//
// [Open] and [Save] move a hierarchy to and from a SQLite snapshot.
//
// # Resolution
//
// [Hierarchy.Find] tries articles, then tutorials, then tutorial overviews,
// then symbols. A relative link with an anchor is searched from the anchor up
// through its ancestors. When a component matches several siblings, the
// resolver narrows the candidates in a fixed order:
//
//  1. one-level lookahead at the next component;
//  2. folding language variants of the same symbol, preferring the
//     primary language;
//  3. the only candidate not marked [Disfavored];
//  4. the only candidate that is (or isn't) a symbol, matching the kind of link.
//
// Anything still ambiguous is a [LookupCollisionError]. All failures are
// [FindError] values carrying the deepest node reached.
package doclink
