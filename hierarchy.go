package doclink

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
)

// Sentinel errors for hierarchy population.
var (
	// ErrInvalidParent is returned when a node is added under a NodeID that
	// doesn't exist in the hierarchy.
	ErrInvalidParent = errors.New("invalid parent node")

	// ErrInvalidSymbol is returned when a symbol is missing its kind or
	// precise identifier.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Language is the interface language a symbol is declared in.
type Language string

const (
	// LanguageSwift is Swift.
	LanguageSwift Language = "swift"
	// LanguageObjectiveC is Objective-C.
	LanguageObjectiveC Language = "occ"
	// LanguageData is a data or REST API description.
	LanguageData Language = "data"
)

// PrimaryLanguage is preferred when language variants of the same symbol collide.
const PrimaryLanguage = LanguageSwift

// ParseLanguage maps a language identifier to a Language. "objc" is accepted
// as an alias for Objective-C.
func ParseLanguage(s string) (Language, error) {
	switch s {
	case "swift":
		return LanguageSwift, nil
	case "occ", "objc", "objective-c":
		return LanguageObjectiveC, nil
	case "data":
		return LanguageData, nil
	}
	return "", fmt.Errorf("unknown interface language %q", s)
}

// Symbol identifies the symbol a node documents.
type Symbol struct {
	Kind      string
	PreciseID string
	Language  Language
}

// Hash returns the disambiguation hash of the symbol's precise identifier.
func (s Symbol) Hash() string {
	return StableHash(s.PreciseID)
}

// ResolvedIdentifier is an opaque reference to one node in a Hierarchy.
type ResolvedIdentifier struct {
	id uuid.UUID
}

func newResolvedIdentifier() ResolvedIdentifier {
	return ResolvedIdentifier{id: uuid.New()}
}

// IsZero reports whether r refers to no node.
func (r ResolvedIdentifier) IsZero() bool {
	return r.id == uuid.Nil
}

func (r ResolvedIdentifier) String() string {
	return r.id.String()
}

// NodeID addresses a node in the hierarchy's arena. It is only meaningful
// for the Hierarchy that issued it.
type NodeID int32

const noNode NodeID = -1

// Node is a read-only view of a hierarchy node.
type Node struct {
	Identifier ResolvedIdentifier // zero for nodes that can't be linked to
	Name       string
	Symbol     *Symbol // nil for articles, tutorials and containers
	Disfavored bool
}

type node struct {
	name       string
	symbol     *Symbol
	identifier ResolvedIdentifier
	parent     NodeID
	children   map[string]*disambiguationContainer
	disfavored bool
}

// NodeOption adjusts a node as it is added.
type NodeOption func(*nodeOptions)

type nodeOptions struct {
	disfavored bool
	unfindable bool
}

// Disfavored marks a node as the losing side of a link collision, for
// example a deprecated overload.
func Disfavored() NodeOption {
	return func(o *nodeOptions) { o.disfavored = true }
}

// Unfindable gives a node no identifier, so links that match it fail.
func Unfindable() NodeOption {
	return func(o *nodeOptions) { o.unfindable = true }
}

// Hierarchy is the tree of linkable documentation elements.
//
// Population (the Add methods) and lookup (Find) must not overlap. Once
// populated, a Hierarchy is read-only and Find is safe for concurrent use.
type Hierarchy struct {
	nodes   []node
	modules map[string]NodeID
	lookup  map[ResolvedIdentifier]NodeID

	bundleName        string
	articles          NodeID
	tutorials         NodeID
	tutorialOverviews NodeID

	primaryLanguage Language
	logger          *slog.Logger
	metrics         bool
}

// Option configures a Hierarchy.
type Option func(*Hierarchy)

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hierarchy) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithPrimaryLanguage overrides PrimaryLanguage for this hierarchy.
func WithPrimaryLanguage(lang Language) Option {
	return func(h *Hierarchy) {
		h.primaryLanguage = lang
	}
}

// WithMetrics controls whether Find records Prometheus metrics (default true).
func WithMetrics(enabled bool) Option {
	return func(h *Hierarchy) {
		h.metrics = enabled
	}
}

// NewHierarchy creates an empty hierarchy. The article container is named
// after the documentation bundle.
func NewHierarchy(bundleName string, opts ...Option) *Hierarchy {
	h := &Hierarchy{
		modules:         make(map[string]NodeID),
		lookup:          make(map[ResolvedIdentifier]NodeID),
		bundleName:      bundleName,
		primaryLanguage: PrimaryLanguage,
		logger:          slog.New(slog.DiscardHandler),
		metrics:         true,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.articles = h.newNode(bundleName, nil, noNode, nodeOptions{})
	h.tutorials = h.newNode(tutorialsRoot, nil, noNode, nodeOptions{})
	// Tutorial overviews are only reachable through their children.
	h.tutorialOverviews = h.newNode(tutorialsRoot, nil, noNode, nodeOptions{unfindable: true})
	return h
}

// BundleName returns the name of the article container.
func (h *Hierarchy) BundleName() string {
	return h.bundleName
}

// PrimaryLanguage returns the language preferred in same-symbol collisions.
func (h *Hierarchy) PrimaryLanguage() Language {
	return h.primaryLanguage
}

// ArticlesRoot returns the container that articles are added under.
func (h *Hierarchy) ArticlesRoot() NodeID { return h.articles }

// TutorialsRoot returns the container that tutorials are added under.
func (h *Hierarchy) TutorialsRoot() NodeID { return h.tutorials }

// TutorialOverviewsRoot returns the container that tutorial overviews are added under.
func (h *Hierarchy) TutorialOverviewsRoot() NodeID { return h.tutorialOverviews }

func (h *Hierarchy) newNode(name string, symbol *Symbol, parent NodeID, o nodeOptions) NodeID {
	id := NodeID(len(h.nodes))
	n := node{
		name:       name,
		symbol:     symbol,
		parent:     parent,
		children:   make(map[string]*disambiguationContainer),
		disfavored: o.disfavored,
	}
	if !o.unfindable {
		n.identifier = newResolvedIdentifier()
		h.lookup[n.identifier] = id
	}
	h.nodes = append(h.nodes, n)
	return id
}

func (h *Hierarchy) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(h.nodes)
}

// AddModule adds a top-level module, or returns the existing one with that name.
func (h *Hierarchy) AddModule(name string, lang Language) NodeID {
	if id, ok := h.modules[name]; ok {
		return id
	}
	id := h.newNode(name, &Symbol{Kind: "module", PreciseID: name, Language: lang}, noNode, nodeOptions{})
	h.modules[name] = id
	return id
}

// AddSymbol adds a symbol under parent. A symbol with the same name, kind and
// precise identifier as an existing sibling is another language variant of it
// and shares that node; the primary language's variant supplies the symbol data.
func (h *Hierarchy) AddSymbol(parent NodeID, name string, symbol Symbol, opts ...NodeOption) (NodeID, error) {
	if symbol.Kind == "" || symbol.PreciseID == "" {
		return noNode, fmt.Errorf("add symbol %q: %w", name, ErrInvalidSymbol)
	}
	if !IsKnownKind(symbol.Kind) {
		return noNode, fmt.Errorf("add symbol %q: unknown kind %q: %w", name, symbol.Kind, ErrInvalidSymbol)
	}
	return h.addChild(parent, name, &symbol, opts)
}

// AddPage adds a non-symbol node under parent.
func (h *Hierarchy) AddPage(parent NodeID, name string, opts ...NodeOption) (NodeID, error) {
	return h.addChild(parent, name, nil, opts)
}

// AddPlaceholder adds an unfindable non-symbol node, used to stand in for
// missing ancestors so their descendants stay reachable.
func (h *Hierarchy) AddPlaceholder(parent NodeID, name string) (NodeID, error) {
	return h.addChild(parent, name, nil, []NodeOption{Unfindable()})
}

// AddArticle adds an article to the article container.
func (h *Hierarchy) AddArticle(name string, opts ...NodeOption) NodeID {
	id, _ := h.addChild(h.articles, name, nil, opts)
	return id
}

// AddTutorial adds a tutorial to the tutorials container.
func (h *Hierarchy) AddTutorial(name string, opts ...NodeOption) NodeID {
	id, _ := h.addChild(h.tutorials, name, nil, opts)
	return id
}

// AddTutorialOverview adds a tutorial overview page.
func (h *Hierarchy) AddTutorialOverview(name string, opts ...NodeOption) NodeID {
	id, _ := h.addChild(h.tutorialOverviews, name, nil, opts)
	return id
}

func (h *Hierarchy) addChild(parent NodeID, name string, symbol *Symbol, opts []NodeOption) (NodeID, error) {
	if !h.valid(parent) {
		return noNode, fmt.Errorf("add %q: %w", name, ErrInvalidParent)
	}
	var o nodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	kind, hash := nonSymbolKey, nonSymbolKey
	if symbol != nil {
		kind, hash = symbol.Kind, symbol.Hash()
	}

	container, ok := h.nodes[parent].children[name]
	if !ok {
		container = newDisambiguationContainer()
		h.nodes[parent].children[name] = container
	}
	if existing, ok := container.get(kind, hash); ok {
		if symbol != nil && symbol.Language == h.primaryLanguage {
			h.nodes[existing].symbol = symbol
		}
		return existing, nil
	}

	id := h.newNode(name, symbol, parent, o)
	container.add(kind, hash, id)
	return id, nil
}

// Identifier returns the resolved identifier of an arena node.
func (h *Hierarchy) Identifier(id NodeID) (ResolvedIdentifier, bool) {
	if !h.valid(id) || h.nodes[id].identifier.IsZero() {
		return ResolvedIdentifier{}, false
	}
	return h.nodes[id].identifier, true
}

// Node returns the node a resolved identifier refers to.
func (h *Hierarchy) Node(id ResolvedIdentifier) (Node, bool) {
	n, ok := h.lookup[id]
	if !ok {
		return Node{}, false
	}
	return h.view(n), true
}

// Parent returns the parent of the node id refers to. Roots have no parent.
func (h *Hierarchy) Parent(id ResolvedIdentifier) (Node, bool) {
	n, ok := h.lookup[id]
	if !ok || h.nodes[n].parent == noNode {
		return Node{}, false
	}
	return h.view(h.nodes[n].parent), true
}

// Modules returns the names of all top-level modules, sorted.
func (h *Hierarchy) Modules() []string {
	names := make([]string, 0, len(h.modules))
	for name := range h.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of nodes, including the three fixed containers.
func (h *Hierarchy) Len() int {
	return len(h.nodes)
}

func (h *Hierarchy) view(id NodeID) Node {
	n := &h.nodes[id]
	v := Node{
		Identifier: n.identifier,
		Name:       n.name,
		Disfavored: n.disfavored,
	}
	if n.symbol != nil {
		sym := *n.symbol
		v.Symbol = &sym
	}
	return v
}

// matches reports whether the node is what component names.
func (h *Hierarchy) matches(id NodeID, c PathComponent) bool {
	n := &h.nodes[id]
	if n.symbol == nil {
		return n.name == c.Full
	}
	return n.name == c.Name &&
		(c.Kind == "" || c.Kind == n.symbol.Kind) &&
		(c.Hash == "" || c.Hash == n.symbol.Hash())
}

// anyChildMatches reports whether the node has children named by component.
func (h *Hierarchy) anyChildMatches(id NodeID, c PathComponent) bool {
	children := h.nodes[id].children
	if _, ok := children[c.Name]; ok {
		return true
	}
	_, ok := children[c.Full]
	return ok
}

func (h *Hierarchy) preciseID(id NodeID) string {
	if sym := h.nodes[id].symbol; sym != nil {
		return sym.PreciseID
	}
	return ""
}
