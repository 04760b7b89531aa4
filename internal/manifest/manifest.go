// Package manifest reads YAML descriptions of a documentation bundle's
// hierarchy and populates a doclink.Hierarchy from them.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jward/doclink"
	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest is wrapped by every validation failure.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest describes a documentation bundle: its modules and pages.
type Manifest struct {
	Bundle            string   `yaml:"bundle"`
	Modules           []Module `yaml:"modules"`
	Articles          []string `yaml:"articles"`
	Tutorials         []string `yaml:"tutorials"`
	TutorialOverviews []string `yaml:"tutorialOverviews"`
}

// Module is a top-level module and its symbol tree.
type Module struct {
	Name     string   `yaml:"name"`
	Language string   `yaml:"language"`
	Children []Symbol `yaml:"children"`
}

// Symbol is a symbol entry. An entry without a kind is a placeholder for a
// missing ancestor and can't be linked to.
type Symbol struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	ID         string   `yaml:"id"`
	Language   string   `yaml:"language"`
	Disfavored bool     `yaml:"disfavored"`
	Unfindable bool     `yaml:"unfindable"`
	Children   []Symbol `yaml:"children"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a manifest.
func Parse(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks required fields and languages.
func (m *Manifest) Validate() error {
	if m.Bundle == "" {
		return fmt.Errorf("%w: bundle name is required", ErrInvalidManifest)
	}
	for i, mod := range m.Modules {
		if mod.Name == "" {
			return fmt.Errorf("%w: module %d has no name", ErrInvalidManifest, i)
		}
		if _, err := moduleLanguage(mod); err != nil {
			return fmt.Errorf("%w: module %q: %v", ErrInvalidManifest, mod.Name, err)
		}
		if err := validateSymbols(mod.Name, mod.Children); err != nil {
			return err
		}
	}
	for _, pages := range [][]string{m.Articles, m.Tutorials, m.TutorialOverviews} {
		for _, name := range pages {
			if name == "" {
				return fmt.Errorf("%w: page with empty name", ErrInvalidManifest)
			}
		}
	}
	return nil
}

func validateSymbols(parent string, symbols []Symbol) error {
	for _, sym := range symbols {
		path := parent + "/" + sym.Name
		switch {
		case sym.Name == "":
			return fmt.Errorf("%w: symbol under %q has no name", ErrInvalidManifest, parent)
		case sym.Kind != "" && sym.ID == "":
			return fmt.Errorf("%w: symbol %q has a kind but no id", ErrInvalidManifest, path)
		case sym.Kind != "" && !doclink.IsKnownKind(sym.Kind):
			return fmt.Errorf("%w: symbol %q has unknown kind %q", ErrInvalidManifest, path, sym.Kind)
		}
		if sym.Language != "" {
			if _, err := doclink.ParseLanguage(sym.Language); err != nil {
				return fmt.Errorf("%w: symbol %q: %v", ErrInvalidManifest, path, err)
			}
		}
		if err := validateSymbols(path, sym.Children); err != nil {
			return err
		}
	}
	return nil
}

func moduleLanguage(mod Module) (doclink.Language, error) {
	if mod.Language == "" {
		return doclink.PrimaryLanguage, nil
	}
	return doclink.ParseLanguage(mod.Language)
}

// Build populates a new hierarchy from the manifest.
func (m *Manifest) Build(opts ...doclink.Option) (*doclink.Hierarchy, error) {
	h := doclink.NewHierarchy(m.Bundle, opts...)

	for _, mod := range m.Modules {
		lang, err := moduleLanguage(mod)
		if err != nil {
			return nil, fmt.Errorf("manifest: module %q: %w", mod.Name, err)
		}
		id := h.AddModule(mod.Name, lang)
		if err := addSymbols(h, id, lang, mod.Children); err != nil {
			return nil, fmt.Errorf("manifest: module %q: %w", mod.Name, err)
		}
	}
	for _, name := range m.Articles {
		h.AddArticle(name)
	}
	for _, name := range m.Tutorials {
		h.AddTutorial(name)
	}
	for _, name := range m.TutorialOverviews {
		h.AddTutorialOverview(name)
	}
	return h, nil
}

func addSymbols(h *doclink.Hierarchy, parent doclink.NodeID, inherited doclink.Language, symbols []Symbol) error {
	for _, sym := range symbols {
		lang := inherited
		if sym.Language != "" {
			l, err := doclink.ParseLanguage(sym.Language)
			if err != nil {
				return fmt.Errorf("symbol %q: %w", sym.Name, err)
			}
			lang = l
		}

		var (
			id  doclink.NodeID
			err error
		)
		if sym.Kind == "" {
			id, err = h.AddPlaceholder(parent, sym.Name)
		} else {
			var opts []doclink.NodeOption
			if sym.Disfavored {
				opts = append(opts, doclink.Disfavored())
			}
			if sym.Unfindable {
				opts = append(opts, doclink.Unfindable())
			}
			id, err = h.AddSymbol(parent, sym.Name, doclink.Symbol{Kind: sym.Kind, PreciseID: sym.ID, Language: lang}, opts...)
		}
		if err != nil {
			return err
		}
		if err := addSymbols(h, id, lang, sym.Children); err != nil {
			return err
		}
	}
	return nil
}
