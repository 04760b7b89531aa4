package doclink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()
	widget := PathComponent{Full: "Widget", Name: "Widget"}
	kit := PathComponent{Full: "Kit", Name: "Kit"}

	tests := []struct {
		name string
		err  FindError
		want string
	}{
		{"empty not found", &NotFoundError{}, "no documentation element matches an empty path"},
		{"not found", &NotFoundError{Remaining: []PathComponent{kit}}, `no top-level documentation element named "Kit"`},
		{
			"unknown name",
			&UnknownNameError{
				PartialResult: PartialResult{Path: []PathComponent{kit}},
				Remaining:     []PathComponent{widget},
			},
			`"Widget" doesn't exist at "/Kit"`,
		},
		{
			"unknown disambiguation",
			&UnknownDisambiguationError{
				PartialResult: PartialResult{Path: []PathComponent{kit}},
				Remaining:     []PathComponent{{Full: "Widget-enum", Name: "Widget", Kind: "enum"}},
				Candidates:    []Candidate{{Disambiguation: "-class"}, {Disambiguation: "-struct"}},
			},
			`"-enum" isn't a disambiguation for "Widget" at "/Kit" (candidates: -class, -struct)`,
		},
		{
			"unknown disambiguation without suffix",
			&UnknownDisambiguationError{
				PartialResult: PartialResult{Path: []PathComponent{kit}},
				Remaining:     []PathComponent{widget},
				Candidates:    []Candidate{{Disambiguation: "-class"}},
			},
			`"Widget" at "/Kit" needs a disambiguation (candidates: -class)`,
		},
		{
			"collision",
			&LookupCollisionError{
				PartialResult: PartialResult{Path: []PathComponent{kit}},
				Remaining:     []PathComponent{widget},
				Collisions:    []Candidate{{Disambiguation: "-class"}, {Disambiguation: "-struct"}},
			},
			`"Widget" is ambiguous at "/Kit" (one of: Widget-class, Widget-struct)`,
		},
		{"unfindable", &UnfindableMatchError{Node: Node{Name: "Internal"}}, `"Internal" matched an element that can't be linked to`},
		{"non-symbol", &NonSymbolMatchError{Path: "Kit/Overview"}, `symbol link "Kit/Overview" matched a page that isn't a symbol`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPartialResult_PathString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/", PartialResult{}.PathString())

	components, _ := ParsePath("/documentation/Kit/Widget-struct")
	assert.Equal(t, "/documentation/Kit/Widget-struct", PartialResult{Path: components}.PathString())
}

func TestNearMisses(t *testing.T) {
	t.Parallel()
	names := []string{"Widget", "Gadget", "widgets", "Shape", "draw()"}

	assert.Equal(t, []string{"Widget", "widgets"}, nearMisses("Widgit", names))
	assert.Equal(t, []string{"Shape"}, nearMisses("shap", names))
	assert.Empty(t, nearMisses("Completely", names))
}

func TestLevenshteinDistance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"Widget", "Widget", 0},
		{"Widgt", "Widget", 1},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshteinDistance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
