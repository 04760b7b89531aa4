package doclink

import (
	"path/filepath"
	"testing"

	"github.com/jward/doclink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveFixture(t *testing.T, h *Hierarchy) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "hierarchy.db")
	s, err := store.NewStore(dbPath)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate())
	require.NoError(t, Save(h, s))
	return dbPath
}

func TestSaveOpen_RoundTrip(t *testing.T) {
	t.Parallel()
	f := newKitFixture(t)
	dbPath := saveFixture(t, f.h)

	loaded, err := Open(dbPath, WithMetrics(false))
	require.NoError(t, err)

	assert.Equal(t, "KitDocs", loaded.BundleName())
	assert.Equal(t, f.h.Len(), loaded.Len())
	assert.Equal(t, f.h.Modules(), loaded.Modules())
	assert.Equal(t, f.h.Paths(), loaded.Paths())

	for _, p := range loaded.Paths() {
		_, err := loaded.Find(p, nil, false)
		assert.NoError(t, err, p)
	}
}

func TestSaveOpen_PreservesFlags(t *testing.T) {
	t.Parallel()
	f := newKitFixture(t)
	loaded, err := Open(saveFixture(t, f.h), WithMetrics(false))
	require.NoError(t, err)

	// Disfavored overloads still lose the collision.
	id, err := loaded.Find("Kit/Widget/resize(_:)", nil, false)
	require.NoError(t, err)
	p, _ := loaded.Path(id)
	assert.Equal(t, "/documentation/Kit/Widget/resize(_:)-"+StableHash("s:3Kit6WidgetV6resizeyySiF"), p)

	_, err = loaded.Find("Kit/Internal", nil, false)
	var unfindable *UnfindableMatchError
	assert.ErrorAs(t, err, &unfindable)

	id, err = loaded.Find("Kit/Gadget-class", nil, false)
	require.NoError(t, err)
	n, ok := loaded.Node(id)
	require.True(t, ok)
	assert.Equal(t, LanguageObjectiveC, n.Symbol.Language)
}

func TestSave_Rows(t *testing.T) {
	t.Parallel()
	h := NewHierarchy("Docs", WithMetrics(false))
	kit := h.AddModule("Kit", LanguageSwift)
	mustAddSymbol(t, h, kit, "Widget", Symbol{Kind: "struct", PreciseID: "s:3Kit6WidgetV", Language: LanguageSwift})
	h.AddArticle("GettingStarted")
	h.AddTutorial("BuildingWidgets")
	h.AddTutorialOverview("KitTutorials")

	dbPath := filepath.Join(t.TempDir(), "hierarchy.db")
	s, err := store.NewStore(dbPath)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate())
	require.NoError(t, Save(h, s))

	rows, err := s.Nodes()
	require.NoError(t, err)
	require.Len(t, rows, 5, "containers aren't stored")

	byName := make(map[string]*store.NodeRow)
	for _, r := range rows {
		byName[r.Name] = r
	}
	assert.Equal(t, store.RootModules, byName["Kit"].Root)
	assert.Equal(t, "module", byName["Kit"].Kind)
	require.NotNil(t, byName["Widget"].ParentID)
	assert.Equal(t, byName["Kit"].ID, *byName["Widget"].ParentID)
	assert.Equal(t, "s:3Kit6WidgetV", byName["Widget"].PreciseID)
	assert.Equal(t, store.RootArticles, byName["GettingStarted"].Root)
	assert.Equal(t, store.RootTutorials, byName["BuildingWidgets"].Root)
	assert.Equal(t, store.RootTutorialOverviews, byName["KitTutorials"].Root)
	assert.Empty(t, byName["KitTutorials"].Kind)

	bundle, err := s.GetMetadata(store.MetadataBundleName)
	require.NoError(t, err)
	assert.Equal(t, "Docs", bundle)
}

func TestFromStore_UnknownRoot(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "hierarchy.db")
	s, err := store.NewStore(dbPath)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate())
	require.NoError(t, s.InsertNodes([]*store.NodeRow{{ID: 1, Root: "elsewhere", Name: "Lost", Findable: true}}))

	_, err = FromStore(s)
	assert.ErrorContains(t, err, `unknown root "elsewhere"`)
}

func TestOpen_MissingDirectory(t *testing.T) {
	t.Parallel()
	_, err := Open(filepath.Join(t.TempDir(), "missing", "hierarchy.db"))
	assert.Error(t, err)
}
