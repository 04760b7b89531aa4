package store

// Root names for top-level rows (ParentID == nil).
const (
	RootModules           = "modules"
	RootArticles          = "articles"
	RootTutorials         = "tutorials"
	RootTutorialOverviews = "tutorial_overviews"
)

// MetadataBundleName is the metadata key holding the documentation bundle name.
const MetadataBundleName = "bundle_name"

// NodeRow is one persisted hierarchy node. Rows without a parent sit
// directly under the root named by Root. Kind is empty for non-symbol nodes.
type NodeRow struct {
	ID         int64
	ParentID   *int64
	Root       string
	Name       string
	Kind       string
	PreciseID  string
	Language   string
	Disfavored bool
	Findable   bool
}
