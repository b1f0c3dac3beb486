package cache

// SnapshotKeyOpts identifies one layout pass.
type SnapshotKeyOpts struct {
	ConfigHash string  `json:"config"`
	Count      int     `json:"count"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	OffsetY    float64 `json:"offset_y"`
	Exposed    int     `json:"exposed"`
	Moving     int     `json:"moving"`
	// Dragged is set when the moving item was dragged to PointerX/PointerY.
	Dragged  bool    `json:"dragged,omitempty"`
	PointerX float64 `json:"pointer_x,omitempty"`
	PointerY float64 `json:"pointer_y,omitempty"`
	// ItemsHash covers the labels and colors, which a drag reorders.
	ItemsHash string `json:"items,omitempty"`
}

// ArtifactKeyOpts identifies one rendering of a snapshot.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Labels bool    `json:"labels,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// SnapshotKey returns the key of a layout snapshot.
	SnapshotKey(opts SnapshotKeyOpts) string

	// ArtifactKey returns the key of an artifact rendered from the snapshot
	// with the given content hash.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string

	// DeckKey returns the key under which a deck is stored.
	DeckKey(id string) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SnapshotKey hashes every field of opts.
func (DefaultKeyer) SnapshotKey(opts SnapshotKeyOpts) string {
	return hashKey("snapshot", opts)
}

// ArtifactKey hashes the snapshot hash together with the render options.
func (DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", snapshotHash, opts)
}

// DeckKey returns "deck:" followed by id.
func (DefaultKeyer) DeckKey(id string) string {
	return "deck:" + id
}

var _ Keyer = DefaultKeyer{}
