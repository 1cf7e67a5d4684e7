package cache

// schemaVersion is mixed into every key. Bump it when the encoded form of a
// cached value changes.
const schemaVersion = 1

// Keyer generates cache keys.
type Keyer interface {
	// CatalogueKey identifies an encoded catalogue.
	CatalogueKey(opts CatalogueKeyOpts) string

	// CaseKey identifies one sampled case.
	CaseKey(opts CaseKeyOpts) string
}

// CatalogueKeyOpts holds the inputs a catalogue depends on. Worker count and
// shape limits are left out: they change how a catalogue is built, not what
// it contains.
type CatalogueKeyOpts struct {
	MaxK         int  `json:"max_k"`
	IncludeHoles bool `json:"include_holes"`
}

// CaseKeyOpts holds the inputs a sampled case depends on.
type CaseKeyOpts struct {
	Catalogue CatalogueKeyOpts `json:"catalogue"`
	Seed      uint64           `json:"seed"`
	MinPick   int              `json:"min_pick"`
	MaxPick   int              `json:"max_pick"`
	MinExp    float64          `json:"min_exp"`
	MaxExp    float64          `json:"max_exp"`
	Orient    bool             `json:"orient"`
}

// DefaultKeyer hashes the options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CatalogueKey returns "catalogue:<sha256>".
func (DefaultKeyer) CatalogueKey(opts CatalogueKeyOpts) string {
	return hashKey("catalogue", schemaVersion, opts)
}

// CaseKey returns "case:<sha256>".
func (DefaultKeyer) CaseKey(opts CaseKeyOpts) string {
	return hashKey("case", schemaVersion, opts)
}
