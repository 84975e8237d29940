package cache

// Keyer derives cache keys. Keys embed a hash of every option that changes
// the cached value, so entries for different options never collide.
type Keyer interface {
	// ValidationKey is the key of a validation result for a document.
	ValidationKey(docHash string, opts ValidationKeyOpts) string
	// ArtifactKey is the key of a rendered artifact for a document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// ValidationKeyOpts are the validator options that affect its result.
type ValidationKeyOpts struct {
	Strict             bool    `json:"strict"`
	Sanitize           bool    `json:"sanitize"`
	AllowCustomRegions bool    `json:"allow_custom_regions"`
	Min                float64 `json:"min"`
	Max                float64 `json:"max"`
	Precision          int     `json:"precision"`
}

// ArtifactKeyOpts are the render options that affect an artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	AspectRatio string  `json:"aspect_ratio,omitempty"`
	Rescale     bool    `json:"rescale,omitempty"`
	Optimize    bool    `json:"optimize,omitempty"`
	Background  string  `json:"background,omitempty"`
	Title       string  `json:"title,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ValidationKey returns "validation:<hash>".
func (DefaultKeyer) ValidationKey(docHash string, opts ValidationKeyOpts) string {
	return hashKey("validation", docHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, docHash, opts)
}

var _ Keyer = DefaultKeyer{}
