package entity

const (
	// ManifestVersion is the document format version, unrelated to tool versions.
	ManifestVersion = "1.0.0"

	ratingFeatured = 5.0
	ratingDefault  = 4.0
)

// ManifestEntry is a validated descriptor plus the fields derived at load time.
type ManifestEntry struct {
	ToolDescriptor
	LastUpdated string  `json:"lastUpdated"`
	Downloads   float64 `json:"downloads"`
	Rating      float64 `json:"rating"`
}

// NewManifestEntry applies the defaulting rules once: downloads come from
// repository stars and rating from the featured flag.
func NewManifestEntry(desc ToolDescriptor, lastUpdated string) *ManifestEntry {
	rating := ratingDefault
	if desc.IsFeatured() {
		rating = ratingFeatured
	}

	return &ManifestEntry{
		ToolDescriptor: desc,
		LastUpdated:    lastUpdated,
		Downloads:      desc.Stars(),
		Rating:         rating,
	}
}

// Manifest is the aggregated output document.
type Manifest struct {
	Version     string           `json:"version"`
	GeneratedAt string           `json:"generatedAt"`
	TotalTools  int              `json:"totalTools"`
	Tools       []*ManifestEntry `json:"tools"`
	Categories  CategoryCounts   `json:"categories"`
}

// TimestampLayout is used for every timestamp the generator produces itself.
// It matches JavaScript's Date.toISOString for UTC times.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
