package entity

// ToolDescriptor is the content of a tool's metadata.json.
type ToolDescriptor struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     Category     `json:"category"`
	Description  string       `json:"description"`
	Author       string       `json:"author"`
	Version      string       `json:"version"`
	Tags         []string     `json:"tags"`
	Featured     *bool        `json:"featured,omitempty"`
	Files        ToolFiles    `json:"files"`
	Installation Installation `json:"installation"`
	Repository   *Repository  `json:"repository,omitempty"`
}

type ToolFiles struct {
	Main       string   `json:"main"`
	Additional []string `json:"additional,omitzero"`
}

type Installation struct {
	TargetDir    string  `json:"targetDir"`
	Instructions *string `json:"instructions,omitempty"`
}

type Repository struct {
	URL   *string  `json:"url,omitempty"`
	Stars *float64 `json:"stars,omitempty"`
	Forks *float64 `json:"forks,omitempty"`
}

// IsFeatured reports whether the descriptor sets featured to true. An absent
// flag means not featured.
func (d *ToolDescriptor) IsFeatured() bool {
	return d.Featured != nil && *d.Featured
}

// Stars returns repository.stars or 0 when either is absent. Any JSON number
// is accepted, fractional counts included.
func (d *ToolDescriptor) Stars() float64 {
	if d.Repository == nil || d.Repository.Stars == nil {
		return 0
	}

	return *d.Repository.Stars
}
