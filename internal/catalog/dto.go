package catalog

// VolumesResponse represents a volume list from the books API. The
// items array is omitted entirely for queries with no results.
type VolumesResponse struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume represents a single catalog volume
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo carries the descriptive metadata of a volume. Most fields
// are optional on the wire; absent numerics decode to zero values and
// AverageRating stays nil.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors,omitempty"`
	Publisher           string               `json:"publisher,omitempty"`
	PublishedDate       string               `json:"publishedDate,omitempty"`
	Description         string               `json:"description,omitempty"`
	PageCount           int                  `json:"pageCount,omitempty"`
	Categories          []string             `json:"categories,omitempty"`
	AverageRating       *float64             `json:"averageRating,omitempty"`
	ImageLinks          *ImageLinks          `json:"imageLinks,omitempty"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers,omitempty"`
}

// ImageLinks contains cover image URLs by size
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

// IndustryIdentifier is one type/identifier pair ("ISBN_10", "ISBN_13")
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}
