package gallery

// Category is one of the four fixed gallery buckets.
type Category string

const (
	CategoryBirds      Category = "birds"
	CategoryWildlife   Category = "wildlife"
	CategoryLandscapes Category = "landscapes"
	CategoryFloraMacro Category = "flora-macro"
)

// Categories returns all valid categories in gallery order.
func Categories() []Category {
	return []Category{CategoryBirds, CategoryWildlife, CategoryLandscapes, CategoryFloraMacro}
}

// Valid reports whether c is one of the fixed gallery categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBirds, CategoryWildlife, CategoryLandscapes, CategoryFloraMacro:
		return true
	}
	return false
}

// idPrefixes maps each category to the singular prefix used in photo IDs,
// e.g. "bird-003".
var idPrefixes = map[Category]string{
	CategoryBirds:      "bird",
	CategoryWildlife:   "wildlife",
	CategoryLandscapes: "landscape",
	CategoryFloraMacro: "flora",
}

// IDPrefix returns the ID prefix for the category ("bird", "landscape", ...).
func (c Category) IDPrefix() string {
	return idPrefixes[c]
}

// LandscapeFilters are the only sub-tags a photo may carry, and only when its
// category is landscapes.
var LandscapeFilters = []string{"mountains", "waterfalls", "cityscapes"}

// ValidFilter reports whether filter is an allowed sub-tag for the category.
// Filters exist only for landscapes.
func ValidFilter(c Category, filter string) bool {
	if c != CategoryLandscapes {
		return false
	}
	for _, f := range LandscapeFilters {
		if f == filter {
			return true
		}
	}
	return false
}

// Photo is a single published portfolio entry. Records are created by the
// merge step and mutated only by the photos management commands or by hand
// edits to the store file; they are never deleted automatically.
type Photo struct {
	ID                string   `yaml:"id"`
	Filename          string   `yaml:"filename"`
	Slug              string   `yaml:"slug"`
	Category          Category `yaml:"category"`
	Filters           []string `yaml:"filters,omitempty"`
	Species           string   `yaml:"species,omitempty"`
	Location          string   `yaml:"location,omitempty"`
	Title             string   `yaml:"title"`
	Description       string   `yaml:"description"`
	InstagramCaption  string   `yaml:"instagram_caption,omitempty"`
	DateTaken         string   `yaml:"date_taken,omitempty"`
	AvailableForPrint bool     `yaml:"available_for_print"`
	CloudinaryID      string   `yaml:"cloudinary_id,omitempty"`
	Width             int      `yaml:"width,omitempty"`
	Height            int      `yaml:"height,omitempty"`
}
