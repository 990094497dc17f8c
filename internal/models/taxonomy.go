package models

// TaxonomyEntry is one reference category, e.g. "Apparel > Shirts > Polo Shirts".
type TaxonomyEntry struct {
	ID         int64   `json:"id"`
	TaxonomyID *string `json:"taxonomy_id"`
	Path       string  `json:"path"`
	Label      string  `json:"label"`
}
