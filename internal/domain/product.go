package domain

// ProductRecord holds the structured attributes of a retail product.
// Unknown attributes are always the empty string, never absent, so
// consumers don't have to distinguish missing from empty.
type ProductRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Gender      string `json:"gender"`
	Badge       string `json:"badge"`

	Cost *CostMeta `json:"_meta,omitempty"`
}

// IsEmpty reports whether every product attribute is blank.
func (p ProductRecord) IsEmpty() bool {
	return p.Name == "" && p.Description == "" && p.Price == "" &&
		p.Category == "" && p.Brand == "" && p.Size == "" &&
		p.Color == "" && p.Gender == "" && p.Badge == ""
}
