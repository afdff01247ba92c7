package models

// Product is a catalogue entry as returned by the store API. The client only
// displays it.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Unit        string   `json:"unit"`
	OriginPrice int      `json:"origin_price"`
	Price       int      `json:"price"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	IsEnabled   int      `json:"is_enabled"`
	ImageURL    string   `json:"imageUrl"`
	ImagesURL   []string `json:"imagesUrl,omitempty"`
}

// OnSale reports whether the product is discounted against its origin price.
func (p Product) OnSale() bool {
	return p.OriginPrice > 0 && p.Price < p.OriginPrice
}

// Pagination, the paging block that accompanies a product list.
type Pagination struct {
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	HasPre      bool   `json:"has_pre"`
	HasNext     bool   `json:"has_next"`
	Category    string `json:"category"`
}
