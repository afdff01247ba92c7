package models

// Customer holds the contact details sent with an order.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Tel     string `json:"tel"`
	Address string `json:"address"`
}

// Merge overlays the non-empty fields of other onto c.
func (c Customer) Merge(other Customer) Customer {
	if other.Name != "" {
		c.Name = other.Name
	}
	if other.Email != "" {
		c.Email = other.Email
	}
	if other.Tel != "" {
		c.Tel = other.Tel
	}
	if other.Address != "" {
		c.Address = other.Address
	}
	return c
}
