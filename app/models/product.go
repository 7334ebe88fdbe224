package models

import "time"

// Product is a catalogue item as returned by every storage backend.
type Product struct {
	ID          ID        `json:"id"`
	Name        string    `json:"nome"`
	Description string    `json:"descricao"`
	Price       float64   `json:"preco"`
	Quantity    int       `json:"quantidade"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductFields are the attributes a client may change. Identity and the
// creation timestamp are never part of an update.
type ProductFields struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
}

// Fields returns the mutable part of p.
func (p Product) Fields() ProductFields {
	return ProductFields{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
	}
}
