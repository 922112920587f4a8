package entity

import "slices"

// Product is the catalog entry shown on the landing page.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
}

func (p Product) HasColor(c string) bool { return slices.Contains(p.Colors, c) }
func (p Product) HasSize(s string) bool  { return slices.Contains(p.Sizes, s) }

// Snapshot copies the catalog fields an order keeps.
func (p Product) Snapshot(v Variant, quantity int) ProductSnapshot {
	return ProductSnapshot{
		Name:     p.Name,
		Price:    p.Price,
		Variant:  v,
		Quantity: quantity,
	}
}
