package model

import (
	"encoding/json"
	"time"
)

// MaxProductNameLength bounds product names, matching the column width.
const MaxProductNameLength = 100

// Product represents a product in the catalogue. CategoryID is nil only
// after the referenced category was removed under the cascade-detach
// deletion policy.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	PCode       string    `json:"pcode,omitempty" db:"pcode"`
	CategoryID  *string   `json:"categoryId" db:"category_id"`
	Description string    `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Category is hydrated on reads that join the category table.
	// Nil when the product is uncategorised.
	Category *Category `json:"category,omitempty" db:"-"`
}

// CanonicalURL returns the computed path identifying this product.
// It is derived from the ID and never stored.
func (p Product) CanonicalURL() string {
	return "/catalog/product/" + p.ID
}

// MarshalJSON includes the canonical URL alongside the stored fields.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		URL string `json:"url"`
	}{alias(p), p.CanonicalURL()})
}

// ProductInput is the raw field mapping submitted to the validation
// pipeline for product create and update requests. Price carries the
// raw string from the form or JSON body; the price rule parses it.
type ProductInput struct {
	Name        string `json:"name"`
	PCode       string `json:"pcode"`
	CategoryID  string `json:"categoryId"`
	Description string `json:"description"`
	Price       string `json:"price"`
}
