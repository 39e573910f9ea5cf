package model

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Slugify derives a URL-safe slug from a category name: lowercase, with
// whitespace runs collapsed to single hyphens. It is recomputed on every
// save so the slug never drifts from the name.
func Slugify(name string) string {
	return whitespaceRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Category represents a product category in the catalogue.
type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Slug        string    `json:"slug" db:"slug"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CanonicalURL returns the computed path identifying this category.
// It is derived from the ID and never stored.
func (c Category) CanonicalURL() string {
	return "/catalog/category/" + c.ID
}

// MarshalJSON includes the canonical URL alongside the stored fields.
func (c Category) MarshalJSON() ([]byte, error) {
	type alias Category
	return json.Marshal(struct {
		alias
		URL string `json:"url"`
	}{alias(c), c.CanonicalURL()})
}

// CategoryInput is the raw field mapping submitted to the validation
// pipeline for category create and update requests.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryDetail is the composite read of a category and all products
// referencing it.
type CategoryDetail struct {
	Category Category  `json:"category"`
	Products []Product `json:"products"`
}

// CategoryDeletion reports the outcome of a category delete request.
// Under the guard policy a delete may be blocked by referencing
// products, in which case nothing was deleted and BlockedBy lists
// exactly the products preventing it. Under the cascade-detach policy
// Detached counts the products whose category reference was cleared.
type CategoryDeletion struct {
	Deleted   bool      `json:"deleted"`
	Detached  int64     `json:"detachedProducts,omitempty"`
	BlockedBy []Product `json:"blockedBy,omitempty"`
}
