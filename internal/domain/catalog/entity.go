// internal/domain/catalog/entity.go
package catalog

import "time"

// Product is a catalog entry as the backend reports it.
type Product struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category is a catalog category.
type Category struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Image      string `json:"image,omitempty"`
}

// ProductCreate is the admin payload for a new product.
type ProductCreate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	Featured    bool     `json:"featured"`
}

// ProductUpdate is the admin payload for a partial update. Nil fields
// are left unchanged.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Images      []string `json:"images,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Featured    *bool    `json:"featured,omitempty"`
}

// ListOptions filters a product listing.
type ListOptions struct {
	Category string
	Search   string
	Featured bool
}
