package models

import "time"

// CatalogItem is a row of one of the two managed catalogs: academic
// programs and event modalities. Both share the same shape and contract.
type CatalogItem struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CatalogOption is the dropdown form of an active catalog entry.
type CatalogOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CreateCatalogItemRequest carries a new catalog entry.
type CreateCatalogItemRequest struct {
	Name string `json:"name" validate:"required,min=2,max=200"`
}
