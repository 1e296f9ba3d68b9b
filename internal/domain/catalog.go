package domain

import "time"

type CatalogItem struct {
	ID           string    `json:"id"`
	ProviderID   string    `json:"providerId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	PriceDefault float64   `json:"priceDefault"`
	Currency     string    `json:"currency"`
	Category     string    `json:"category"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}
