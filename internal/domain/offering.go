package domain

// Offering is a dated, quantity-limited sale instance of a CatalogItem.
// ItemName and ItemImageURL are snapshots taken at creation time, so later
// catalog edits do not rewrite offering history.
type Offering struct {
	ID                string  `json:"id"`
	ItemID            string  `json:"itemId"`
	ProviderID        string  `json:"providerId"`
	ItemName          string  `json:"itemName"`
	ItemImageURL      string  `json:"itemImageUrl,omitempty"`
	Price             float64 `json:"price"`
	QuantityTotal     int64   `json:"quantityTotal"`
	QuantityRemaining int64   `json:"quantityRemaining"`
	Date              string  `json:"date"`
	IsActive          bool    `json:"isActive"`
}

// SoldOut reports whether new reservations must be rejected, regardless of
// the active flag.
func (o *Offering) SoldOut() bool {
	return o.QuantityRemaining <= 0
}

func (o *Offering) CanReserve() bool {
	return o.IsActive && !o.SoldOut()
}
