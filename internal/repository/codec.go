// Package repository maps domain entities onto docstore collections. All
// cross-entity relationships are string-id back-references resolved by
// equality queries, never native pointers into the store.
package repository

import (
	"encoding/json"
	"fmt"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
)

// Collection names.
const (
	UsersCollection            = "users"
	ProviderProfilesCollection = "providerProfiles"
	CatalogItemsCollection     = "catalogItems"
	OfferingsCollection        = "offerings"
	ReservationsCollection     = "reservations"
	NotificationsCollection    = "notifications"
)

func encodeDoc(entity any) (docstore.Document, error) {
	blob, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("entity encode error: %v", err)
	}
	var doc docstore.Document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("entity encode error: %v", err)
	}
	return doc, nil
}

func decodeDoc(doc docstore.Document, entity any) error {
	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("entity decode error: %v", err)
	}
	if err := json.Unmarshal(blob, entity); err != nil {
		return fmt.Errorf("entity decode error: %v", err)
	}
	return nil
}
