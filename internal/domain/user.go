package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

type User struct {
	UID       string    `json:"uid"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProviderProfile is one-to-one with a User whose role is provider.
type ProviderProfile struct {
	ProviderID      string   `json:"providerId"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	FollowersCount  int64    `json:"followersCount"`
	SavedCategories []string `json:"savedCategories,omitempty"`
}
