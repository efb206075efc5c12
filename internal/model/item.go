package model

import "time"

// Item represents a single perishable item owned by one user.
type Item struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Quantity   int       `json:"quantity"`
	ExpiryDate time.Time `json:"expiryDate"`
	Notes      string    `json:"notes"`
	ImageURL   string    `json:"imageUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Derived from ExpiryDate and the current time on every read, never stored.
	Status          string `json:"status,omitempty"`
	DaysUntilExpiry int    `json:"daysUntilExpiry"`
}

// Item types.
const (
	ItemTypeGrocery  = "grocery"
	ItemTypeMedicine = "medicine"
)

// ValidItemType reports whether t is one of the known item types.
func ValidItemType(t string) bool {
	return t == ItemTypeGrocery || t == ItemTypeMedicine
}

// ExpiringItem is an item joined with its owner's contact details,
// as returned by the reminder sweep query.
type ExpiringItem struct {
	Item
	OwnerName  string `json:"-"`
	OwnerEmail string `json:"-"`
}
