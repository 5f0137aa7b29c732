package domain

import "time"

// DefaultShelfName is the name of the protected shelf every user receives
// at registration. The default shelf can never be renamed or deleted.
const DefaultShelfName = "All Books"

// Shelf is a user-owned named grouping of UserBooks. Shelf names are
// unique per user, compared case-insensitively. Membership is
// many-to-many: a UserBook can sit on any number of shelves.
type Shelf struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`

	// BookCount is the number of member UserBooks, populated on reads.
	BookCount int `json:"book_count"`
}
