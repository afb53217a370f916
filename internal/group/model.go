package group

import "time"

// Group represents an expense-sharing group.
type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"join_code"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	// Populated via JOIN
	OwnerName string `json:"owner_name,omitempty"`
}

// Member represents a user's membership in a group.
type Member struct {
	UserID   int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
