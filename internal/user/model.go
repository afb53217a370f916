package user

import "time"

// User represents a registered member. Credentials live in the auth
// service; only identity and display fields are stored here.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
