package models

import "time"

// DefaultImageFile is the profile image every account starts with.
const DefaultImageFile = "default.jpg"

// User represents a user in the system.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	ImageFile    string    `db:"image_file"`
	CreatedAt    time.Time `db:"created_at"`
}
