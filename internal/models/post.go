package models

import "time"

// Post is a single authored text post. The Author fields are filled from a
// join with users and are not columns of the posts table.
type Post struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	Title           string    `db:"title"`
	Content         string    `db:"content"`
	DatePosted      time.Time `db:"date_posted"`
	AuthorUsername  string    `db:"author_username"`
	AuthorImageFile string    `db:"author_image_file"`
}

// OwnedBy reports whether the post was written by the given user.
func (p *Post) OwnedBy(userID int64) bool {
	return p != nil && userID != 0 && p.UserID == userID
}
