package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/microblog/app/internal/models"
)

const postSelect = `SELECT p.id, p.user_id, p.title, p.content, p.date_posted,
		u.username AS author_username, u.image_file AS author_image_file
	FROM posts p
	JOIN users u ON p.user_id = u.id`

// Newest first; id breaks ties between posts stored in the same instant.
const postOrder = " ORDER BY p.date_posted DESC, p.id DESC"

// CreatePost inserts a post owned by post.UserID. DatePosted is assigned here.
func CreatePost(ctx context.Context, q sqlx.ExtContext, post *models.Post) (*models.Post, error) {
	var id int64
	query := q.Rebind(`INSERT INTO posts (title, content, date_posted, user_id)
		VALUES (?, ?, ?, ?) RETURNING id`)
	err := sqlx.GetContext(ctx, q, &id, query, post.Title, post.Content, time.Now().UTC(), post.UserID)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return GetPostByID(ctx, q, id)
}

// GetPostByID retrieves a post together with its author's display fields.
func GetPostByID(ctx context.Context, q sqlx.ExtContext, id int64) (*models.Post, error) {
	post := &models.Post{}
	if err := sqlx.GetContext(ctx, q, post, q.Rebind(postSelect+" WHERE p.id = ?"), id); err != nil {
		return nil, notFound(err, "get post")
	}
	return post, nil
}

// DeletePost removes a post permanently. Ownership is the caller's concern.
func DeletePost(ctx context.Context, q sqlx.ExtContext, id int64) error {
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM posts WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPosts returns one page of the global feed. page is 1-based.
func ListPosts(ctx context.Context, q sqlx.ExtContext, page, perPage int) (*models.PostPage, error) {
	result := &models.PostPage{Page: page, PerPage: perPage}
	if err := sqlx.GetContext(ctx, q, &result.Total, "SELECT COUNT(*) FROM posts"); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	query := q.Rebind(postSelect + postOrder + " LIMIT ? OFFSET ?")
	if err := sqlx.SelectContext(ctx, q, &result.Items, query, perPage, offset(page, perPage)); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return result, nil
}

// ListPostsByUser returns one page of a single author's posts.
func ListPostsByUser(ctx context.Context, q sqlx.ExtContext, userID int64, page, perPage int) (*models.PostPage, error) {
	result := &models.PostPage{Page: page, PerPage: perPage}
	total, err := CountPostsByUser(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	result.Total = total
	query := q.Rebind(postSelect + " WHERE p.user_id = ?" + postOrder + " LIMIT ? OFFSET ?")
	if err := sqlx.SelectContext(ctx, q, &result.Items, query, userID, perPage, offset(page, perPage)); err != nil {
		return nil, fmt.Errorf("list posts for user %d: %w", userID, err)
	}
	return result, nil
}

// CountPostsByUser returns how many posts the user has written.
func CountPostsByUser(ctx context.Context, q sqlx.ExtContext, userID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, q.Rebind("SELECT COUNT(*) FROM posts WHERE user_id = ?"), userID); err != nil {
		return 0, fmt.Errorf("count posts for user %d: %w", userID, err)
	}
	return n, nil
}

func offset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}
