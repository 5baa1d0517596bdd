package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/microblog/app/internal/auth"
	"github.com/microblog/app/internal/database"
	"github.com/microblog/app/internal/models"
)

const (
	msgContentTooShort = "Post content is too short!"
	msgTitleTooLong    = "Title must be at most 10000 characters."

	maxTitleLength = 10000
)

// CreatePostPage renders the new-post form.
func (app *App) CreatePostPage(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "create_post.html", &TemplateData{Title: "New Post"})
}

// CreatePost stores a post written by the logged-in user.
func (app *App) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.RenderErrorPage(w, r, http.StatusBadRequest, "Error parsing form.")
		return
	}
	actor := auth.ActorFrom(r.Context())
	post := &models.Post{
		UserID:  actor.ID(),
		Title:   r.PostForm.Get("title"),
		Content: r.PostForm.Get("content"),
	}

	var msg string
	switch {
	case utf8.RuneCountInString(post.Content) < 1:
		msg = msgContentTooShort
	case utf8.RuneCountInString(post.Title) > maxTitleLength:
		msg = msgTitleTooLong
	}
	if msg != "" {
		app.render(w, r, http.StatusOK, "create_post.html", &TemplateData{
			Title: "New Post",
			Error: msg,
			Form:  FormValues{Title: post.Title, Content: post.Content},
		})
		return
	}

	created, err := database.CreatePost(r.Context(), app.DB, post)
	if err != nil {
		app.ServerError(w, r, err)
		return
	}
	app.InfoLog.Printf("Post created: ID=%d, Title=%q, Author=%q", created.ID, created.Title, created.AuthorUsername)
	addFlash(w, r, "success", "Post added!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PostDetailPage shows a single post.
func (app *App) PostDetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		app.notFound(w, r)
		return
	}
	post, err := database.GetPostByID(r.Context(), app.DB, id)
	if errors.Is(err, database.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.ServerError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "post.html", &TemplateData{
		Title:     post.Title,
		Post:      post,
		CanDelete: post.OwnedBy(auth.ActorFrom(r.Context()).ID()),
	})
}

// DeletePost removes a post owned by the logged-in user. A missing post or
// one owned by someone else is left alone and the user is sent home.
func (app *App) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		app.notFound(w, r)
		return
	}
	actor := auth.ActorFrom(r.Context())
	ctx := r.Context()

	deleted := false
	err := app.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		post, err := database.GetPostByID(ctx, tx, id)
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !post.OwnedBy(actor.ID()) {
			app.InfoLog.Printf("Delete refused: post %d is not owned by user %d", id, actor.ID())
			return nil
		}
		if err := database.DeletePost(ctx, tx, id); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		app.ServerError(w, r, err)
		return
	}
	if deleted {
		app.InfoLog.Printf("Post deleted: ID=%d, Author ID=%d", id, actor.ID())
		addFlash(w, r, "success", "Post deleted successfully.")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
