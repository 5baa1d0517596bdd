package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/microblog/app/internal/database"
	"github.com/microblog/app/internal/models"
)

// HomePage lists every post, newest first.
func (app *App) HomePage(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		app.notFound(w, r)
		return
	}
	posts, err := database.ListPosts(r.Context(), app.DB, page, app.PerPage)
	if err != nil {
		app.ServerError(w, r, err)
		return
	}
	if outOfRange(posts) {
		app.notFound(w, r)
		return
	}
	app.render(w, r, http.StatusOK, "home.html", &TemplateData{Posts: posts, PageBase: r.URL.Path})
}

// UserPostsPage lists one author's posts.
func (app *App) UserPostsPage(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		app.notFound(w, r)
		return
	}
	author, err := database.GetUserByUsername(r.Context(), app.DB, chi.URLParam(r, "username"))
	if errors.Is(err, database.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.ServerError(w, r, err)
		return
	}
	posts, err := database.ListPostsByUser(r.Context(), app.DB, author.ID, page, app.PerPage)
	if err != nil {
		app.ServerError(w, r, err)
		return
	}
	if outOfRange(posts) {
		app.notFound(w, r)
		return
	}
	app.render(w, r, http.StatusOK, "user_posts.html", &TemplateData{
		Title:    author.Username,
		Author:   author,
		Posts:    posts,
		PageBase: "/user/" + url.PathEscape(author.Username),
	})
}

// AboutPage renders the static about page.
func (app *App) AboutPage(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "about.html", &TemplateData{Title: "About"})
}

// pageParam reads ?page=. A missing or non-numeric value means page 1;
// a page below 1 is rejected.
func pageParam(r *http.Request) (int, bool) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1, true
	}
	return page, page >= 1
}

// outOfRange reports a page past the end. The first page is always valid
// so an empty feed still renders.
func outOfRange(p *models.PostPage) bool {
	return p.Page > 1 && len(p.Items) == 0
}
