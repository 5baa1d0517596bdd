package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes returns the application router.
func (app *App) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: app.InfoLog, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(app.ResolveActor)

	r.NotFound(app.notFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		app.RenderErrorPage(w, r, http.StatusMethodNotAllowed, "")
	})

	r.Get("/", app.HomePage)
	r.Get("/home", app.HomePage)
	r.Get("/about", app.AboutPage)
	r.Get("/register", app.RegisterPage)
	r.Post("/register", app.Register)
	r.Get("/login", app.LoginPage)
	r.Post("/login", app.Login)
	r.Get("/user/{username}", app.UserPostsPage)
	r.Get("/post/{id:[0-9]+}", app.PostDetailPage)

	r.Group(func(r chi.Router) {
		r.Use(app.RequireAuth)
		r.Get("/logout", app.Logout)
		r.Get("/account", app.AccountPage)
		r.Get("/post/new", app.CreatePostPage)
		r.Post("/post/new", app.CreatePost)
		r.Post("/post/{id:[0-9]+}/delete", app.DeletePost)
	})

	return r
}
