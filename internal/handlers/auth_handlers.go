package handlers

import (
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/microblog/app/internal/auth"
	"github.com/microblog/app/internal/database"
	"github.com/microblog/app/internal/models"
)

const (
	msgUserNotFound      = "User does not exist."
	msgPasswordIncorrect = "Password incorrect."
)

// RegisterPage renders the user registration page.
func (app *App) RegisterPage(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "register.html", &TemplateData{Title: "Register"})
}

// Register handles the registration form. The account and its session are
// created in one transaction; the cookie is only written after commit.
func (app *App) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.RenderErrorPage(w, r, http.StatusBadRequest, "Error parsing form.")
		return
	}
	reg := auth.Registration{
		Username: r.PostForm.Get("username"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
		Confirm:  r.PostForm.Get("confirm_password"),
	}
	app.InfoLog.Printf("Attempting to register user: username=%q email=%q", reg.Username, reg.Email)

	ctx := r.Context()
	var (
		user    *models.User
		session *models.Session
	)
	err := app.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if user, err = auth.Register(ctx, tx, app.Hasher, reg); err != nil {
			return err
		}
		session, err = app.Auth.StartSession(ctx, tx, user.ID, true)
		return err
	})

	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		app.render(w, r, http.StatusOK, "register.html", &TemplateData{
			Title: "Register",
			Error: verr.Message,
			Form:  FormValues{Username: reg.Username, Email: reg.Email},
		})
		return
	case err != nil:
		app.ServerError(w, r, err)
		return
	}

	if err := app.Auth.SetCookie(w, r, session); err != nil {
		app.ServerError(w, r, err)
		return
	}
	app.InfoLog.Printf("Successfully registered user: %q (ID %d)", user.Username, user.ID)
	addFlash(w, r, "success", "Account created!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginPage renders the user login page.
func (app *App) LoginPage(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "login.html", &TemplateData{
		Title: "Login",
		Next:  r.URL.Query().Get("next"),
	})
}

// Login checks the submitted credentials and starts a remembered session.
func (app *App) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.RenderErrorPage(w, r, http.StatusBadRequest, "Error parsing form.")
		return
	}
	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")
	next := r.PostForm.Get("next")

	fail := func(msg string) {
		app.render(w, r, http.StatusOK, "login.html", &TemplateData{
			Title: "Login",
			Error: msg,
			Form:  FormValues{Email: email},
			Next:  next,
		})
	}

	user, err := database.GetUserByEmail(r.Context(), app.DB, email)
	if errors.Is(err, database.ErrNotFound) {
		fail(msgUserNotFound)
		return
	}
	if err != nil {
		app.ServerError(w, r, err)
		return
	}
	if !app.Hasher.Verify(user.PasswordHash, password) {
		app.InfoLog.Printf("Login failed: bad password for user id=%d", user.ID)
		fail(msgPasswordIncorrect)
		return
	}

	if err := app.Auth.Login(r.Context(), w, r, user, true); err != nil {
		app.ServerError(w, r, err)
		return
	}
	app.InfoLog.Printf("Login successful: id=%d, username=%q", user.ID, user.Username)
	addFlash(w, r, "success", "Logged in successfully!")
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// Logout ends the current session.
func (app *App) Logout(w http.ResponseWriter, r *http.Request) {
	if err := app.Auth.Logout(r.Context(), w, r); err != nil {
		app.ErrorLog.Printf("Failed to delete session: %v", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// AccountPage shows the logged-in user's profile.
func (app *App) AccountPage(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "account.html", &TemplateData{Title: "Account"})
}
