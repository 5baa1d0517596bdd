package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/microblog/app/internal/auth"
	"github.com/microblog/app/internal/models"
)

// Template helper functions
var funcMap = template.FuncMap{
	"FormatDateTime": FormatDateTime,
	"Nl2br":          Nl2br,
}

// FormatDateTime formats a time.Time object into a more readable string.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.UTC().Format("January 2, 2006 at 3:04 PM")
}

// Nl2br escapes s and replaces newlines with <br> tags.
func Nl2br(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}

const layoutFile = "layout.html"

// Templates maps a page file name (e.g. "home.html") to its parsed set.
type Templates map[string]*template.Template

// LoadTemplates parses every page in fsys together with layout.html and
// the partials (files starting with an underscore).
func LoadTemplates(fsys fs.FS) (Templates, error) {
	if _, err := fs.Stat(fsys, layoutFile); err != nil {
		return nil, fmt.Errorf("%s not found: %w", layoutFile, err)
	}
	partials, err := fs.Glob(fsys, "_*.html")
	if err != nil {
		return nil, fmt.Errorf("error globbing partial templates: %w", err)
	}
	all, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("error globbing templates: %w", err)
	}

	templates := make(Templates)
	for _, page := range all {
		if page == layoutFile || slices.Contains(partials, page) {
			continue
		}
		files := append([]string{layoutFile, page}, partials...)
		tmpl, err := template.New(page).Funcs(funcMap).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("error parsing page template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return templates, nil
}

// TemplateData is everything a page may render. Layout fields are filled
// in by render.
type TemplateData struct {
	Title       string
	CurrentUser *models.User
	Flashes     []Flash
	CurrentYear int

	Error string
	Form  FormValues
	Next  string

	Post      *models.Post
	CanDelete bool
	Posts     *models.PostPage
	PageBase  string
	Author    *models.User

	StatusCode int
	StatusText string
	Message    string
}

// FormValues echoes submitted fields back into a re-rendered form.
// Passwords are never echoed.
type FormValues struct {
	Username string
	Email    string
	Title    string
	Content  string
}

// render executes the named page into a buffer first so a template error
// never produces a half-written response.
func (app *App) render(w http.ResponseWriter, r *http.Request, status int, name string, data *TemplateData) {
	tmpl, ok := app.Templates[name]
	if !ok {
		app.ErrorLog.Printf("template not found: %s", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = &TemplateData{}
	}
	if user, ok := auth.ActorFrom(r.Context()).User(); ok {
		data.CurrentUser = user
	}
	data.CurrentYear = time.Now().Year()
	data.Flashes = popFlashes(w, r)

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "layout", data); err != nil {
		app.ErrorLog.Printf("error executing template %s: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderErrorPage renders error.html with the given status.
func (app *App) RenderErrorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.render(w, r, status, "error.html", &TemplateData{
		Title:      http.StatusText(status),
		StatusCode: status,
		StatusText: http.StatusText(status),
		Message:    message,
	})
}

func (app *App) notFound(w http.ResponseWriter, r *http.Request) {
	app.RenderErrorPage(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}

// ServerError logs err with the request path and renders a 500 page.
func (app *App) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.ErrorLog.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	app.RenderErrorPage(w, r, http.StatusInternalServerError, "Something went wrong.")
}
