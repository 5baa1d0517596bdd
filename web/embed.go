// Package web holds the embedded HTML templates.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var content embed.FS

// Templates returns the template files rooted at the templates directory.
func Templates() fs.FS {
	sub, err := fs.Sub(content, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
