// Package ui embeds the browser map client served under /ui/.
package ui

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var content embed.FS

// GetHandler serves the embedded client with the "static" prefix removed,
// so that index.html is reachable at the handler root.
func GetHandler() http.Handler {
	fsys, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(fsys))
}
