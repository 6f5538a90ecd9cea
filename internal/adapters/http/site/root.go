// Package site serves the embedded scoreboard page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the scoreboard page at / to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
