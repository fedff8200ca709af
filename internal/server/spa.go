package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// handleSPA serves the built console bundle from dir. Anything that is not
// a real file falls back to index.html, so deep links into client-side
// routes survive a reload.
func handleSPA(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.Clean(r.URL.Path))
		info, err := os.Stat(name)
		if err != nil || info.IsDir() {
			http.ServeFile(w, r, index)
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}
