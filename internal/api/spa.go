package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// SPAHandler serves the built client for any unmatched GET. Paths that do not
// name a file get index.html so client-side routing works. Unknown API routes
// return a JSON 404 instead.
func SPAHandler(staticDir string) gin.HandlerFunc {
	index := filepath.Join(staticDir, "index.html")
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			abortWithError(c, http.StatusNotFound, "Route not found")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			abortWithError(c, http.StatusNotFound, "Route not found")
			return
		}

		// Clean rooted paths cannot climb out of staticDir.
		file := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		if _, err := os.Stat(index); err != nil {
			abortWithError(c, http.StatusNotFound, "Route not found")
			return
		}
		c.File(index)
	}
}
