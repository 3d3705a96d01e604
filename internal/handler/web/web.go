// Package web holds the embedded dashboard page: three chart regions
// (actuals, forecast, overlay) driven by the JSON API.
package web

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed index.html
var indexHTML []byte

// Index serves the dashboard page.
func Index(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, indexHTML)
}
