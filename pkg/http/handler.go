package http

import "github.com/labstack/echo/v4"

// Handler registers the dashboard routes on an Echo instance. The server
// accepts any implementation so handlers stay testable without a server.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
