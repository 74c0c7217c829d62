package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// publicRoutes lists method+route pairs reachable without credentials:
// infrastructure endpoints and patient-facing intake and tracking.
var publicRoutes = map[string]bool{
	http.MethodGet + " /health":                              true,
	http.MethodGet + " /health/db":                           true,
	http.MethodPost + " /api/v1/emergency-cases":             true,
	http.MethodGet + " /api/v1/emergency-cases/track/:token": true,
	http.MethodGet + " /api/v1/emergency-queue":              true,
	http.MethodGet + " /api/v1/hospitals":                    true,
	http.MethodPost + " /api/v1/home-care":                   true,
	http.MethodGet + " /api/v1/home-care/:token":             true,
}

// AuthSkipper returns true for requests whose route should skip
// authentication. It matches on the registered route pattern, not the raw
// path.
func AuthSkipper(c echo.Context) bool {
	return IsPublicRoute(c.Request().Method, c.Path())
}

// IsPublicRoute reports whether method and route pattern are public.
func IsPublicRoute(method, route string) bool {
	return publicRoutes[method+" "+route]
}
