package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows browser clients (the timeline shell) to call the JSON APIs
// from another origin. Credentials are never used, so a wildcard is fine.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
