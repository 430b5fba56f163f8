package api

import (
	"net/http"

	"github.com/rs/cors"
)

var corsHandler = cors.New(cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
	},
	AllowedHeaders: []string{"Content-Type", apiKeyHeader},
})

// CORSMiddleware allows the browser front end to call the API from another origin
func CORSMiddleware(next http.Handler) http.Handler {
	return corsHandler.Handler(next)
}
