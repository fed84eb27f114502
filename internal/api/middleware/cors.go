package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// allMethods lists every method net/http defines. go-chi/cors matches
// requested methods literally and has no wildcard for them.
var allMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
}

// CORS allows every origin, method and header. Credentials are not allowed,
// which browsers require when the origin is a wildcard.
func CORS() func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: allMethods,
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	})
}
