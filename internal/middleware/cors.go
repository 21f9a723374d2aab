package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// Cors allows credentialed cross-origin requests for the given methods from
// origins. An empty origins list allows every origin.
func Cors(origins []string, methods []string) Middleware {
	allowed := append([]string{http.MethodOptions}, methods...)
	slices.Sort(allowed)

	return cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return len(origins) == 0 || slices.Contains(origins, origin)
		},
		AllowedMethods:   slices.Compact(allowed),
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler
}
