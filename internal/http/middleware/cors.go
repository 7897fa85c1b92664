package middleware

import (
	"net/http"
	"strings"
)

// CORS restricts browser access to the chat API to the clinic's web origins.
// An allowlist entry of "*" lifts the restriction; the request Origin is
// echoed back rather than a wildcard so credentialed widget requests keep
// working.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny, allowed := buildOriginAllowlist(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin != "" && (allowAny || allowed[origin]) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				h.Set("Access-Control-Max-Age", "600")
			}

			// A preflight carries both an Origin and a requested method;
			// answer it here instead of routing it.
			if r.Method == http.MethodOptions && origin != "" && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func buildOriginAllowlist(origins []string) (allowAny bool, allowed map[string]bool) {
	allowed = make(map[string]bool, len(origins))
	for _, o := range origins {
		switch o = strings.TrimSpace(o); o {
		case "":
		case "*":
			allowAny = true
		default:
			allowed[o] = true
		}
	}
	return allowAny, allowed
}
