package middleware

import "net/http"

const (
	headerHXRequest = "HX-Request"
	headerHXBoosted = "HX-Boosted"
)

// HTMX flags requests sent by htmx so handlers can answer with fragments,
// events and JSON errors instead of full pages and redirects.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithHTMX(r.Context(), r.Header.Get(headerHXRequest) == "true")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IsBoosted reports whether htmx issued the request for a boosted link or form.
func IsBoosted(r *http.Request) bool {
	return r.Header.Get(headerHXBoosted) == "true"
}
