package middleware

import "net/http"

// VaryLocale marks responses as varying by Accept-Language so shared caches
// keep one copy per negotiated language.
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}
