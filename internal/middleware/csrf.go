package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"
)

const (
	// CSRFCookieName is the double-submit cookie readable by scripts.
	CSRFCookieName = "csrf_token"
	// CSRFHeader carries the token on htmx and fetch requests.
	CSRFHeader = "X-CSRF-Token"
	// CSRFFormField carries the token on plain form posts.
	CSRFFormField = "csrf_token"
)

// CSRF issues the token cookie and verifies that unsafe requests carry the
// session token in the header or form field, and in the cookie.
func CSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := GetSession(r)
			token := s.CSRFToken
			if token == "" {
				token = newCSRFToken()
				s.CSRFToken = token
				s.MarkDirty()
			}

			if c, err := r.Cookie(CSRFCookieName); err != nil || c.Value != token {
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(24 * time.Hour),
				})
			}

			if !isSafeMethod(r.Method) {
				submitted := r.Header.Get(CSRFHeader)
				if submitted == "" {
					submitted = r.PostFormValue(CSRFFormField)
				}
				if !tokensMatch(submitted, token) {
					WriteError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
				if c, err := r.Cookie(CSRFCookieName); err != nil || !tokensMatch(c.Value, token) {
					WriteError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token templates embed in forms.
func CSRFToken(r *http.Request) string { return GetSession(r).CSRFToken }

func tokensMatch(got, want string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func newCSRFToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
