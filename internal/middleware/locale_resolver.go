package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/wpinocho/style-storefront/internal/i18n"
)

// LocaleCookieName remembers an explicit language choice.
const LocaleCookieName = "hl"

// Locale resolves the preferred language and stores it in the session and the
// `hl` cookie. Order: ?hl= query, session, cookie, Accept-Language.
// Unsupported values are ignored.
func Locale(bundle *i18n.Bundle, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxKeyLocaleFB, bundle.Fallback())
			r = r.WithContext(ctx)
			s := GetSession(r)

			if s.Locale != "" && !bundle.IsSupported(s.Locale) {
				s.SetLocale("")
			}

			if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("hl"))); q != "" && bundle.IsSupported(q) {
				s.SetLocale(q)
				http.SetCookie(w, &http.Cookie{
					Name:     LocaleCookieName,
					Value:    q,
					Path:     "/",
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   365 * 24 * 60 * 60,
				})
			} else if s.Locale == "" {
				if c, err := r.Cookie(LocaleCookieName); err == nil && bundle.IsSupported(c.Value) {
					s.SetLocale(strings.ToLower(c.Value))
				} else {
					s.SetLocale(bundle.Resolve(r.Header.Get("Accept-Language")))
				}
			}

			if s.Locale != "" {
				w.Header().Set("Content-Language", s.Locale)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Lang returns the current language from the session, then the bundle fallback.
func Lang(r *http.Request) string {
	if s := GetSession(r); s != nil && s.Locale != "" {
		return s.Locale
	}
	if fb, ok := r.Context().Value(ctxKeyLocaleFB).(string); ok && fb != "" {
		return fb
	}
	return i18n.DefaultLanguage
}
