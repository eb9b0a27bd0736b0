package middleware

import "context"

type ctxKey string

const (
	ctxKeyIsHTMX   ctxKey = "storefront.htmx"
	ctxKeySession  ctxKey = "storefront.session"
	ctxKeyLocaleFB ctxKey = "storefront.locale_fallback"
)

// WithHTMX records whether the request was issued by htmx.
func WithHTMX(ctx context.Context, htmx bool) context.Context {
	return context.WithValue(ctx, ctxKeyIsHTMX, htmx)
}

// IsHTMX reports whether the HTMX middleware flagged the request.
func IsHTMX(ctx context.Context) bool {
	htmx, _ := ctx.Value(ctxKeyIsHTMX).(bool)
	return htmx
}

// WithSession attaches session data to ctx.
func WithSession(ctx context.Context, s *SessionData) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}
