package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const (
	// SessionCookieName names the signed session cookie.
	SessionCookieName = "STYLE_SESSION"

	defaultSessionTTL = 30 * 24 * time.Hour
)

// SessionData is the state carried in the signed session cookie.
type SessionData struct {
	ID        string    `json:"id"`
	Locale    string    `json:"locale,omitempty"`
	CartID    string    `json:"cart,omitempty"`
	CSRFToken string    `json:"csrf,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool
}

// SessionConfig controls cookie signing and attributes.
type SessionConfig struct {
	// SigningKey signs the cookie. Empty means a process-ephemeral random key.
	SigningKey []byte
	Secure     bool
	TTL        time.Duration
}

type sessionCodec struct {
	key    []byte
	secure bool
	ttl    time.Duration
}

func newSessionCodec(cfg SessionConfig) sessionCodec {
	key := cfg.SigningKey
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic("session: generate signing key: " + err.Error())
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return sessionCodec{key: key, secure: cfg.Secure, ttl: ttl}
}

// Session loads or initializes a session and stores it in request context.
// The cookie is rewritten just before the first byte of the response when the
// session is new or was marked dirty.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	codec := newSessionCodec(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sd, fromCookie := codec.read(r)
			if sd.ID == "" {
				sd.ID = randID()
				sd.CreatedAt = time.Now().UTC()
				sd.UpdatedAt = sd.CreatedAt
				sd.CSRFToken = newCSRFToken()
				sd.dirty = true
			}

			rw := NewResponseRecorder(w)
			rw.SetBeforeWrite(func(w http.ResponseWriter) {
				if sd.dirty || !fromCookie {
					codec.write(w, sd)
				}
			})
			next.ServeHTTP(rw, r.WithContext(WithSession(r.Context(), sd)))
			// nothing written (e.g. HEAD with no body)
			if !rw.Wrote() && (sd.dirty || !fromCookie) {
				codec.write(w, sd)
			}
		})
	}
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// SetCartID records the cart bound to this session.
func (s *SessionData) SetCartID(id string) {
	if s.CartID == id {
		return
	}
	s.CartID = id
	s.MarkDirty()
}

// SetLocale records the preferred language.
func (s *SessionData) SetLocale(lang string) {
	if s.Locale == lang {
		return
	}
	s.Locale = lang
	s.MarkDirty()
}

// read parses and verifies the session cookie
func (c sessionCodec) read(r *http.Request) (*SessionData, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return &SessionData{}, false
	}
	payloadPart, sigPart, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return &SessionData{}, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return &SessionData{}, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return &SessionData{}, false
	}
	if !hmac.Equal(sig, c.sign(payload)) {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payload, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func (c sessionCodec) write(w http.ResponseWriter, sd *SessionData) {
	b, _ := json.Marshal(sd)
	val := base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(c.sign(b))
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    val,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(c.ttl),
	})
	sd.dirty = false
}

func (c sessionCodec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
