package newsletter

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wpinocho/style-storefront/internal/observability"
)

// ErrInvalidEmail indicates the submitted address failed validation.
var ErrInvalidEmail = errors.New("newsletter: invalid email")

// Signup is the newsletter form payload.
type Signup struct {
	Email  string `validate:"required,email,max=254"`
	Locale string `validate:"omitempty,bcp47_language_tag"`
}

// Subscriber stores or forwards newsletter signups.
type Subscriber interface {
	Subscribe(ctx context.Context, s Signup) error
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims and lowercases the address and validates the payload.
func Normalize(s Signup) (Signup, error) {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Locale = strings.TrimSpace(s.Locale)
	if err := validate.Struct(s); err != nil {
		return s, ErrInvalidEmail
	}
	return s, nil
}

// LogSubscriber records signups in the request log only.
type LogSubscriber struct{}

func (LogSubscriber) Subscribe(ctx context.Context, s Signup) error {
	observability.FromContext(ctx).Info("newsletter signup",
		zap.String("email_domain", domainOf(s.Email)),
		zap.String("locale", s.Locale),
	)
	return nil
}

// MemorySubscriber keeps unique addresses in memory.
type MemorySubscriber struct {
	mu     sync.Mutex
	emails []string
	seen   map[string]struct{}
}

func NewMemorySubscriber() *MemorySubscriber {
	return &MemorySubscriber{seen: make(map[string]struct{})}
}

func (m *MemorySubscriber) Subscribe(_ context.Context, s Signup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[s.Email]; ok {
		return nil
	}
	m.seen[s.Email] = struct{}{}
	m.emails = append(m.emails, s.Email)
	return nil
}

// Emails returns subscribed addresses in signup order.
func (m *MemorySubscriber) Emails() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.emails))
	copy(out, m.emails)
	return out
}

func domainOf(email string) string {
	if _, domain, ok := strings.Cut(email, "@"); ok {
		return domain
	}
	return ""
}
