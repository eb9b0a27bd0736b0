package season

import "time"

// Palette holds the three brand colors a seasonal theme swaps in.
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
}

// Theme describes a seasonal promotion: colors, glyph, banner copy and the
// gradient token the templates map to a CSS class.
type Theme struct {
	Key      string
	Name     string
	Palette  Palette
	Emoji    string
	Banner   string
	Gradient string
}

// Date is a calendar day without year or time zone. Callers normalise the
// instant to the store's location before converting.
type Date struct {
	Month time.Month
	Day   int
}

// DateOf extracts the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return Date{Month: t.Month(), Day: t.Day()}
}

// Rule pairs a date predicate with the theme it activates.
type Rule struct {
	Key   string
	Match func(Date) bool
	Theme Theme
}

// Resolver evaluates rules in order; the first matching rule wins.
type Resolver struct {
	rules []Rule
}

// NewResolver builds a resolver over the provided rules. With no rules it
// uses DefaultRules.
func NewResolver(rules ...Rule) *Resolver {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &Resolver{rules: copied}
}

// Resolve returns the theme for d, or false when no rule matches.
func (r *Resolver) Resolve(d Date) (Theme, bool) {
	for _, rule := range r.rules {
		if rule.Match != nil && rule.Match(d) {
			return rule.Theme, true
		}
	}
	return Theme{}, false
}

// Rules returns a copy of the configured rule list.
func (r *Resolver) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

var defaultResolver = NewResolver()

// Resolve evaluates the default seasonal calendar.
func Resolve(d Date) (Theme, bool) {
	return defaultResolver.Resolve(d)
}
