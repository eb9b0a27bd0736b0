package season

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DefaultPalette is the store's everyday brand palette, used when no season is active.
func DefaultPalette() Palette {
	return Palette{
		Primary:   "#111827",
		Secondary: "#6b7280",
		Accent:    "#f59e0b",
	}
}

// IsHexColor reports whether value is a six digit #rrggbb color.
func IsHexColor(value string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(value))
}

// CSSVars renders the palette as :root custom properties. Colors that fail
// validation are replaced by the matching default color.
func CSSVars(p *Palette) string {
	def := DefaultPalette()
	primary, secondary, accent := def.Primary, def.Secondary, def.Accent
	if p != nil {
		primary = colorOrDefault(p.Primary, primary)
		secondary = colorOrDefault(p.Secondary, secondary)
		accent = colorOrDefault(p.Accent, accent)
	}
	return fmt.Sprintf(
		":root{--theme-primary:%s;--theme-secondary:%s;--theme-accent:%s;}",
		primary,
		secondary,
		accent,
	)
}

func colorOrDefault(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !IsHexColor(trimmed) {
		return fallback
	}
	return trimmed
}
