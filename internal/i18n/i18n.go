package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embedded embed.FS

// DefaultLanguage is the storefront's primary language.
const DefaultLanguage = "es"

// Language describes an entry of the language switcher.
type Language struct {
	Code string
	Name string
	Flag string
}

var knownLanguages = map[string]Language{
	"es": {Code: "es", Name: "Español", Flag: "🇪🇸"},
	"en": {Code: "en", Name: "English", Flag: "🇺🇸"},
	"fr": {Code: "fr", Name: "Français", Flag: "🇫🇷"},
}

// Bundle holds flat key/value translation tables per language.
type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported []string
	matcher   language.Matcher
	// matchOrder maps matcher indices back to language codes.
	matchOrder []string
}

// Embedded loads the locale tables compiled into the binary.
func Embedded(fallback string, supported []string) (*Bundle, error) {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, err
	}
	return Load(sub, fallback, supported)
}

// Load reads <lang>.json for every supported language from fsys. The fallback
// language must be present; other missing files are skipped.
func Load(fsys fs.FS, fallback string, supported []string) (*Bundle, error) {
	fallback = strings.ToLower(strings.TrimSpace(fallback))
	if fallback == "" {
		fallback = DefaultLanguage
	}
	if len(supported) == 0 {
		supported = []string{"es", "en", "fr"}
	}
	b := &Bundle{
		dict:     map[string]map[string]string{},
		fallback: fallback,
	}
	for _, l := range supported {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		raw, err := fs.ReadFile(fsys, l+".json")
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
		b.supported = append(b.supported, l)
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s not loaded", fallback)
	}

	// The matcher's first tag is its default, so the fallback goes first.
	b.matchOrder = []string{fallback}
	for _, l := range b.supported {
		if l != fallback {
			b.matchOrder = append(b.matchOrder, l)
		}
	}
	tags := make([]language.Tag, 0, len(b.matchOrder))
	for _, l := range b.matchOrder {
		tags = append(tags, language.Make(l))
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Supported lists loaded languages in configuration order.
func (b *Bundle) Supported() []string {
	out := make([]string, len(b.supported))
	copy(out, b.supported)
	return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// IsSupported reports whether lang has a loaded table.
func (b *Bundle) IsSupported(lang string) bool {
	_, ok := b.dict[strings.ToLower(strings.TrimSpace(lang))]
	return ok
}

// Languages returns switcher entries for the loaded languages.
func (b *Bundle) Languages() []Language {
	out := make([]Language, 0, len(b.supported))
	for _, code := range b.supported {
		l, ok := knownLanguages[code]
		if !ok {
			l = Language{Code: code, Name: strings.ToUpper(code)}
		}
		out = append(out, l)
	}
	return out
}

// Lookup returns the translation of key in lang or the fallback language.
func (b *Bundle) Lookup(lang, key string) (string, bool) {
	if lang != "" {
		if m, ok := b.dict[lang]; ok {
			if v, ok := m[key]; ok {
				return v, true
			}
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return "", false
}

// T returns translation for key in lang, falling back to default and finally key.
func (b *Bundle) T(lang, key string) string {
	if v, ok := b.Lookup(lang, key); ok {
		return v
	}
	return key
}

// TOr is T with an explicit default for keys missing everywhere.
func (b *Bundle) TOr(lang, key, def string) string {
	if v, ok := b.Lookup(lang, key); ok {
		return v
	}
	return def
}

// Resolve chooses the best supported language for an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	if strings.TrimSpace(acceptLang) == "" {
		return b.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(b.matchOrder) {
		return b.fallback
	}
	return b.matchOrder[idx]
}
