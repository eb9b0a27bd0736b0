package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func embeddedBundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := Embedded("es", []string{"es", "en", "fr"})
	require.NoError(t, err)
	return b
}

func TestResolveHonorsQValues(t *testing.T) {
	t.Parallel()

	b := embeddedBundle(t)
	require.Equal(t, "en", b.Resolve("fr;q=0.8, en;q=0.9"))
	require.Equal(t, "fr", b.Resolve("fr-CA,fr;q=0.9"))
	require.Equal(t, "en", b.Resolve("en-GB"))
	require.Equal(t, "es", b.Resolve("es-MX,es;q=0.9,en;q=0.5"))
}

func TestResolveFallsBack(t *testing.T) {
	t.Parallel()

	b := embeddedBundle(t)
	require.Equal(t, "es", b.Resolve(""))
	require.Equal(t, "es", b.Resolve("ja"))
	require.Equal(t, "es", b.Resolve(";;;garbage"))
}

func TestTranslateFallbackChain(t *testing.T) {
	t.Parallel()

	b := embeddedBundle(t)
	require.Equal(t, "Tu Carrito", b.T("es", "cart.title"))
	require.Equal(t, "Your Cart", b.T("en", "cart.title"))
	require.Equal(t, "Votre Panier", b.T("fr", "cart.title"))
	require.Equal(t, "Tu Carrito", b.T("de", "cart.title"))
	require.Equal(t, "missing.key", b.T("en", "missing.key"))
	require.Equal(t, "def", b.TOr("en", "missing.key", "def"))

	_, ok := b.Lookup("es", "season.christmas.banner")
	require.False(t, ok)
	v, ok := b.Lookup("en", "season.christmas.banner")
	require.True(t, ok)
	require.Contains(t, v, "HOLIDAY")
}

func TestLocalesShareKeys(t *testing.T) {
	t.Parallel()

	b := embeddedBundle(t)
	for key := range b.dict["es"] {
		for _, lang := range []string{"en", "fr"} {
			_, ok := b.dict[lang][key]
			require.True(t, ok, "%s missing %s", lang, key)
		}
	}
}

func TestLanguagesCarryNamesAndFlags(t *testing.T) {
	t.Parallel()

	b := embeddedBundle(t)
	require.Equal(t, []Language{
		{Code: "es", Name: "Español", Flag: "🇪🇸"},
		{Code: "en", Name: "English", Flag: "🇺🇸"},
		{Code: "fr", Name: "Français", Flag: "🇫🇷"},
	}, b.Languages())
	require.True(t, b.IsSupported("EN"))
	require.False(t, b.IsSupported("de"))
}

func TestLoadRequiresFallback(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"en.json": {Data: []byte(`{"a":"A"}`)},
	}
	_, err := Load(fsys, "es", []string{"es", "en"})
	require.Error(t, err)

	b, err := Load(fsys, "en", []string{"en", "de"})
	require.NoError(t, err)
	require.Equal(t, []string{"en"}, b.Supported())

	fsys["bad.json"] = &fstest.MapFile{Data: []byte(`{`)}
	_, err = Load(fsys, "en", []string{"en", "bad"})
	require.Error(t, err)
}
