package views

import (
	"html/template"
	"net/url"
	"time"

	"github.com/wpinocho/style-storefront/internal/format"
	"github.com/wpinocho/style-storefront/internal/i18n"
	"github.com/wpinocho/style-storefront/internal/nav"
	"github.com/wpinocho/style-storefront/internal/season"
	"github.com/wpinocho/style-storefront/internal/seo"
)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Code   string
	Name   string
	Flag   string
	Href   string
	Active bool
}

// Banner is the seasonal promotion strip.
type Banner struct {
	Key      string
	Emoji    string
	Text     string
	Gradient string
}

// Layout carries the header, footer and head data shared by every page.
type Layout struct {
	Lang          string
	Path          string
	Store         string
	PageTitle     string
	DocumentTitle string
	Description   string
	Nav           []nav.RenderedItem
	Breadcrumbs   []nav.Crumb
	Footer        []nav.Group
	Legal         []nav.Link
	Languages     []LanguageOption
	CurrentLang   LanguageOption
	ShowCart      bool
	CartBadge     string
	CSRFToken     string
	ThemeCSS      template.CSS
	Banner        *Banner
	Year          string
	Meta          seo.Meta
}

// LayoutInput collects what NewLayout needs from the request.
type LayoutInput struct {
	Bundle         *i18n.Bundle
	Lang           string
	Path           string
	Query          url.Values
	PageTitle      string
	Description    string
	Store          string
	BaseURL        string
	Theme          *season.Theme
	HasCollections bool
	CartItems      int
	OnCartPage     bool
	CSRFToken      string
	Now            time.Time
}

// NewLayout builds the shared layout model.
func NewLayout(in LayoutInput) Layout {
	store := in.Store
	if store == "" {
		store = in.Bundle.TOr(in.Lang, "brand.name", "STYLE")
	}
	docTitle := store
	if in.PageTitle != "" {
		docTitle = in.PageTitle + " | " + store
	}

	l := Layout{
		Lang:          in.Lang,
		Path:          in.Path,
		Store:         store,
		PageTitle:     in.PageTitle,
		DocumentTitle: docTitle,
		Description:   in.Description,
		Nav:           nav.Build(in.Path, in.HasCollections),
		Breadcrumbs:   nav.Breadcrumbs(in.Path),
		Footer:        nav.Footer,
		Legal:         nav.Legal,
		ShowCart:      !in.OnCartPage,
		CartBadge:     format.CartBadge(in.CartItems),
		CSRFToken:     in.CSRFToken,
		Year:          format.Year(in.Now),
	}

	for _, lang := range in.Bundle.Languages() {
		opt := LanguageOption{
			Code:   lang.Code,
			Name:   lang.Name,
			Flag:   lang.Flag,
			Href:   withParam(in.Path, in.Query, "hl", lang.Code),
			Active: lang.Code == in.Lang,
		}
		if opt.Active {
			l.CurrentLang = opt
		}
		l.Languages = append(l.Languages, opt)
	}

	var palette *season.Palette
	if in.Theme != nil {
		palette = &in.Theme.Palette
		l.Banner = &Banner{
			Key:      in.Theme.Key,
			Emoji:    in.Theme.Emoji,
			Text:     in.Bundle.TOr(in.Lang, "season."+in.Theme.Key+".banner", in.Theme.Banner),
			Gradient: in.Theme.Gradient,
		}
	}
	l.ThemeCSS = template.CSS(season.CSSVars(palette))

	l.Meta = seo.Meta{
		Title:       docTitle,
		Description: in.Description,
		Canonical:   seo.Absolute(in.BaseURL, in.Path),
		OG: seo.OpenGraph{
			Title:       docTitle,
			Description: in.Description,
			Image:       seo.Absolute(in.BaseURL, "/assets/logo.svg"),
			Type:        "website",
		},
		JSONLD: []template.JS{
			seo.Script(seo.Organization(store, in.BaseURL, seo.Absolute(in.BaseURL, "/assets/logo.svg"))),
			seo.Script(seo.WebSite(store, in.BaseURL, seo.Absolute(in.BaseURL, "/?q="))),
		},
	}
	return l
}

// withParam returns path with the query copied and key set to value.
func withParam(path string, query url.Values, key, value string) string {
	q := url.Values{}
	for k, vs := range query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set(key, value)
	if path == "" {
		path = "/"
	}
	return path + "?" + q.Encode()
}
