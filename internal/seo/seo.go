package seo

import (
	"encoding/json"
	"html/template"
	"net/url"
	"strings"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	// JSONLD holds schema.org documents emitted in the page head.
	JSONLD []template.JS
}

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Script marshals v for a <script type="application/ld+json"> element.
func Script(v any) template.JS {
	return template.JS(JSON(v))
}

// Absolute joins base and ref. An empty base returns ref unchanged.
func Absolute(base, ref string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
