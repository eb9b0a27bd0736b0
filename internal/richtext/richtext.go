// Package richtext turns catalog copy written in Markdown into safe HTML and
// short plain-text excerpts.
package richtext

import (
	"bytes"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	)
	policy = bluemonday.UGCPolicy()

	blockTags = map[string]bool{
		"p": true, "br": true, "li": true, "div": true, "blockquote": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	}
)

// Render converts Markdown to sanitized HTML.
func Render(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	// bluemonday output is safe to embed without further escaping.
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// MustRender is Render for trusted template input; conversion errors yield
// an escaped copy of the source.
func MustRender(src string) template.HTML {
	out, err := Render(src)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return out
}

// PlainText renders src and strips every tag, collapsing whitespace.
func PlainText(src string) string {
	rendered, err := Render(src)
	if err != nil {
		return strings.Join(strings.Fields(src), " ")
	}
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(string(rendered)))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.TextToken:
			sb.Write(z.Text())
		case html.EndTagToken, html.SelfClosingTagToken, html.StartTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				sb.WriteByte(' ')
			}
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Excerpt returns at most limit runes of the plain text, cut on a word
// boundary and suffixed with an ellipsis when shortened.
func Excerpt(src string, limit int) string {
	text := PlainText(src)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
