package testutil

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML loads a rendered page or fragment into a goquery document. The
// test fails immediately when the markup cannot be parsed.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("testutil: parse html (%d bytes): %v", len(body), err)
	}
	return doc
}
