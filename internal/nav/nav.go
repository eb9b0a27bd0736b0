package nav

import (
	"path"
	"strings"
)

// Item represents a top-level navigation item.
type Item struct {
	Href     string // e.g. "/#products"
	LabelKey string // i18n key, e.g. "nav.products"
	// NeedsCollections hides the item when the catalog has no collections.
	NeedsCollections bool
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Href: "/#collections", LabelKey: "nav.collections", NeedsCollections: true},
	{Href: "/#products", LabelKey: "nav.products"},
	{Href: "/blog", LabelKey: "nav.blog"},
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string, hasCollections bool) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		if it.NeedsCollections && !hasCollections {
			continue
		}
		items = append(items, RenderedItem{
			Href:     it.Href,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Href, currentPath),
		})
	}
	return items
}

func isActive(href, currentPath string) bool {
	itemPath, _, _ := strings.Cut(href, "#")
	if itemPath == "" || itemPath == "/" {
		// in-page anchors on the home page are never highlighted
		return false
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Link is a footer link.
type Link struct {
	Href     string
	LabelKey string
}

// Group is a titled column of footer links.
type Group struct {
	TitleKey string
	Links    []Link
}

// Footer lists the footer link columns.
var Footer = []Group{
	{TitleKey: "footer.know_us", Links: []Link{
		{Href: "/", LabelKey: "footer.about"},
		{Href: "/", LabelKey: "footer.careers"},
		{Href: "/", LabelKey: "footer.investors"},
		{Href: "/", LabelKey: "footer.sustainability"},
	}},
	{TitleKey: "footer.customer_care", Links: []Link{
		{Href: "/", LabelKey: "footer.help"},
		{Href: "/", LabelKey: "footer.shipping"},
		{Href: "/", LabelKey: "footer.returns"},
		{Href: "/", LabelKey: "footer.warranty"},
		{Href: "/", LabelKey: "footer.contact"},
	}},
	{TitleKey: "footer.shop", Links: []Link{
		{Href: "/", LabelKey: "footer.deals"},
		{Href: "/", LabelKey: "footer.categories"},
		{Href: "/blog", LabelKey: "footer.blog"},
		{Href: "/", LabelKey: "footer.giftcards"},
	}},
	{TitleKey: "footer.my_account", Links: []Link{
		{Href: "/my-orders", LabelKey: "footer.orders"},
		{Href: "/", LabelKey: "footer.wishlist"},
		{Href: "/", LabelKey: "footer.subscriptions"},
		{Href: "/", LabelKey: "footer.profile"},
	}},
}

// Legal lists the bottom footer links.
var Legal = []Link{
	{Href: "/", LabelKey: "footer.terms"},
	{Href: "/", LabelKey: "footer.privacy"},
	{Href: "/", LabelKey: "footer.cookies"},
}

// Breadcrumbs builds breadcrumb entries from the current path.
// Rules:
// - Always start with Home
// - Known sections use their label keys
// - Other segments use a prettified label
func Breadcrumbs(currentPath string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean("/" + strings.TrimPrefix(currentPath, "/"))
	if clean == "/" {
		crumbs[0].Active = true
		return crumbs
	}
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	href := ""
	for i, seg := range parts {
		href += "/" + seg
		crumbs = append(crumbs, Crumb{
			Href:     href,
			LabelKey: sectionKeys[href],
			Label:    titleFromSegment(seg),
			Active:   i == len(parts)-1,
		})
	}
	return crumbs
}

var sectionKeys = map[string]string{
	"/cart": "cart.title",
	"/blog": "nav.blog",
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	r := []rune(s)
	r[0] = toUpper(r[0])
	return string(r)
}

func toUpper(r rune) rune {
	// ASCII only is sufficient for slugs here
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
