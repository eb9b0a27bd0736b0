package views

import (
	"html/template"
	"net/url"
	"strconv"

	"github.com/wpinocho/style-storefront/internal/catalog"
	"github.com/wpinocho/style-storefront/internal/format"
	"github.com/wpinocho/style-storefront/internal/i18n"
	"github.com/wpinocho/style-storefront/internal/richtext"
	"github.com/wpinocho/style-storefront/internal/seo"
)

const (
	excerptLength = 90
	pageWindow    = 5
)

// Newsletter signup states shown under the form.
const (
	NewsletterOK      = "ok"
	NewsletterInvalid = "invalid"
)

// CollectionCard is one tile of the collections grid.
type CollectionCard struct {
	ID      string
	Name    string
	Excerpt string
	Image   string
	Href    string
}

// VariantOption is one choice of the add-to-cart selector.
type VariantOption struct {
	ID    string
	Title string
	Price string
}

// ProductCard is one tile of the products grid.
type ProductCard struct {
	ID       string
	Title    string
	Excerpt  string
	Image    string
	Price    string
	IsNew    bool
	SoldOut  bool
	Variants []VariantOption
}

// PageLink is one numbered pagination control.
type PageLink struct {
	Number   int
	Href     string
	Fragment string
	Current  bool
}

// Pagination drives the prev/next controls and page numbers.
type Pagination struct {
	Page         int
	TotalPages   int
	Prev         *PageLink
	Next         *PageLink
	Pages        []PageLink
	ShowControls bool
}

// Counters is the decorative figures strip, already formatted.
type Counters struct {
	Available string
	SoldToday string
	Reviews   string
}

// Products is the products section, also served as an htmx fragment.
type Products struct {
	Lang         string
	Title        string
	CollectionID string
	Search       string
	ShowViewAll  bool
	Items        []ProductCard
	Empty        bool
	Pagination   Pagination
	Counters     Counters
	CSRFToken    string
	FragmentURL  string
	ItemListLD   template.JS
}

// NewsletterForm is the newsletter block state.
type NewsletterForm struct {
	Lang      string
	Status    string
	Email     string
	CSRFToken string
}

// Home is the home page model.
type Home struct {
	Layout
	Collections []CollectionCard
	Products    Products
	Newsletter  NewsletterForm
}

// ProductsInput collects what NewProducts needs.
type ProductsInput struct {
	Bundle    *i18n.Bundle
	Lang      string
	Currency  string
	BaseURL   string
	Listing   catalog.Listing
	CSRFToken string
}

// NewProducts builds the products section from a catalog listing.
func NewProducts(in ProductsInput) Products {
	lst := in.Listing
	p := Products{
		Lang:         in.Lang,
		Title:        in.Bundle.T(in.Lang, "products.title"),
		CollectionID: lst.Query.CollectionID,
		Search:       lst.Query.Search,
		Empty:        lst.Empty(),
		CSRFToken:    in.CSRFToken,
		FragmentURL:  ListingURL("/fragments/products", lst.Query, lst.Meta.Page),
		Counters: Counters{
			Available: format.Count(lst.Counters.SimulatedTotal, in.Lang),
			SoldToday: format.Count(lst.Counters.SoldToday, in.Lang),
			Reviews:   format.Count(lst.Counters.PositiveReviews, in.Lang),
		},
	}
	if lst.Selected != nil {
		p.Title = lst.Selected.Name
		p.ShowViewAll = true
	}

	ld := make([]seo.ListItem, 0, len(lst.Items))
	for _, prod := range lst.Items {
		card := ProductCard{
			ID:      prod.ID,
			Title:   prod.Title,
			Excerpt: richtext.Excerpt(prod.Description, excerptLength),
			Image:   prod.Image,
			Price:   format.Money(prod.Price, in.Currency, in.Lang),
			IsNew:   prod.Featured,
			SoldOut: prod.SoldOut,
		}
		for _, v := range prod.Variants {
			card.Variants = append(card.Variants, VariantOption{
				ID:    v.ID,
				Title: v.Title,
				Price: format.Money(prod.UnitPrice(v.ID), in.Currency, in.Lang),
			})
		}
		p.Items = append(p.Items, card)
		ld = append(ld, seo.ListItem{
			Name:     prod.Title,
			URL:      seo.Absolute(in.BaseURL, "/?q="+url.QueryEscape(prod.Title)+"#products"),
			Image:    seo.Absolute(in.BaseURL, prod.Image),
			Price:    decimalPrice(prod.Price),
			Currency: in.Currency,
			InStock:  !prod.SoldOut,
		})
	}
	if len(ld) > 0 {
		p.ItemListLD = seo.Script(seo.ItemList(ld))
	}
	p.Pagination = NewPagination(lst.Query, lst.Meta)
	return p
}

// NewPagination builds controls for meta. Links keep search and collection.
func NewPagination(q catalog.Query, meta catalog.PageMeta) Pagination {
	pg := Pagination{
		Page:         meta.Page,
		TotalPages:   meta.TotalPages,
		ShowControls: meta.TotalPages > 1,
	}
	link := func(n int) PageLink {
		return PageLink{
			Number:   n,
			Href:     ListingURL("/", q, n) + "#products",
			Fragment: ListingURL("/fragments/products", q, n),
			Current:  n == meta.Page,
		}
	}
	if meta.HasPrev() {
		l := link(meta.Page - 1)
		pg.Prev = &l
	}
	if meta.HasNext() {
		l := link(meta.Page + 1)
		pg.Next = &l
	}
	for _, n := range catalog.PageWindow(meta.Page, meta.TotalPages, pageWindow) {
		pg.Pages = append(pg.Pages, link(n))
	}
	return pg
}

// ListingURL encodes the browsing cursor. Page 1 and empty fields are omitted.
func ListingURL(path string, q catalog.Query, page int) string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.CollectionID != "" {
		v.Set("collection", q.CollectionID)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

// NewCollectionCards builds the collections grid.
func NewCollectionCards(cols []catalog.Collection) []CollectionCard {
	cards := make([]CollectionCard, 0, len(cols))
	for _, c := range cols {
		cards = append(cards, CollectionCard{
			ID:      c.ID,
			Name:    c.Name,
			Excerpt: richtext.Excerpt(c.Description, excerptLength),
			Image:   c.Image,
			Href:    ListingURL("/", catalog.Query{CollectionID: c.ID}, 1) + "#products",
		})
	}
	return cards
}

func decimalPrice(minor int64) string {
	whole, frac := minor/100, minor%100
	if frac < 0 {
		frac = -frac
	}
	s := strconv.FormatInt(whole, 10) + "."
	if frac < 10 {
		s += "0"
	}
	return s + strconv.FormatInt(frac, 10)
}
