package httpserver_test

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/wpinocho/style-storefront/internal/catalog"
	"github.com/wpinocho/style-storefront/internal/metrics"
	"github.com/wpinocho/style-storefront/internal/newsletter"
	"github.com/wpinocho/style-storefront/internal/testutil"
)

func get(t *testing.T, client *http.Client, rawURL string, header http.Header) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func getDoc(t *testing.T, client *http.Client, rawURL string, header http.Header) (*http.Response, *goquery.Document) {
	t.Helper()
	resp, body := get(t, client, rawURL, header)
	return resp, testutil.ParseHTML(t, body)
}

var english = http.Header{"Accept-Language": {"en-US,en;q=0.9"}}

func TestHomeRendersCatalog(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	resp, doc := getDoc(t, testutil.NewClient(t), ts.URL+"/", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "es", resp.Header.Get("Content-Language"))
	require.Equal(t, "STYLE", doc.Find("title").First().Text())
	require.Equal(t, "es", doc.Find("html").AttrOr("lang", ""))
	require.Equal(t, "Descubre Tu Estilo", doc.Find(".hero h1").Text())
	require.Equal(t, 4, doc.Find(".collection-card").Length())
	require.Equal(t, 24, doc.Find(".product-card").Length())
	require.Equal(t, "Productos Destacados", doc.Find("#products-title").Text())
	require.Zero(t, doc.Find(".season-banner").Length())
	require.Zero(t, doc.Find(".pagination").Length())
	require.Equal(t, 3, doc.Find(`script[type="application/ld+json"]`).Length())
	require.Equal(t, 3, doc.Find(".main-nav a").Length())
	require.Equal(t, 4, doc.Find(".footer-group").Length())
	require.Contains(t, doc.Find(".copyright").Text(), "2025")
	require.Zero(t, doc.Find("#cart-badge").Length())

	soldOut := doc.Find(`.product-card[data-product="traje-lana"]`)
	require.Equal(t, 1, soldOut.Length())
	_, disabled := soldOut.Find("button[type=submit]").Attr("disabled")
	require.True(t, disabled)

	style := doc.Find("style#theme-vars").Text()
	require.Contains(t, style, "--theme-primary:#111827")
}

func TestHomeCountersInEnglish(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	_, doc := getDoc(t, testutil.NewClient(t), ts.URL+"/", english)

	require.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
	require.Equal(t, "60,000", doc.Find(`[data-counter="available"]`).Text())
	require.Equal(t, "17", doc.Find(`[data-counter="sold-today"]`).Text())
	require.Equal(t, "270", doc.Find(`[data-counter="reviews"]`).Text())
}

func TestSeasonalBanner(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithDate(time.December, 24))

	_, doc := getDoc(t, testutil.NewClient(t), ts.URL+"/", nil)
	banner := doc.Find(".season-banner")
	require.Equal(t, 1, banner.Length())
	require.Equal(t, "christmas", banner.AttrOr("data-season", ""))
	require.Contains(t, banner.Find(".season-text").Text(), "ESPECIAL NAVIDAD")
	require.Contains(t, doc.Find("style#theme-vars").Text(), "--theme-primary:#165834")

	_, doc = getDoc(t, testutil.NewClient(t), ts.URL+"/", english)
	require.Contains(t, doc.Find(".season-banner .season-text").Text(), "HOLIDAY SPECIAL")
}

func TestNoBannerOutsideSeasons(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithDate(time.November, 14))
	_, doc := getDoc(t, testutil.NewClient(t), ts.URL+"/", nil)
	require.Zero(t, doc.Find(".season-banner").Length())

	ts = testutil.NewServer(t, testutil.WithDate(time.November, 15))
	_, doc = getDoc(t, testutil.NewClient(t), ts.URL+"/", nil)
	require.Equal(t, "black-friday", doc.Find(".season-banner").AttrOr("data-season", ""))
}

func TestSearchAndCollectionFilter(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t)

	_, doc := getDoc(t, client, ts.URL+"/?q=VESTIDO", nil)
	require.Equal(t, 2, doc.Find(".product-card").Length())
	require.Equal(t, "VESTIDO", doc.Find("#search-q").AttrOr("value", ""))
	require.Equal(t, 1, doc.Find(".search-summary").Length())

	_, doc = getDoc(t, client, ts.URL+"/?collection=hombre", nil)
	require.Equal(t, "Hombre", doc.Find("#products-title").Text())
	require.Equal(t, 6, doc.Find(".product-card").Length())
	require.Equal(t, 1, doc.Find(".section-head a").Length())
	require.Equal(t, "hombre", doc.Find(`.search input[name="collection"]`).AttrOr("value", ""))

	_, doc = getDoc(t, client, ts.URL+"/?collection=does-not-exist", nil)
	require.Equal(t, 24, doc.Find(".product-card").Length())

	_, doc = getDoc(t, client, ts.URL+"/?q=zzzz", nil)
	require.Zero(t, doc.Find(".product-card").Length())
	require.Equal(t, 1, doc.Find(".empty-state").Length())
}

func TestPaginationClampsPage(t *testing.T) {
	t.Parallel()

	src, err := catalog.SeedSource()
	require.NoError(t, err)
	ts := testutil.NewServer(t, testutil.WithCatalog(catalog.NewService(src, catalog.WithPageSize(10))))
	client := testutil.NewClient(t)

	_, doc := getDoc(t, client, ts.URL+"/?page=2", nil)
	require.Equal(t, 10, doc.Find(".product-card").Length())
	require.Equal(t, "2", doc.Find(".page-number.current").Text())
	require.Equal(t, 3, doc.Find(".pagination .page-number").Length())
	require.Equal(t, "/#products", doc.Find("a.page-prev").AttrOr("href", ""))
	require.Equal(t, "/fragments/products?page=3", doc.Find("a.page-next").AttrOr("hx-get", ""))

	_, doc = getDoc(t, client, ts.URL+"/?page=99", nil)
	require.Equal(t, 4, doc.Find(".product-card").Length())
	require.Equal(t, "3", doc.Find(".page-number.current").Text())
	require.Equal(t, 1, doc.Find("span.page-next.disabled").Length())
}

func TestProductsFragment(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	resp, body := get(t, testutil.NewClient(t), ts.URL+"/fragments/products?q=vestido", http.Header{"HX-Request": {"true"}})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/?q=vestido", resp.Header.Get("HX-Push-Url"))
	doc := testutil.ParseHTML(t, body)
	require.Equal(t, 1, doc.Find("section#products").Length())
	require.Zero(t, doc.Find("header.site-header").Length())
	require.Equal(t, 2, doc.Find(".product-card").Length())
}

func TestLanguageSwitchPersists(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t)

	_, doc := getDoc(t, client, ts.URL+"/?hl=fr", nil)
	require.Equal(t, "fr", doc.Find("html").AttrOr("lang", ""))
	require.Equal(t, 3, doc.Find(".language-switcher li").Length())

	_, doc = getDoc(t, client, ts.URL+"/", english)
	require.Equal(t, "fr", doc.Find("html").AttrOr("lang", ""), "session choice beats Accept-Language")

	_, doc = getDoc(t, client, ts.URL+"/?hl=xx", nil)
	require.Equal(t, "fr", doc.Find("html").AttrOr("lang", ""))
}

func TestCartFlow(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t)

	_, doc := getDoc(t, client, ts.URL+"/cart", english)
	require.Equal(t, "Your Cart | STYLE", doc.Find("title").Text())
	require.Equal(t, "Your cart is empty", doc.Find(".empty-state h2").Text())
	require.Zero(t, doc.Find(".cart-button").Length(), "cart button hidden on cart page")

	resp := testutil.PostForm(t, client, ts, "/cart/items", url.Values{
		"product_id": {"camisa-oxford"},
		"variant_id": {"camisa-oxford-azul"},
		"quantity":   {"2"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/cart", resp.Header.Get("Location"))

	_, doc = getDoc(t, client, ts.URL+"/", english)
	require.Equal(t, "2", doc.Find("#cart-badge").Text())

	_, doc = getDoc(t, client, ts.URL+"/cart", english)
	lines := doc.Find(".cart-line")
	require.Equal(t, 1, lines.Length())
	require.Equal(t, "Camisa Oxford", lines.Find("h3").Text())
	require.Equal(t, "Azul cielo", lines.Find(".variant").Text())
	require.Equal(t, "$1,498.00", lines.Find(".line-price").Text())
	require.Contains(t, doc.Find(".cart-summary .total").Text(), "$1,498.00")

	key, ok := lines.Attr("data-line")
	require.True(t, ok)

	resp = testutil.PostForm(t, client, ts, "/cart/items/"+key+"/quantity", url.Values{"quantity": {"3"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, doc = getDoc(t, client, ts.URL+"/cart", english)
	require.Equal(t, "3", doc.Find(".cart-line .qty").Text())

	resp = testutil.PostForm(t, client, ts, "/cart/items/"+key+"/quantity", url.Values{"quantity": {"0"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, doc = getDoc(t, client, ts.URL+"/cart", english)
	require.Zero(t, doc.Find(".cart-line").Length())
	require.Equal(t, 1, doc.Find(".empty-state").Length())

	resp = testutil.PostForm(t, client, ts, "/cart/items/"+key+"/remove", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartRejectsBadItems(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t)
	get(t, client, ts.URL+"/", nil)

	resp := testutil.PostForm(t, client, ts, "/cart/items", url.Values{"product_id": {"traje-lana"}})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = testutil.PostForm(t, client, ts, "/cart/items", url.Values{"product_id": {"missing"}})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = testutil.PostForm(t, client, ts, "/cart/items", url.Values{"product_id": {"vestido-lino"}, "quantity": {"abc"}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCSRFRequired(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t)
	get(t, client, ts.URL+"/", nil)

	resp, err := client.PostForm(ts.URL+"/cart/items", url.Values{"product_id": {"vestido-lino"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCheckoutRedirects(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t)
	get(t, client, ts.URL+"/", nil)

	resp := testutil.PostForm(t, client, ts, "/cart/checkout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/cart", resp.Header.Get("Location"), "empty cart goes back to the cart page")

	testutil.PostForm(t, client, ts, "/cart/items", url.Values{"product_id": {"vestido-lino"}})
	resp = testutil.PostForm(t, client, ts, "/cart/checkout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/checkout", loc.Path)
	require.NotEmpty(t, loc.Query().Get("checkout"))
	require.Equal(t, "es", loc.Query().Get("locale"))

	landing, doc := getDoc(t, client, ts.URL+loc.String(), nil)
	require.Equal(t, http.StatusOK, landing.StatusCode)
	require.Equal(t, "no-store", landing.Header.Get("Cache-Control"))
	require.Equal(t, "¡Tu pedido está en camino!", doc.Find(".checkout-started h2").Text())
	require.Equal(t, loc.Query().Get("checkout"), doc.Find(".checkout-reference code").AttrOr("data-checkout", ""))
	require.Zero(t, doc.Find("#cart-badge").Length())

	_, doc = getDoc(t, client, ts.URL+"/cart", nil)
	require.Equal(t, 1, doc.Find(".empty-state").Length())
}

func TestCheckoutLandingRejectsUnknownReference(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t)

	for _, target := range []string{"/checkout", "/checkout?checkout=not-an-id"} {
		resp, doc := getDoc(t, client, ts.URL+target, english)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, target)
		require.Equal(t, "We could not find what you were looking for", doc.Find(".error-page p").Text())
	}
}

func TestPinnedThemeDateOverridesClock(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithPinnedDate(time.December, 25))
	_, doc := getDoc(t, testutil.NewClient(t), ts.URL+"/", nil)

	banner := doc.Find(".season-banner")
	require.Equal(t, 1, banner.Length())
	require.Equal(t, "christmas", banner.AttrOr("data-season", ""))
	require.Contains(t, doc.Find("style#theme-vars").Text(), "--theme-primary:#165834")
	require.Contains(t, doc.Find(".copyright").Text(), "2025", "clock still drives the footer year")

	ts = testutil.NewServer(t, testutil.WithDate(time.December, 24), testutil.WithPinnedDate(time.September, 10))
	_, doc = getDoc(t, testutil.NewClient(t), ts.URL+"/", nil)
	require.Zero(t, doc.Find(".season-banner").Length())
}

func TestHTMXCartMutationTriggersEvent(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t)
	get(t, client, ts.URL+"/", nil)

	form := url.Values{"product_id": {"vestido-lino"}, "quantity": {"2"}}
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/cart/items", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", testutil.CSRFToken(t, client, ts))

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.JSONEq(t, `{"cart:updated":{"count":2}}`, resp.Header.Get("HX-Trigger"))
}

func TestNewsletter(t *testing.T) {
	t.Parallel()

	sub := newsletter.NewMemorySubscriber()
	ts := testutil.NewServer(t, testutil.WithNewsletter(sub))
	client := testutil.NewClient(t)
	get(t, client, ts.URL+"/", nil)

	resp := testutil.PostForm(t, client, ts, "/newsletter", url.Values{"email": {" Ana@Example.com "}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/?newsletter=ok#newsletter", resp.Header.Get("Location"))
	require.Equal(t, []string{"ana@example.com"}, sub.Emails())

	_, doc := getDoc(t, client, ts.URL+"/?newsletter=ok", nil)
	require.Equal(t, "¡Gracias por suscribirte!", doc.Find("#newsletter .form-status.success").Text())

	form := url.Values{"email": {"nope"}}
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/newsletter", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", testutil.CSRFToken(t, client, ts))
	hxResp, err := client.Do(req)
	require.NoError(t, err)
	defer hxResp.Body.Close()
	body, err := io.ReadAll(hxResp.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, hxResp.StatusCode)
	frag := testutil.ParseHTML(t, body)
	require.Equal(t, 1, frag.Find("#newsletter .form-status.error").Length())
	require.Equal(t, "nope", frag.Find(`input[name="email"]`).AttrOr("value", ""))
	require.Len(t, sub.Emails(), 1)
}

func TestOperationalEndpoints(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	ts := testutil.NewServer(t, testutil.WithMetrics(m))
	client := testutil.NewClient(t)

	resp, body := get(t, client, ts.URL+"/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))

	resp, body = get(t, client, ts.URL+"/assets/site.css", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("ETag"))
	require.Contains(t, string(body), "--theme-primary")

	get(t, client, ts.URL+"/", nil)

	resp, body = get(t, client, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `storefront_theme_renders_total{theme="none"} 1`)
	require.Contains(t, string(body), `storefront_http_requests_total{method="GET",route="/",status="200"} 1`)
}

func TestNotFoundPage(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := testutil.NewClient(t)

	resp, doc := getDoc(t, client, ts.URL+"/nope", english)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "We could not find what you were looking for", doc.Find(".error-page p").Text())

	resp, body := get(t, client, ts.URL+"/nope", http.Header{"HX-Request": {"true"}})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	require.Contains(t, string(body), `"error"`)
}
