package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/wpinocho/style-storefront/internal/cart"
	"github.com/wpinocho/style-storefront/internal/catalog"
	"github.com/wpinocho/style-storefront/internal/metrics"
	custommw "github.com/wpinocho/style-storefront/internal/middleware"
	"github.com/wpinocho/style-storefront/internal/newsletter"
	"github.com/wpinocho/style-storefront/internal/observability"
	"github.com/wpinocho/style-storefront/internal/season"
	"github.com/wpinocho/style-storefront/internal/templates"
	"github.com/wpinocho/style-storefront/internal/views"
)

type handlers struct {
	cfg      Config
	renderer *templates.Renderer
	recorder storeRecorder
}

// home renders the landing page with collections, products and newsletter.
func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := custommw.Lang(r)

	listing, err := h.cfg.Catalog.Browse(ctx, queryFrom(r))
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	c, err := h.currentCart(r)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	layout := h.layout(r, layoutOptions{
		Description:    h.cfg.Bundle.T(lang, "meta.home_description"),
		HasCollections: len(listing.Collections) > 0,
		CartItems:      c.ItemCount(),
	})
	page := views.Home{
		Layout:      layout,
		Collections: views.NewCollectionCards(listing.Collections),
		Products:    h.products(r, listing),
		Newsletter: views.NewsletterForm{
			Lang:      lang,
			Status:    newsletterStatus(r.URL.Query().Get("newsletter")),
			CSRFToken: custommw.CSRFToken(r),
		},
	}
	h.renderPage(w, r, http.StatusOK, templates.PageHome, page)
}

// productsFragment renders the products section for htmx swaps.
func (h *handlers) productsFragment(w http.ResponseWriter, r *http.Request) {
	listing, err := h.cfg.Catalog.Browse(r.Context(), queryFrom(r))
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("HX-Push-Url", views.ListingURL("/", listing.Query, listing.Meta.Page))
	w.Header().Add("Vary", "HX-Request")
	h.renderFragment(w, r, templates.FragmentProducts, h.products(r, listing))
}

func (h *handlers) cartPage(w http.ResponseWriter, r *http.Request) {
	lang := custommw.Lang(r)
	c, err := h.currentCart(r)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	collections, err := h.cfg.Catalog.Collections(r.Context())
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	layout := h.layout(r, layoutOptions{
		PageTitle:      h.cfg.Bundle.T(lang, "cart.title"),
		HasCollections: len(collections) > 0,
		CartItems:      c.ItemCount(),
		OnCartPage:     true,
	})
	w.Header().Set("Cache-Control", "no-store")
	h.renderPage(w, r, http.StatusOK, templates.PageCart, views.NewCart(layout, c, r.URL.Query().Get("checkout") == "failed"))
}

func (h *handlers) addItem(w http.ResponseWriter, r *http.Request) {
	qty := 1
	if raw := strings.TrimSpace(r.PostFormValue("quantity")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, http.StatusBadRequest, err)
			return
		}
		qty = n
	}
	sess := custommw.GetSession(r)
	c, err := h.cfg.Cart.Add(r.Context(),
		sess.CartID,
		strings.TrimSpace(r.PostFormValue("product_id")),
		strings.TrimSpace(r.PostFormValue("variant_id")),
		qty,
	)
	h.recorder.CartMutation("add", err)
	if err != nil {
		h.fail(w, r, cartErrorStatus(err), err)
		return
	}
	sess.SetCartID(c.ID)
	h.cartUpdated(w, r, c)
}

func (h *handlers) updateQuantity(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}
	c, err := h.cfg.Cart.UpdateQuantity(r.Context(), custommw.GetSession(r).CartID, chi.URLParam(r, "key"), qty)
	h.recorder.CartMutation("update", err)
	if err != nil {
		h.fail(w, r, cartErrorStatus(err), err)
		return
	}
	h.cartUpdated(w, r, c)
}

func (h *handlers) removeItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.cfg.Cart.Remove(r.Context(), custommw.GetSession(r).CartID, chi.URLParam(r, "key"))
	h.recorder.CartMutation("remove", err)
	if err != nil {
		h.fail(w, r, cartErrorStatus(err), err)
		return
	}
	h.cartUpdated(w, r, c)
}

func (h *handlers) checkout(w http.ResponseWriter, r *http.Request) {
	sess := custommw.GetSession(r)
	out, err := h.cfg.Cart.CreateCheckout(r.Context(), sess.CartID, custommw.Lang(r))
	h.recorder.CartMutation("checkout", err)
	switch {
	case errors.Is(err, cart.ErrEmptyCart):
		h.redirect(w, r, "/cart")
		return
	case err != nil:
		observability.FromContext(r.Context()).Error("checkout failed", zap.Error(err))
		h.redirect(w, r, "/cart?checkout=failed")
		return
	}
	sess.SetCartID("")
	observability.FromContext(r.Context()).Info("checkout started",
		zap.String("checkout_id", out.ID),
		zap.Int64("amount", out.Amount),
		zap.String("currency", out.Currency),
	)
	h.redirect(w, r, out.URL)
}

// checkoutStarted is the landing page for the built-in checkout URL. It only
// confirms the hand-off; payment happens outside the storefront.
func (h *handlers) checkoutStarted(w http.ResponseWriter, r *http.Request) {
	ref, err := ulid.ParseStrict(r.URL.Query().Get("checkout"))
	if err != nil {
		h.fail(w, r, http.StatusNotFound, err)
		return
	}
	lang := custommw.Lang(r)
	collections, err := h.cfg.Catalog.Collections(r.Context())
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	layout := h.layout(r, layoutOptions{
		PageTitle:      h.cfg.Bundle.T(lang, "checkout.payment"),
		HasCollections: len(collections) > 0,
	})
	w.Header().Set("Cache-Control", "no-store")
	h.renderPage(w, r, http.StatusOK, templates.PageCheckout, views.CheckoutStarted{
		Layout:    layout,
		Reference: ref.String(),
	})
}

func (h *handlers) subscribe(w http.ResponseWriter, r *http.Request) {
	lang := custommw.Lang(r)
	form := views.NewsletterForm{Lang: lang, CSRFToken: custommw.CSRFToken(r), Status: views.NewsletterOK}

	signup, err := newsletter.Normalize(newsletter.Signup{Email: r.PostFormValue("email"), Locale: lang})
	if err == nil {
		err = h.cfg.Newsletter.Subscribe(r.Context(), signup)
		if err != nil {
			h.fail(w, r, http.StatusBadGateway, err)
			return
		}
		h.recorder.NewsletterSignup()
	} else {
		form.Status = views.NewsletterInvalid
		form.Email = strings.TrimSpace(r.PostFormValue("email"))
	}

	if custommw.IsHTMX(r.Context()) {
		h.renderFragment(w, r, templates.FragmentNewsletter, form)
		return
	}
	h.redirect(w, r, "/?newsletter="+form.Status+"#newsletter")
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, http.StatusNotFound, nil)
}

// cartUpdated answers a cart mutation: htmx callers get an event carrying the
// new badge, others are sent back to the cart page.
func (h *handlers) cartUpdated(w http.ResponseWriter, r *http.Request, c cart.Cart) {
	if custommw.IsHTMX(r.Context()) {
		payload, _ := json.Marshal(map[string]any{
			"cart:updated": map[string]any{"count": c.ItemCount()},
		})
		w.Header().Set("HX-Trigger", string(payload))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.redirect(w, r, "/cart")
}

func (h *handlers) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if custommw.IsHTMX(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail logs err and renders an error page, or a JSON error for htmx.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := observability.FromContext(r.Context())
	if err != nil {
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.Int("status", status), zap.Error(err))
		} else {
			logger.Debug("request rejected", zap.Int("status", status), zap.Error(err))
		}
	}

	lang := custommw.Lang(r)
	key := "errors.generic"
	switch {
	case status == http.StatusNotFound:
		key = "errors.not_found"
	case status < http.StatusInternalServerError:
		key = "errors.bad_request"
	}
	msg := h.cfg.Bundle.T(lang, key)

	if custommw.IsHTMX(r.Context()) {
		custommw.WriteError(w, r, status, msg)
		return
	}
	page := views.Error{
		Layout:  h.layout(r, layoutOptions{PageTitle: h.cfg.Bundle.T(lang, "common.error")}),
		Status:  status,
		Heading: h.cfg.Bundle.T(lang, "common.error"),
		Message: msg,
	}
	h.renderPage(w, r, status, templates.PageError, page)
}

type layoutOptions struct {
	PageTitle      string
	Description    string
	HasCollections bool
	CartItems      int
	OnCartPage     bool
}

func (h *handlers) layout(r *http.Request, opts layoutOptions) views.Layout {
	theme, ok := h.theme()
	var active *season.Theme
	key := ""
	if ok {
		active = &theme
		key = theme.Key
	}
	h.recorder.ThemeRendered(key)

	return views.NewLayout(views.LayoutInput{
		Bundle:         h.cfg.Bundle,
		Lang:           custommw.Lang(r),
		Path:           r.URL.Path,
		Query:          r.URL.Query(),
		PageTitle:      opts.PageTitle,
		Description:    opts.Description,
		Store:          h.cfg.Store.Name,
		BaseURL:        h.cfg.Store.BaseURL,
		Theme:          active,
		HasCollections: opts.HasCollections,
		CartItems:      opts.CartItems,
		OnCartPage:     opts.OnCartPage,
		CSRFToken:      custommw.CSRFToken(r),
		Now:            h.cfg.Clock.Now().In(h.cfg.Location),
	})
}

func (h *handlers) theme() (season.Theme, bool) {
	if d := h.cfg.PinnedDate; d != nil {
		return h.cfg.Themes.Resolve(*d)
	}
	return h.cfg.Themes.Resolve(season.Today(h.cfg.Clock, h.cfg.Location))
}

func (h *handlers) products(r *http.Request, listing catalog.Listing) views.Products {
	return views.NewProducts(views.ProductsInput{
		Bundle:    h.cfg.Bundle,
		Lang:      custommw.Lang(r),
		Currency:  h.cfg.Store.Currency,
		BaseURL:   h.cfg.Store.BaseURL,
		Listing:   listing,
		CSRFToken: custommw.CSRFToken(r),
	})
}

func (h *handlers) currentCart(r *http.Request) (cart.Cart, error) {
	return h.cfg.Cart.Cart(r.Context(), custommw.GetSession(r).CartID)
}

func (h *handlers) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	c, err := h.renderer.Page(name, data)
	h.render(w, r, status, c, err)
}

func (h *handlers) renderFragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	c, err := h.renderer.Fragment(name, data)
	h.render(w, r, http.StatusOK, c, err)
}

func (h *handlers) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component, err error) {
	if err != nil {
		observability.FromContext(r.Context()).Error("render failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	templates.Render(w, r, status, c)
}

func queryFrom(r *http.Request) catalog.Query {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	return catalog.Query{
		Search:       q.Get("q"),
		CollectionID: q.Get("collection"),
		Page:         page,
	}
}

func newsletterStatus(raw string) string {
	switch raw {
	case views.NewsletterOK, views.NewsletterInvalid:
		return raw
	default:
		return ""
	}
}

func cartErrorStatus(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, cart.ErrLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrSoldOut):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var _ storeRecorder = (*metrics.Metrics)(nil)
