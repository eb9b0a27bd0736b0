package seo

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// WebSite returns a minimal WebSite schema with optional SearchAction.
func WebSite(name, url, searchActionURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if searchActionURL != "" {
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      searchActionURL + "{search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// ListItem is one entry of an ItemList.
type ListItem struct {
	Name     string
	URL      string
	Image    string
	Price    string
	Currency string
	InStock  bool
}

// ItemList builds a schema.org ItemList of products for a listing page.
func ItemList(items []ListItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     Product(it),
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"numberOfItems":   len(items),
		"itemListElement": el,
	}
}

// Product returns a product schema payload with an optional offer.
func Product(it ListItem) map[string]any {
	m := map[string]any{
		"@type": "Product",
		"name":  it.Name,
	}
	if it.URL != "" {
		m["url"] = it.URL
	}
	if it.Image != "" {
		m["image"] = it.Image
	}
	if it.Price != "" && it.Currency != "" {
		availability := "https://schema.org/OutOfStock"
		if it.InStock {
			availability = "https://schema.org/InStock"
		}
		m["offers"] = map[string]any{
			"@type":         "Offer",
			"price":         it.Price,
			"priceCurrency": it.Currency,
			"availability":  availability,
		}
	}
	return m
}
