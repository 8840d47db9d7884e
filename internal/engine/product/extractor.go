// Package product extracts product data from storefront pages. The selectors
// are tied to one storefront theme; a template change yields empty results
// rather than errors, except for the title.
package product

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/storescrape/internal/engine"
	urlutil "github.com/law-makers/storescrape/internal/utils/url"
	"github.com/law-makers/storescrape/pkg/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Storefront template selectors
const (
	TitleSelector       = "h2.h1"
	DescriptionSelector = ".product__description"
	ThumbnailSelector   = "ul.thumbnail-list img"
	MainMediaSelector   = "div.product__media.media--transparent img"
	ProductCardSelector = "a.full-unstyled-link"
)

// NoDescription is written when a page has no description container
const NoDescription = "No description available"

// Options controls extraction
type Options struct {
	// BaseURL is the storefront origin used for root-relative image paths
	BaseURL string
	// PageURL is recorded on the result and used in errors
	PageURL string
	// IncludeMainMedia adds the main product image to the thumbnails
	IncludeMainMedia bool
}

// Extract pulls the title, description and images out of doc
func Extract(doc *goquery.Document, opts Options) (*models.ProductRecord, error) {
	title, ok := Title(doc)
	if !ok {
		return nil, &engine.TitleNotFoundError{URL: opts.PageURL}
	}

	description, descriptionHTML := Description(doc)

	return &models.ProductRecord{
		URL:             opts.PageURL,
		Title:           title,
		Description:     description,
		DescriptionHTML: descriptionHTML,
		ImageURLs:       Images(doc, opts.BaseURL, opts.IncludeMainMedia),
	}, nil
}

// Title returns the trimmed text of the first title heading. Nested markup
// is concatenated as-is, so "VT <span>Reedle</span> Shot" keeps its spaces
// and only the outer whitespace is removed.
func Title(doc *goquery.Document) (string, bool) {
	if doc == nil {
		return "", false
	}
	sel := doc.Find(TitleSelector).First()
	if sel.Length() == 0 {
		return "", false
	}
	title := strings.TrimSpace(sel.Text())
	return title, title != ""
}

// Description returns the description text, one trimmed text node per line,
// skipping script, style and template content, along with the container's inner HTML. A missing container yields
// NoDescription and empty HTML.
func Description(doc *goquery.Document) (string, string) {
	if doc == nil {
		return NoDescription, ""
	}
	sel := doc.Find(DescriptionSelector).First()
	if sel.Length() == 0 {
		return NoDescription, ""
	}

	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	inner, _ := sel.Html()

	return strings.Join(parts, "\n"), inner
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Template:
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// Images returns normalised, de-duplicated image URLs in first-seen order
func Images(doc *goquery.Document, baseURL string, includeMainMedia bool) []string {
	if doc == nil {
		return nil
	}

	var urls []string
	doc.Find(ThumbnailSelector).Each(func(i int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			urls = append(urls, urlutil.NormalizeImageURL(baseURL, src))
		}
	})

	if includeMainMedia {
		if src, ok := doc.Find(MainMediaSelector).First().Attr("src"); ok && src != "" {
			urls = append(urls, urlutil.NormalizeImageURL(baseURL, src))
		}
	}

	return urlutil.Dedup(urls)
}

// ProductLinks returns absolute product URLs from a catalog listing,
// de-duplicated in first-seen order
func ProductLinks(doc *goquery.Document, baseURL string) []string {
	if doc == nil {
		return nil
	}

	var links []string
	doc.Find(ProductCardSelector).Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" || !strings.Contains(href, "/products/") {
			return
		}
		links = append(links, urlutil.ResolveURL(baseURL, href))
	})

	return urlutil.Dedup(links)
}
