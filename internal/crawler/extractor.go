package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagesift/pagesift/internal/config"
	"github.com/pagesift/pagesift/internal/model"
)

// Extractor pulls selector fields and anchor targets out of one page's HTML.
// It is domain-agnostic: link extraction resolves and de-duplicates URLs but
// never filters them by scope; scope filtering belongs to the crawl engine.
//
// Design decision: We use goquery rather than walking x/net/html nodes by
// hand because the crawl's tag/optional-class selectors map directly onto
// CSS selectors, and goquery keeps matches in document order.
type Extractor struct {
	// baseURL is the page's own URL, used to resolve relative hrefs.
	baseURL *url.URL
}

// NewExtractor creates an Extractor for the page at pageURL.
func NewExtractor(pageURL string) (*Extractor, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	return &Extractor{baseURL: u}, nil
}

// Parse parses the page body into a queryable document. The underlying
// parser tolerates malformed HTML, so errors are rare; callers degrade to
// empty extraction results rather than failing the crawl.
func (e *Extractor) Parse(body string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

// ExtractFields returns one FieldResult per selector, in selector order.
// Each holds the trimmed visible text of every matching element in document
// order. An unmatched selector yields an empty (non-nil) list so the field
// still appears in serialized output.
func (e *Extractor) ExtractFields(doc *goquery.Document, selectors config.Selectors) []model.FieldResult {
	fields := make([]model.FieldResult, 0, len(selectors))
	for _, sel := range selectors {
		values := []string{}
		doc.Find(sel.String()).Each(func(_ int, s *goquery.Selection) {
			values = append(values, strings.TrimSpace(s.Text()))
		})
		fields = append(fields, model.FieldResult{Name: sel.Tag, Values: values})
	}
	return fields
}

// ExtractLinks returns the absolute targets of every anchor on the page.
// Relative, protocol-relative, and absolute hrefs are resolved against the
// page URL; anchors without an href and non-navigational pseudo-links
// (javascript:, mailto:, tel:, data:, bare fragments) are ignored. The
// result is de-duplicated preserving first-seen document order and is NOT
// filtered by scope.
func (e *Extractor) ExtractLinks(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	links := make([]string, 0)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved := e.resolveURL(href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links
}

// resolveURL resolves an href against the page URL. It returns "" for
// hrefs that do not point at fetchable documents.
func (e *Extractor) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return e.baseURL.ResolveReference(u).String()
}
