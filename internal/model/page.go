package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// LinksField is the reserved field name under which each page's internal
// links are reported. Selector tags must not collide with it.
const LinksField = "links"

// FieldResult holds the extracted text for one selector on one page.
// Values preserves document order.
type FieldResult struct {
	// Name is the selector's tag name (e.g. "h1", "p").
	Name string

	// Values is the trimmed visible text of every matched element,
	// in document order. Never nil: an unmatched selector yields an
	// empty slice so it still appears in serialized output.
	Values []string
}

// PageResult is the extraction output for one successfully fetched page.
// Pages that fail to fetch produce no PageResult.
//
// Design decision: Fields is an ordered slice rather than a map because the
// serialized page object must keep a stable key order (selector order, then
// "links"). A map would marshal in sorted-key order, which is deterministic
// but loses the selector ordering callers asked for.
type PageResult struct {
	// URL is the page's own URL. It is run metadata, not part of the
	// serialized page object.
	URL string `json:"-"`

	// Fields holds one entry per selector, in selector order.
	Fields []FieldResult

	// Links contains the page's internal (same-domain) links, resolved to
	// absolute URLs, de-duplicated, in first-seen document order.
	Links []string
}

// MarshalJSON serializes the page as a JSON object with one key per selector
// tag (in selector order) followed by the "links" key. Empty value lists
// marshal as [] rather than null.
func (p *PageResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for _, f := range p.Fields {
		if err := writeField(&buf, f.Name, f.Values); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}

	if err := writeField(&buf, LinksField, p.Links); err != nil {
		return nil, err
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// writeField appends `"name":["v1","v2"]` to buf.
func writeField(buf *bytes.Buffer, name string, values []string) error {
	key, err := json.Marshal(name)
	if err != nil {
		return err
	}
	if values == nil {
		values = []string{}
	}
	vals, err := json.Marshal(values)
	if err != nil {
		return err
	}
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(vals)
	return nil
}

// Field returns the values extracted for the named selector, or nil if the
// selector was not part of the crawl.
func (p *PageResult) Field(name string) []string {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Values
		}
	}
	return nil
}

// Failure records one URL that was dequeued but could not be fetched.
// Failed URLs are dropped from the crawl without retry.
type Failure struct {
	// URL is the URL whose fetch failed.
	URL string `json:"url"`

	// Reason is a human-readable description of the transport failure.
	Reason string `json:"reason"`
}

// Crawl is the complete result of one crawl run.
//
// Pages holds one PageResult per successfully fetched page, in the order
// pages were fetched (BFS order). Only Pages is written to the JSON sink;
// the rest is run metadata used by the summary report and the history
// database.
type Crawl struct {
	// Seed is the URL the crawl started from.
	Seed string `json:"seed"`

	// Origin is the network location (host[:port]) that bounded the crawl.
	Origin string `json:"origin"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the crawl loop terminated.
	FinishedAt time.Time `json:"finished_at"`

	// MaxPages is the page budget the crawl ran with.
	MaxPages int `json:"max_pages"`

	// Pages are the per-page results in BFS fetch order.
	Pages []*PageResult `json:"pages"`

	// Failures are the URLs that were dequeued but failed to fetch.
	Failures []Failure `json:"failures,omitempty"`
}

// Duration returns the wall-clock time the crawl took.
func (c *Crawl) Duration() time.Duration {
	return c.FinishedAt.Sub(c.StartedAt)
}
