package crawler

import (
	"net/url"
	"strings"
)

// IsInternal reports whether rawURL belongs to the crawl's origin domain.
// Origin is the network location (host or host:port) of the seed URL, as
// returned by url.URL.Host.
//
// The comparison is an exact, case-insensitive match of the network
// location, so "sub.example.com" is external to "example.com" and a
// non-default port makes a URL external to the portless origin. Malformed
// URLs are treated as external: they are never crawled and never fatal.
func IsInternal(rawURL, origin string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host != "" && strings.EqualFold(u.Host, origin)
}
