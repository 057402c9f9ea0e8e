package domain

import (
	"net/url"
	"strings"
)

// DisplayURL derives the short host string shown under a bookmark title.
// Example: "https://www.example.com/a/b" -> "example.com".
// Falls back to the raw string when it cannot be parsed.
func DisplayURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// FaviconURL returns the favicon lookup URL for a bookmark, or an empty
// string when the bookmark URL has no usable host.
func FaviconURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(u.Hostname()) + "&sz=32"
}
