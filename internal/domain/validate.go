package domain

import (
	"net/url"
	"sort"
	"strings"
)

// ValidationError carries field-scoped messages for rejected input.
// It is returned before any store operation takes place.
type ValidationError struct {
	Fields map[string]string // field name -> message
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// ValidateCreate checks user input for a new bookmark and returns the
// trimmed title and URL. A nil error means both fields are usable.
func ValidateCreate(title, rawURL string) (string, string, *ValidationError) {
	title = strings.TrimSpace(title)
	rawURL = strings.TrimSpace(rawURL)

	fields := make(map[string]string)

	if title == "" {
		fields["title"] = "Title is required"
	}

	if rawURL == "" {
		fields["url"] = "URL is required"
	} else if !IsValidURL(rawURL) {
		fields["url"] = "Please enter a valid URL (e.g. https://example.com)"
	}

	if len(fields) > 0 {
		return title, rawURL, &ValidationError{Fields: fields}
	}
	return title, rawURL, nil
}

// IsValidURL reports whether raw parses as an absolute URL with an
// http or https scheme.
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
