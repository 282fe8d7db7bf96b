// Package fetch — URL helpers.
// Normalizes the configured base URL and builds API paths from it.
package fetch

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeBaseURL validates rawURL and strips its fragment, query and
// trailing slash so API paths can be appended directly.
func NormalizeBaseURL(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL must use http or https, got %q", rawURL)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("base URL must include a host, got %q", rawURL)
	}

	// Remove fragment and query.
	parsed.Fragment = ""
	parsed.RawQuery = ""

	// Remove trailing slash.
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	return parsed.String(), nil
}

// chronologyPath returns the chronology endpoint for a book.
func chronologyPath(bookID string) string {
	return "/api/v0/books/" + url.PathEscape(bookID) + "/chronology/"
}
