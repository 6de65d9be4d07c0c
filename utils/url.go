package utils

import (
	"net/url"
	"strings"
)

// NormalizeImageURL re-encodes an artwork URL that may contain raw spaces.
// The catalog upstream occasionally emits poster paths with unencoded
// spaces, which break as HTTP request targets.
func NormalizeImageURL(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}

	normalized := parsed.Scheme + "://" + parsed.Host + parsed.EscapedPath()
	if parsed.RawQuery != "" {
		normalized += "?" + strings.ReplaceAll(parsed.RawQuery, " ", "%20")
	}
	return normalized, nil
}
