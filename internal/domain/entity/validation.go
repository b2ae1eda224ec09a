package entity

import (
	"fmt"
	"net/url"
)

// maxURLLength bounds stored URLs; provider payloads are untrusted input.
const maxURLLength = 2048

// ValidateURL validates the format of an article or source URL.
// It checks that the URL is well-formed, uses an HTTP/HTTPS scheme and has a
// host. Returns a ValidationError when the URL is missing or malformed.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "url is not well-formed"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}
	if parsed.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}
	return nil
}
