package respond

import (
	"regexp"
)

var (
	// Provider API keys travel as query parameters or headers and can leak
	// through wrapped transport errors.
	apiKeyQueryPattern  = regexp.MustCompile(`(api-key|api-secret|apiKey)=[^&\s"]+`)
	apiKeyHeaderPattern = regexp.MustCompile(`(X-Api-Key:\s*)[^\s"]+`)

	// Database passwords inside a DSN
	dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	msg = apiKeyQueryPattern.ReplaceAllString(msg, "$1=****")
	msg = apiKeyHeaderPattern.ReplaceAllString(msg, "${1}****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
