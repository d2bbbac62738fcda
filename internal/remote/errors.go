package remote

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// rate-limit reasons returned by the Drive API inside 403 responses.
// A plain 429 is also treated as rate limiting.
var rateLimitReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"quotaExceeded":         true,
}

// IsRateLimit reports whether err is a transient Drive API rate-limit or
// quota error that is safe to retry after a pause.
func IsRateLimit(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}

	if apiErr.Code == http.StatusTooManyRequests {
		return true
	}

	if apiErr.Code != http.StatusForbidden {
		return false
	}

	for _, e := range apiErr.Errors {
		if rateLimitReasons[e.Reason] {
			return true
		}
	}

	return false
}
