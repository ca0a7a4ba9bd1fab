package github

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v72/github"

	"github.com/imamik/forkfleet/internal/provisioning"
	"github.com/imamik/forkfleet/internal/util/retry"
)

// classify tags an API error for the retry layer and for callers.
// Permanent errors are marked fatal so they are returned immediately,
// everything else is retried as transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isPermanent(err) {
		return retry.Fatal(provisioning.Permanent(err))
	}
	return provisioning.Transient(err)
}

// isPermanent reports whether the error cannot be fixed by retrying.
// Rate limits are checked first because GitHub delivers primary rate
// limits with a 403 status.
func isPermanent(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return false
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusUnprocessableEntity:
			return true
		}
	}

	// Network errors and 5xx responses are transient.
	return false
}
