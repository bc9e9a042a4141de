package retry

import (
	"errors"

	"google.golang.org/api/googleapi"
)

// GoogleAPITransient reports whether a Google API client failure is worth
// retrying: throttling, server errors and network failures.
func GoogleAPITransient(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return TransientStatus(gerr.Code)
	}
	return IsNetworkError(err)
}
