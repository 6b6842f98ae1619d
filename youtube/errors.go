package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/api/googleapi"
)

// Kind is the stable failure discriminant returned with every operation
// error. Callers branch on Kind, never on message text.
type Kind string

const (
	// KindInvalidInput: caller-supplied data failed local validation.
	KindInvalidInput Kind = "invalid_input"
	// KindInvalidReference: no recognizable video id in the given URL.
	KindInvalidReference Kind = "invalid_reference"
	// KindNotFound: the remote resource does not exist or is inaccessible.
	KindNotFound Kind = "not_found"
	// KindPermissionDenied: the credential lacks access to the resource.
	KindPermissionDenied Kind = "permission_denied"
	// KindQuotaExceeded: the API quota or rate limit was exhausted.
	KindQuotaExceeded Kind = "quota_exceeded"
	// KindNetwork: transport-level failure, including timeouts.
	KindNetwork Kind = "network_error"
	// KindRemote: any other remote-reported fault.
	KindRemote Kind = "remote_error"
	// KindAuth: a credential could not be obtained or refreshed.
	KindAuth Kind = "auth_error"
)

// Error is the classified failure shape for all operations.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func invalidReference(raw string) *Error {
	return &Error{Kind: KindInvalidReference, Message: fmt.Sprintf("no video id found in %q", raw)}
}

func authError(err error) *Error {
	return &Error{Kind: KindAuth, Message: "could not obtain credentials: " + err.Error(), Err: err}
}

// Classify maps any error coming out of a remote call to an *Error with
// a stable Kind. Classification happens once at the call boundary; an
// already-classified error passes through unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 404:
			return &Error{Kind: KindNotFound, Message: "resource not found or inaccessible (404)", Err: err}
		case gerr.Code == 429:
			return &Error{Kind: KindQuotaExceeded, Message: "api quota exceeded", Err: err}
		case gerr.Code == 403 && isQuotaReason(gerr):
			return &Error{Kind: KindQuotaExceeded, Message: "api quota exceeded", Err: err}
		case gerr.Code == 403:
			return &Error{Kind: KindPermissionDenied, Message: "permission denied by remote api", Err: err}
		case gerr.Code == 401:
			return &Error{Kind: KindAuth, Message: "remote api rejected credentials", Err: err}
		default:
			return &Error{Kind: KindRemote, Message: fmt.Sprintf("remote api error (status %d)", gerr.Code), Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindNetwork, Message: "request timed out", Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Error{Kind: KindNetwork, Message: "network error: " + netErr.Error(), Err: err}
	}

	return &Error{Kind: KindRemote, Message: "remote error: " + err.Error(), Err: err}
}

// quota-flavored 403 reasons reported by the Data API.
func isQuotaReason(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
			return true
		}
	}
	return false
}

// isTransient reports whether a classified error is worth retrying.
// Validation, not-found, permission, and quota failures are permanent.
func isTransient(err error) bool {
	switch Classify(err).Kind {
	case KindNetwork, KindRemote:
		return true
	}
	return false
}
