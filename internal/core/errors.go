package core

import (
	"errors"
	"fmt"
)

// Shared error kinds vendor failures are classified into. Adapters
// join the vendor-specific APIError with one of these so callers can
// match on the kind with errors.Is while keeping the original vendor
// message for diagnostics.
var (
	// ErrExchange is the generic kind for vendor-signaled failures
	// that no table entry recognizes.
	ErrExchange = errors.New("exchange error")
	// ErrAuthentication indicates rejected or malformed credentials.
	ErrAuthentication = errors.New("authentication error")
	// ErrPermissionDenied indicates valid credentials lacking the
	// required permission.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInsufficientFunds indicates the account cannot cover the
	// requested action.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidOrder indicates the venue rejected the order terms.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrOrderNotFound indicates the order does not exist on the venue.
	ErrOrderNotFound = errors.New("order not found")
	// ErrBadSymbol indicates an unknown or disabled instrument.
	ErrBadSymbol = errors.New("bad symbol")
	// ErrBadRequest indicates a malformed request parameter.
	ErrBadRequest = errors.New("bad request")
	// ErrBadResponse indicates a vendor payload the normalization
	// pipeline cannot make sense of.
	ErrBadResponse = errors.New("bad response")
	// ErrRateLimited indicates the venue throttled the caller.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrBlocked indicates the venue's DDoS protection engaged.
	ErrBlocked = errors.New("blocked by ddos protection")
	// ErrOnMaintenance indicates the venue is down for maintenance.
	ErrOnMaintenance = errors.New("exchange on maintenance")
	// ErrExchangeNotAvailable indicates a venue-side outage.
	ErrExchangeNotAvailable = errors.New("exchange not available")
	// ErrInvalidNonce indicates a stale or reused timestamp/nonce.
	ErrInvalidNonce = errors.New("invalid nonce")
	// ErrRequestTimeout indicates the venue reported a timed-out call.
	ErrRequestTimeout = errors.New("request timeout")
	// ErrNetwork indicates a transport-level failure.
	ErrNetwork = errors.New("network error")
)

// Precondition faults raised locally, before any network attempt.
var (
	// ErrCredentialsRequired indicates a private call attempted
	// without the credentials the venue requires.
	ErrCredentialsRequired = errors.New("credentials required")
	// ErrArgumentsRequired indicates a missing required argument,
	// e.g. a symbol the venue mandates.
	ErrArgumentsRequired = errors.New("arguments required")
)

// APIError is a vendor-reported failure. Exchange and Method identify
// the adapter call for traceability across a multi-adapter caller.
type APIError struct {
	Exchange string
	Method   string
	Code     string
	Message  string
	Body     string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if e.Code != "" {
		return fmt.Sprintf("%s %s: [%s] %s", e.Exchange, e.Method, e.Code, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Exchange, e.Method, msg)
}

// AsAPIError unwraps the vendor error detail from a classified error.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if err == nil || !errors.As(err, &apiErr) {
		return nil, false
	}
	return apiErr, true
}
