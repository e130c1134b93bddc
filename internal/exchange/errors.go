package exchange

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"trade-connect/internal/core"
)

// ErrorMap is the two-tier vendor-failure classification table. Exact
// maps a machine code or a literal message to a kind and always wins;
// Broad maps a message substring to a kind and is consulted only when
// Exact found nothing. Venues are inconsistent about exposing stable
// codes versus free-text prose, hence the two tiers.
type ErrorMap struct {
	Exact map[string]error
	Broad map[string]error
}

// Classify resolves a vendor code/message pair to an error kind, or
// nil when nothing matches. The broad scan walks keys in sorted order
// so classification is deterministic.
func (m ErrorMap) Classify(code, message string) error {
	if code != "" {
		if kind, ok := m.Exact[code]; ok {
			return kind
		}
	}
	if message == "" {
		return nil
	}
	if kind, ok := m.Exact[message]; ok {
		return kind
	}
	keys := make([]string, 0, len(m.Broad))
	for key := range m.Broad {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(message, key) {
			return m.Broad[key]
		}
	}
	return nil
}

// WrapAPIError joins the vendor detail with its classified kind;
// unmapped failures fall through to the generic core.ErrExchange with
// the raw body preserved for diagnostics.
func WrapAPIError(apiErr *core.APIError, kind error) error {
	if kind == nil {
		kind = core.ErrExchange
	}
	return errors.Join(apiErr, kind)
}

// HTTPStatusKind maps transport-level status codes that venues use as
// signals onto kinds, ahead of any body inspection.
func HTTPStatusKind(status int) error {
	switch {
	case status == 418:
		return core.ErrBlocked
	case status == 429:
		return core.ErrRateLimited
	case status == 408 || status == 504:
		return core.ErrRequestTimeout
	case status == 503:
		return core.ErrExchangeNotAvailable
	case status >= 500:
		return core.ErrExchangeNotAvailable
	}
	return nil
}

// RequireArgument guards venue-mandated parameters before any network
// attempt.
func RequireArgument(exchangeID, method, name, value string) error {
	if value != "" {
		return nil
	}
	return fmt.Errorf("%w: %s %s requires %s", core.ErrArgumentsRequired, exchangeID, method, name)
}
