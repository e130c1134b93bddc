package core

// OrderStatus is the canonical order state machine:
// open -> {closed, canceled, rejected, expired}. Vendor-specific
// intermediates such as "canceling" survive as extension values, and
// unseen vendor statuses pass through unchanged so an adapter keeps
// working when a venue adds states.
type OrderStatus string

const (
	OrderOpen     OrderStatus = "open"
	OrderClosed   OrderStatus = "closed"
	OrderCanceled OrderStatus = "canceled"
	OrderRejected OrderStatus = "rejected"
	OrderExpired  OrderStatus = "expired"

	// OrderCanceling is a common vendor intermediate kept as an
	// extension value rather than folded into canceled.
	OrderCanceling OrderStatus = "canceling"
)

// ParseOrderStatus maps a vendor status through a per-exchange table,
// falling back to the vendor value itself. The result is never empty
// for a non-empty input.
func ParseOrderStatus(vendor string, table map[string]OrderStatus) OrderStatus {
	if status, ok := table[vendor]; ok {
		return status
	}
	return OrderStatus(vendor)
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderClosed, OrderCanceled, OrderRejected, OrderExpired:
		return true
	}
	return false
}

// TransactionStatus is the canonical deposit/withdrawal state:
// pending -> {ok, canceled, failed}.
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionOK       TransactionStatus = "ok"
	TransactionCanceled TransactionStatus = "canceled"
	TransactionFailed   TransactionStatus = "failed"
)

// ParseTransactionStatus maps a vendor code through a per-direction
// table (deposits and withdrawals use different code spaces on most
// venues), with identity fallback like ParseOrderStatus.
func ParseTransactionStatus(vendor string, table map[string]TransactionStatus) TransactionStatus {
	if status, ok := table[vendor]; ok {
		return status
	}
	return TransactionStatus(vendor)
}
