// Package exchange carries the machinery shared by every venue
// adapter: the request descriptor and signing helpers, credential and
// nonce handling, the markets snapshot, the two-tier error
// classification tables, the rate-limit cost model and the shared
// normalization finalizers.
package exchange

import (
	"context"
	"net/http"

	"trade-connect/internal/core"
)

// Scope selects the authentication level of an endpoint.
type Scope string

const (
	Public  Scope = "public"
	Private Scope = "private"
)

// Request is a fully signed request descriptor, ready to be
// transmitted verbatim by the HTTP transport.
type Request struct {
	URL     string
	Method  string
	Headers http.Header
	Body    string
}

// Exchange is the canonical adapter surface. Every method builds a
// request, signs it, performs the HTTP call through the injected
// transport, classifies vendor failures and normalizes the payload
// into canonical records.
type Exchange interface {
	Name() string

	LoadMarkets(ctx context.Context) (*Snapshot, error)
	FetchMarkets(ctx context.Context) ([]core.Market, error)
	FetchTicker(ctx context.Context, symbol string) (core.Ticker, error)
	FetchOrderBook(ctx context.Context, symbol string, limit int) (core.OrderBook, error)

	FetchBalance(ctx context.Context) (core.Balances, error)
	CreateOrder(ctx context.Context, symbol string, orderType core.OrderType, side core.Side, amount, price string) (core.Order, error)
	CancelOrder(ctx context.Context, id, symbol string) error
	FetchOrder(ctx context.Context, id, symbol string) (core.Order, error)
	FetchOpenOrders(ctx context.Context, symbol string) ([]core.Order, error)
	FetchMyTrades(ctx context.Context, symbol string) ([]core.Trade, error)
	FetchDeposits(ctx context.Context, code string) ([]core.Transaction, error)
	FetchWithdrawals(ctx context.Context, code string) ([]core.Transaction, error)
}
