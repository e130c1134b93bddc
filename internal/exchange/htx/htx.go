// Package htx adapts the Huobi/HTX spot REST dialect onto the
// canonical trading model. Private requests are signed with a base64
// HMAC-SHA256 over "METHOD\nhost\npath\nsorted-query" and carry the
// signature as a Signature query parameter alongside AccessKeyId and a
// second-resolution UTC timestamp. Success and failure both arrive
// under HTTP 200; the envelope status field decides.
package htx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/segmentio/encoding/json"

	"trade-connect/internal/core"
	"trade-connect/internal/exchange"
	"trade-connect/internal/safe"
)

const liveURL = "https://api.huobi.pro"

var endpointCosts = map[string]exchange.Cost{
	"/v1/common/timestamp":       {Base: 1},
	"/v1/common/symbols":         {Base: 1},
	"/v2/reference/currencies":   {Base: 1},
	"/market/detail/merged":      {Base: 1},
	"/market/depth":              {Base: 1},
	"/v1/account/accounts":       {Base: 2},
	"/v1/order/orders/place":     {Base: 1},
	"/v1/order/openOrders":       {Base: 1},
	"/v1/order/matchresults":     {Base: 2},
	"/v1/query/deposit-withdraw": {Base: 2},
}

var errorMap = exchange.ErrorMap{
	Exact: map[string]error{
		"bad-request":                core.ErrBadRequest,
		"base-date-limit-error":      core.ErrBadRequest,
		"invalid-address":            core.ErrBadRequest,
		"base-currency-chain-error":  core.ErrBadRequest,
		"api-not-support-temp-addr":  core.ErrPermissionDenied,
		"timeout":                    core.ErrRequestTimeout,
		"gateway-internal-error":     core.ErrExchangeNotAvailable,
		"order-update-error":         core.ErrExchangeNotAvailable,
		"api-signature-check-failed": core.ErrAuthentication,
		"api-signature-not-valid":    core.ErrAuthentication,
		"base-symbol-trade-disabled": core.ErrBadSymbol,
		"base-symbol-error":          core.ErrBadSymbol,
		"system-maintenance":         core.ErrOnMaintenance,
		"dw-insufficient-balance":    core.ErrInsufficientFunds,

		"account-frozen-balance-insufficient-error": core.ErrInsufficientFunds,

		"invalid-amount":                     core.ErrInvalidOrder,
		"order-limitorder-amount-min-error":  core.ErrInvalidOrder,
		"order-limitorder-amount-max-error":  core.ErrInvalidOrder,
		"order-marketorder-amount-min-error": core.ErrInvalidOrder,
		"order-limitorder-price-min-error":   core.ErrInvalidOrder,
		"order-limitorder-price-max-error":   core.ErrInvalidOrder,
		"order-holding-limit-failed":         core.ErrInvalidOrder,
		"order-orderprice-precision-error":   core.ErrInvalidOrder,
		"order-orderstate-error":             core.ErrOrderNotFound,
		"order-queryorder-invalid":           core.ErrOrderNotFound,
		"base-record-invalid":                core.ErrOrderNotFound,
	},
	Broad: map[string]error{
		"invalid symbol":            core.ErrBadSymbol,
		"symbol trade not open now": core.ErrBadSymbol,
	},
}

var orderStatuses = map[string]core.OrderStatus{
	"submitted":        core.OrderOpen,
	"created":          core.OrderOpen,
	"partial-filled":   core.OrderOpen,
	"filled":           core.OrderClosed,
	"canceled":         core.OrderCanceled,
	"partial-canceled": core.OrderCanceled,
}

var depositStatuses = map[string]core.TransactionStatus{
	"unknown":    core.TransactionFailed,
	"confirming": core.TransactionPending,
	"confirmed":  core.TransactionOK,
	"safe":       core.TransactionOK,
	"orphan":     core.TransactionFailed,
}

var withdrawalStatuses = map[string]core.TransactionStatus{
	"submitted":       core.TransactionPending,
	"reexamine":       core.TransactionPending,
	"pass":            core.TransactionPending,
	"pre-transfer":    core.TransactionPending,
	"wallet-transfer": core.TransactionPending,
	"canceled":        core.TransactionCanceled,
	"reject":          core.TransactionFailed,
	"wallet-reject":   core.TransactionFailed,
	"confirm-error":   core.TransactionFailed,
	"repealed":        core.TransactionFailed,
	"confirmed":       core.TransactionOK,
}

type Client struct {
	*exchange.Base

	mu        sync.Mutex
	accountID string
}

func New(opts exchange.Options) *Client {
	base := exchange.NewBase(exchange.BaseConfig{
		ID:      "htx",
		BaseURL: liveURL,
		NetworkAliases: map[string]string{
			"ERC20": "ETH",
			"TRC20": "TRX",
			"HRC20": "HECO",
		},
	}, opts)
	return &Client{Base: base}
}

func (c *Client) Name() string { return "htx" }

// sign builds the transmit-ready request. The signature covers the
// method, the host, the path and the sorted query encoding joined by
// newlines; POST business parameters travel as a JSON body and only
// the auth parameters are part of the signed query.
func (c *Client) sign(method, path string, query url.Values, body string, scope exchange.Scope) (exchange.Request, error) {
	headers := http.Header{}
	if body != "" {
		headers.Set("Content-Type", "application/json")
	}
	if query == nil {
		query = url.Values{}
	}
	if scope == exchange.Private {
		if err := c.CheckRequiredCredentials(path, false); err != nil {
			return exchange.Request{}, err
		}
		query.Set("AccessKeyId", c.APIKey())
		query.Set("SignatureMethod", "HmacSHA256")
		query.Set("SignatureVersion", "2")
		query.Set("Timestamp", exchange.YMDHMS(c.AdjustedMilliseconds()))
		host := c.Host()
		payload := method + "\n" + host + "\n" + path + "\n" + exchange.Urlencode(query)
		query.Set("Signature", exchange.HMACSHA256Base64(payload, c.Secret()))
	}
	reqURL := c.BaseURL() + path
	if encoded := exchange.Urlencode(query); encoded != "" {
		reqURL += "?" + encoded
	}
	return exchange.Request{Method: method, URL: reqURL, Headers: headers, Body: body}, nil
}

// Host returns the hostname component of the configured base URL, the
// piece the signature payload names.
func (c *Client) Host() string {
	parsed, err := url.Parse(c.BaseURL())
	if err != nil {
		return ""
	}
	return parsed.Host
}

func (c *Client) handleErrors(method string, status int, body []byte) error {
	response, parseErr := safe.ParseJSON(body)
	envelope := safe.String(response, "status")
	if status/100 == 2 && envelope != "error" {
		return nil
	}
	apiErr := &core.APIError{
		Exchange: c.ID(),
		Method:   method,
		Code:     safe.String(response, "err-code"),
		Message:  safe.String(response, "err-msg"),
		Body:     string(body),
	}
	if kind := exchange.HTTPStatusKind(status); kind != nil {
		return exchange.WrapAPIError(apiErr, kind)
	}
	if parseErr != nil {
		return exchange.WrapAPIError(apiErr, core.ErrBadResponse)
	}
	return exchange.WrapAPIError(apiErr, errorMap.Classify(apiErr.Code, apiErr.Message))
}

func (c *Client) request(ctx context.Context, method, path, apiMethod string, query url.Values, payload any, scope exchange.Scope) (any, error) {
	cost, err := exchange.ResolveCost(endpointCosts[path], nil)
	if err != nil {
		return nil, err
	}
	if err := c.Throttle(ctx, path, cost); err != nil {
		return nil, err
	}
	body := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("htx %s: encode request: %w", apiMethod, err)
		}
		body = string(encoded)
	}
	req, err := c.sign(method, path, query, body, scope)
	if err != nil {
		return nil, err
	}
	status, responseBody, err := c.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.handleErrors(apiMethod, status, responseBody); err != nil {
		return nil, err
	}
	response, err := safe.ParseJSON(responseBody)
	if err != nil {
		return nil, fmt.Errorf("%w: htx %s: %v", core.ErrBadResponse, apiMethod, err)
	}
	return response, nil
}

func (c *Client) FetchTime(ctx context.Context) (int64, error) {
	response, err := c.request(ctx, http.MethodGet, "/v1/common/timestamp", "FetchTime", nil, nil, exchange.Public)
	if err != nil {
		return 0, err
	}
	serverTime := safe.Integer(response, "data")
	if serverTime == 0 {
		return 0, fmt.Errorf("%w: htx FetchTime: missing data", core.ErrBadResponse)
	}
	c.ApplyServerTime(serverTime)
	return serverTime, nil
}

func (c *Client) FetchMarkets(ctx context.Context) ([]core.Market, error) {
	response, err := c.request(ctx, http.MethodGet, "/v1/common/symbols", "FetchMarkets", nil, nil, exchange.Public)
	if err != nil {
		return nil, err
	}
	rows := safe.List(response, "data")
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: htx FetchMarkets: empty symbol list", core.ErrBadResponse)
	}
	markets := make([]core.Market, 0, len(rows))
	for _, row := range rows {
		markets = append(markets, c.parseMarket(row))
	}
	return markets, nil
}

func (c *Client) FetchCurrencies(ctx context.Context) ([]core.Currency, error) {
	response, err := c.request(ctx, http.MethodGet, "/v2/reference/currencies", "FetchCurrencies", nil, nil, exchange.Public)
	if err != nil {
		return nil, err
	}
	rows := safe.List(response, "data")
	currencies := make([]core.Currency, 0, len(rows))
	for _, row := range rows {
		currencies = append(currencies, c.parseCurrency(row))
	}
	return currencies, nil
}

func (c *Client) LoadMarkets(ctx context.Context) (*exchange.Snapshot, error) {
	markets, err := c.FetchMarkets(ctx)
	if err != nil {
		return nil, err
	}
	currencies, err := c.FetchCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	snap := exchange.NewSnapshot(markets, currencies)
	c.SetSnapshot(snap)
	return snap, nil
}

func (c *Client) FetchTicker(ctx context.Context, symbol string) (core.Ticker, error) {
	market, err := c.Market(symbol)
	if err != nil {
		return core.Ticker{}, err
	}
	query := url.Values{}
	query.Set("symbol", market.ID)
	response, err := c.request(ctx, http.MethodGet, "/market/detail/merged", "FetchTicker", query, nil, exchange.Public)
	if err != nil {
		return core.Ticker{}, err
	}
	tick := safe.Map(response, "tick")
	if tick == nil {
		return core.Ticker{}, fmt.Errorf("%w: htx FetchTicker: missing tick for %s", core.ErrBadResponse, symbol)
	}
	ticker := c.parseTicker(tick, market)
	if ticker.Timestamp == 0 {
		ticker.Timestamp = safe.Integer(response, "ts")
	}
	return ticker, nil
}

func (c *Client) FetchOrderBook(ctx context.Context, symbol string, limit int) (core.OrderBook, error) {
	market, err := c.Market(symbol)
	if err != nil {
		return core.OrderBook{}, err
	}
	query := url.Values{}
	query.Set("symbol", market.ID)
	query.Set("type", "step0")
	if limit > 0 {
		query.Set("depth", strconv.Itoa(limit))
	}
	response, err := c.request(ctx, http.MethodGet, "/market/depth", "FetchOrderBook", query, nil, exchange.Public)
	if err != nil {
		return core.OrderBook{}, err
	}
	tick := safe.Map(response, "tick")
	if tick == nil {
		return core.OrderBook{}, fmt.Errorf("%w: htx FetchOrderBook: missing tick for %s", core.ErrBadResponse, symbol)
	}
	return core.OrderBook{
		Symbol:    market.Symbol,
		Bids:      exchange.ParseBookSide(safe.List(tick, "bids")),
		Asks:      exchange.ParseBookSide(safe.List(tick, "asks")),
		Timestamp: safe.Integer2(tick, "ts", "version"),
		Nonce:     safe.Integer(tick, "version"),
		Info:      tick,
	}, nil
}

// AccountID resolves and caches the spot account id that the order and
// balance endpoints key on.
func (c *Client) AccountID(ctx context.Context) (string, error) {
	c.mu.Lock()
	cached := c.accountID
	c.mu.Unlock()
	if cached != "" {
		return cached, nil
	}
	response, err := c.request(ctx, http.MethodGet, "/v1/account/accounts", "FetchAccounts", nil, nil, exchange.Private)
	if err != nil {
		return "", err
	}
	for _, row := range safe.List(response, "data") {
		if safe.String(row, "type") == "spot" && safe.String(row, "state") == "working" {
			id := safe.String(row, "id")
			c.mu.Lock()
			c.accountID = id
			c.mu.Unlock()
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: htx: no working spot account", core.ErrBadResponse)
}

func (c *Client) FetchBalance(ctx context.Context) (core.Balances, error) {
	accountID, err := c.AccountID(ctx)
	if err != nil {
		return core.Balances{}, err
	}
	path := "/v1/account/accounts/" + accountID + "/balance"
	response, err := c.request(ctx, http.MethodGet, path, "FetchBalance", nil, nil, exchange.Private)
	if err != nil {
		return core.Balances{}, err
	}
	return c.parseBalances(safe.Map(response, "data")), nil
}

func (c *Client) CreateOrder(ctx context.Context, symbol string, orderType core.OrderType, side core.Side, amount, price string) (core.Order, error) {
	market, err := c.Market(symbol)
	if err != nil {
		return core.Order{}, err
	}
	accountID, err := c.AccountID(ctx)
	if err != nil {
		return core.Order{}, err
	}
	order, err := core.ApplyPrecision(market, core.Order{
		Symbol: symbol, Type: orderType, Side: side, Amount: amount, Price: price,
	})
	if err != nil {
		return core.Order{}, err
	}
	payload := map[string]string{
		"account-id":      accountID,
		"symbol":          market.ID,
		"type":            string(side) + "-" + string(orderType),
		"amount":          order.Amount,
		"client-order-id": c.ClientOrderID("tc"),
	}
	if orderType == core.LimitOrder {
		payload["price"] = order.Price
	}
	response, err := c.request(ctx, http.MethodPost, "/v1/order/orders/place", "CreateOrder", nil, payload, exchange.Private)
	if err != nil {
		return core.Order{}, err
	}
	id := safe.String(response, "data")
	if id == "" {
		return core.Order{}, fmt.Errorf("%w: htx CreateOrder: missing order id", core.ErrBadResponse)
	}
	order.ID = id
	order.ClientOrderID = payload["client-order-id"]
	order.Status = core.OrderOpen
	order.Timestamp = c.Milliseconds()
	order.Info = response
	exchange.FinalizeOrder(&order)
	return order, nil
}

func (c *Client) CancelOrder(ctx context.Context, id, symbol string) error {
	_ = symbol // the endpoint is keyed by order id alone
	path := "/v1/order/orders/" + url.PathEscape(id) + "/submitcancel"
	_, err := c.request(ctx, http.MethodPost, path, "CancelOrder", nil, map[string]string{}, exchange.Private)
	return err
}

func (c *Client) FetchOrder(ctx context.Context, id, symbol string) (core.Order, error) {
	var market *core.Market
	if symbol != "" {
		var err error
		market, err = c.Market(symbol)
		if err != nil {
			return core.Order{}, err
		}
	}
	path := "/v1/order/orders/" + url.PathEscape(id)
	response, err := c.request(ctx, http.MethodGet, path, "FetchOrder", nil, nil, exchange.Private)
	if err != nil {
		return core.Order{}, err
	}
	row := safe.Map(response, "data")
	if row == nil {
		return core.Order{}, fmt.Errorf("%w: htx FetchOrder: order %s not found", core.ErrOrderNotFound, id)
	}
	return c.parseOrder(row, market), nil
}

func (c *Client) FetchOpenOrders(ctx context.Context, symbol string) ([]core.Order, error) {
	if err := exchange.RequireArgument(c.ID(), "FetchOpenOrders", "symbol", symbol); err != nil {
		return nil, err
	}
	market, err := c.Market(symbol)
	if err != nil {
		return nil, err
	}
	accountID, err := c.AccountID(ctx)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("symbol", market.ID)
	query.Set("account-id", accountID)
	response, err := c.request(ctx, http.MethodGet, "/v1/order/openOrders", "FetchOpenOrders", query, nil, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows := safe.List(response, "data")
	orders := make([]core.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, c.parseOrder(row, market))
	}
	return orders, nil
}

func (c *Client) FetchMyTrades(ctx context.Context, symbol string) ([]core.Trade, error) {
	if err := exchange.RequireArgument(c.ID(), "FetchMyTrades", "symbol", symbol); err != nil {
		return nil, err
	}
	market, err := c.Market(symbol)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("symbol", market.ID)
	response, err := c.request(ctx, http.MethodGet, "/v1/order/matchresults", "FetchMyTrades", query, nil, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows := safe.List(response, "data")
	trades := make([]core.Trade, 0, len(rows))
	for _, row := range rows {
		trades = append(trades, c.parseTrade(row, market))
	}
	return trades, nil
}

func (c *Client) FetchDeposits(ctx context.Context, code string) ([]core.Transaction, error) {
	return c.fetchTransfers(ctx, "FetchDeposits", "deposit", code, core.Deposit)
}

func (c *Client) FetchWithdrawals(ctx context.Context, code string) ([]core.Transaction, error) {
	return c.fetchTransfers(ctx, "FetchWithdrawals", "withdraw", code, core.Withdrawal)
}

func (c *Client) fetchTransfers(ctx context.Context, apiMethod, transferType, code string, txType core.TransactionType) ([]core.Transaction, error) {
	query := url.Values{}
	query.Set("type", transferType)
	if code != "" {
		query.Set("currency", strings.ToLower(code))
	}
	response, err := c.request(ctx, http.MethodGet, "/v1/query/deposit-withdraw", apiMethod, query, nil, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows := safe.List(response, "data")
	transactions := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, c.parseTransaction(row, txType))
	}
	return transactions, nil
}
