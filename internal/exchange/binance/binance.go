// Package binance adapts the Binance spot REST dialect onto the
// canonical trading model. Private endpoints are signed with
// HMAC-SHA256 over the canonical query string, hex-encoded, with the
// API key in the X-MBX-APIKEY header.
package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"trade-connect/internal/core"
	"trade-connect/internal/exchange"
	"trade-connect/internal/safe"
)

const (
	liveURL    = "https://api.binance.com"
	sandboxURL = "https://testnet.binance.vision"
)

// Per-endpoint request weights in Binance limiter units. Depth is
// priced by the requested page size; the 24hr ticker without a symbol
// filter scans the whole universe and is priced accordingly.
var endpointCosts = map[string]exchange.Cost{
	"/api/v3/time":         {Base: 1},
	"/api/v3/exchangeInfo": {Base: 20},
	"/api/v3/depth":        {Base: 1, ByLimit: [][2]int{{100, 1}, {500, 5}, {1000, 10}, {5000, 50}}},
	"/api/v3/ticker/24hr":  {Base: 2, NoSymbol: 80},
	"/api/v3/account":      {Base: 20},
	"/api/v3/order":        {Base: 1},
	"/api/v3/openOrders":   {Base: 6, NoSymbol: 80},
	"/api/v3/myTrades":     {Base: 20},

	"/sapi/v1/capital/config/getall":    {Base: 10},
	"/sapi/v1/capital/deposit/hisrec":   {Base: 1},
	"/sapi/v1/capital/withdraw/history": {Base: 18},
}

var errorMap = exchange.ErrorMap{
	Exact: map[string]error{
		"-1002": core.ErrAuthentication,
		"-1003": core.ErrRateLimited,
		"-1013": core.ErrInvalidOrder,
		"-1021": core.ErrInvalidNonce,
		"-1022": core.ErrAuthentication,
		"-1100": core.ErrBadRequest,
		"-1102": core.ErrBadRequest,
		"-1121": core.ErrBadSymbol,
		"-2010": core.ErrInvalidOrder,
		"-2011": core.ErrOrderNotFound,
		"-2013": core.ErrOrderNotFound,
		"-2014": core.ErrAuthentication,
		"-2015": core.ErrAuthentication,

		"Order does not exist.": core.ErrOrderNotFound,
		"Unknown order sent.":   core.ErrOrderNotFound,
	},
	Broad: map[string]error{
		"insufficient balance": core.ErrInsufficientFunds,
		"Too many requests":    core.ErrRateLimited,
		"MIN_NOTIONAL":         core.ErrInvalidOrder,
		"LOT_SIZE":             core.ErrInvalidOrder,
		"PRICE_FILTER":         core.ErrInvalidOrder,
	},
}

var orderStatuses = map[string]core.OrderStatus{
	"NEW":              core.OrderOpen,
	"PARTIALLY_FILLED": core.OrderOpen,
	"FILLED":           core.OrderClosed,
	"CANCELED":         core.OrderCanceled,
	"PENDING_CANCEL":   core.OrderCanceling,
	"REJECTED":         core.OrderRejected,
	"EXPIRED":          core.OrderExpired,
	"EXPIRED_IN_MATCH": core.OrderExpired,
}

var depositStatuses = map[string]core.TransactionStatus{
	"0": core.TransactionPending,
	"1": core.TransactionOK,
	"6": core.TransactionOK, // credited, not yet withdrawable
	"7": core.TransactionFailed,
}

var withdrawalStatuses = map[string]core.TransactionStatus{
	"0": core.TransactionPending, // email sent
	"1": core.TransactionCanceled,
	"2": core.TransactionPending, // awaiting approval
	"3": core.TransactionFailed,
	"4": core.TransactionPending, // processing
	"5": core.TransactionFailed,
	"6": core.TransactionOK,
}

type Client struct {
	*exchange.Base
}

func New(opts exchange.Options) *Client {
	baseURL := liveURL
	if opts.Sandbox {
		baseURL = sandboxURL
	}
	base := exchange.NewBase(exchange.BaseConfig{
		ID:      "binance",
		BaseURL: baseURL,
		CurrencyAliases: map[string]string{
			"BCC":  "BCH",
			"YOYO": "YOYOW",
		},
		NetworkAliases: map[string]string{
			"ERC20": "ETH",
			"TRC20": "TRX",
			"BEP20": "BSC",
			"BEP2":  "BNB",
		},
	}, opts)
	return &Client{Base: base}
}

func (c *Client) Name() string { return "binance" }

// sign builds the transmit-ready request descriptor. Private scope
// attaches the skew-corrected timestamp and recvWindow, computes the
// HMAC over the sorted query encoding and appends it as the signature
// parameter; key placement is the X-MBX-APIKEY header.
func (c *Client) sign(method, path string, params url.Values, scope exchange.Scope) (exchange.Request, error) {
	headers := http.Header{}
	query := exchange.Urlencode(params)
	if scope == exchange.Private {
		if err := c.CheckRequiredCredentials(path, false); err != nil {
			return exchange.Request{}, err
		}
		params.Set("timestamp", strconv.FormatInt(c.AdjustedMilliseconds(), 10))
		if c.RecvWindowMs() > 0 {
			params.Set("recvWindow", strconv.FormatInt(c.RecvWindowMs(), 10))
		}
		query = exchange.Urlencode(params)
		query += "&signature=" + exchange.HMACSHA256Hex(query, c.Secret())
		headers.Set("X-MBX-APIKEY", c.APIKey())
	}
	req := exchange.Request{Method: method, Headers: headers, URL: c.BaseURL() + path}
	if method == http.MethodGet || method == http.MethodDelete {
		if query != "" {
			req.URL += "?" + query
		}
	} else {
		req.Body = query
		headers.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

// handleErrors classifies a response before any parsing: transport
// status first, then the exact error-code table, then broad message
// substrings, falling through to the generic exchange kind with the
// raw body attached.
func (c *Client) handleErrors(method string, status int, body []byte) error {
	response, parseErr := safe.ParseJSON(body)
	code := safe.String(response, "code")
	message := safe.String(response, "msg")
	failed := status/100 != 2 || strings.HasPrefix(code, "-")
	if !failed {
		return nil
	}
	apiErr := &core.APIError{Exchange: c.ID(), Method: method, Code: code, Message: message, Body: string(body)}
	if kind := exchange.HTTPStatusKind(status); kind != nil {
		return exchange.WrapAPIError(apiErr, kind)
	}
	if parseErr != nil {
		return exchange.WrapAPIError(apiErr, core.ErrBadResponse)
	}
	return exchange.WrapAPIError(apiErr, errorMap.Classify(code, message))
}

func (c *Client) request(ctx context.Context, method, path, apiMethod string, params url.Values, scope exchange.Scope) (any, error) {
	cost, err := exchange.ResolveCost(endpointCosts[path], costParams(params))
	if err != nil {
		return nil, err
	}
	if err := c.Throttle(ctx, path, cost); err != nil {
		return nil, err
	}
	req, err := c.sign(method, path, params, scope)
	if err != nil {
		return nil, err
	}
	status, body, err := c.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.handleErrors(apiMethod, status, body); err != nil {
		return nil, err
	}
	response, err := safe.ParseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: binance %s: %v", core.ErrBadResponse, apiMethod, err)
	}
	return response, nil
}

func costParams(params url.Values) map[string]any {
	out := make(map[string]any, 2)
	if params.Has("symbol") {
		out["symbol"] = params.Get("symbol")
	}
	if params.Has("limit") {
		if n, err := strconv.Atoi(params.Get("limit")); err == nil {
			out["limit"] = n
		}
	}
	return out
}

// FetchTime returns the venue clock and records the measured skew for
// subsequent signed timestamps.
func (c *Client) FetchTime(ctx context.Context) (int64, error) {
	response, err := c.request(ctx, http.MethodGet, "/api/v3/time", "FetchTime", url.Values{}, exchange.Public)
	if err != nil {
		return 0, err
	}
	serverTime := safe.Integer(response, "serverTime")
	if serverTime == 0 {
		return 0, fmt.Errorf("%w: binance FetchTime: missing serverTime", core.ErrBadResponse)
	}
	c.ApplyServerTime(serverTime)
	return serverTime, nil
}

func (c *Client) FetchMarkets(ctx context.Context) ([]core.Market, error) {
	response, err := c.request(ctx, http.MethodGet, "/api/v3/exchangeInfo", "FetchMarkets", url.Values{}, exchange.Public)
	if err != nil {
		return nil, err
	}
	rows := safe.List(response, "symbols")
	markets := make([]core.Market, 0, len(rows))
	for _, row := range rows {
		markets = append(markets, c.parseMarket(row))
	}
	return markets, nil
}

// FetchCurrencies requires credentials: Binance only exposes the
// currency/network catalogue on a signed endpoint.
func (c *Client) FetchCurrencies(ctx context.Context) ([]core.Currency, error) {
	response, err := c.request(ctx, http.MethodGet, "/sapi/v1/capital/config/getall", "FetchCurrencies", url.Values{}, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows, _ := response.([]any)
	currencies := make([]core.Currency, 0, len(rows))
	for _, row := range rows {
		currencies = append(currencies, c.parseCurrency(row))
	}
	return currencies, nil
}

// LoadMarkets builds and installs a fresh immutable snapshot. The
// currency catalogue rides along only when credentials are present.
func (c *Client) LoadMarkets(ctx context.Context) (*exchange.Snapshot, error) {
	markets, err := c.FetchMarkets(ctx)
	if err != nil {
		return nil, err
	}
	var currencies []core.Currency
	if c.APIKey() != "" && c.Secret() != "" {
		currencies, err = c.FetchCurrencies(ctx)
		if err != nil {
			return nil, err
		}
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
	params := url.Values{}
	params.Set("symbol", market.ID)
	response, err := c.request(ctx, http.MethodGet, "/api/v3/ticker/24hr", "FetchTicker", params, exchange.Public)
	if err != nil {
		return core.Ticker{}, err
	}
	return c.parseTicker(response, market), nil
}

func (c *Client) FetchOrderBook(ctx context.Context, symbol string, limit int) (core.OrderBook, error) {
	market, err := c.Market(symbol)
	if err != nil {
		return core.OrderBook{}, err
	}
	params := url.Values{}
	params.Set("symbol", market.ID)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	response, err := c.request(ctx, http.MethodGet, "/api/v3/depth", "FetchOrderBook", params, exchange.Public)
	if err != nil {
		return core.OrderBook{}, err
	}
	book := core.OrderBook{
		Symbol:    market.Symbol,
		Bids:      exchange.ParseBookSide(safe.List(response, "bids")),
		Asks:      exchange.ParseBookSide(safe.List(response, "asks")),
		Nonce:     safe.Integer(response, "lastUpdateId"),
		Timestamp: c.Milliseconds(),
		Info:      response,
	}
	if len(book.Bids) == 0 && len(book.Asks) == 0 {
		return core.OrderBook{}, fmt.Errorf("%w: binance FetchOrderBook: empty book for %s", core.ErrBadResponse, symbol)
	}
	return book, nil
}

func (c *Client) FetchBalance(ctx context.Context) (core.Balances, error) {
	response, err := c.request(ctx, http.MethodGet, "/api/v3/account", "FetchBalance", url.Values{}, exchange.Private)
	if err != nil {
		return core.Balances{}, err
	}
	return c.parseBalances(response), nil
}

func (c *Client) CreateOrder(ctx context.Context, symbol string, orderType core.OrderType, side core.Side, amount, price string) (core.Order, error) {
	market, err := c.Market(symbol)
	if err != nil {
		return core.Order{}, err
	}
	order, err := core.ApplyPrecision(market, core.Order{
		Symbol: symbol, Type: orderType, Side: side, Amount: amount, Price: price,
	})
	if err != nil {
		return core.Order{}, err
	}
	params := url.Values{}
	params.Set("symbol", market.ID)
	params.Set("side", strings.ToUpper(string(side)))
	params.Set("type", strings.ToUpper(string(orderType)))
	params.Set("quantity", order.Amount)
	params.Set("newClientOrderId", c.ClientOrderID("tc"))
	if orderType == core.LimitOrder {
		params.Set("price", order.Price)
		params.Set("timeInForce", "GTC")
	}
	response, err := c.request(ctx, http.MethodPost, "/api/v3/order", "CreateOrder", params, exchange.Private)
	if err != nil {
		return core.Order{}, err
	}
	return c.parseOrder(response, market), nil
}

func (c *Client) CancelOrder(ctx context.Context, id, symbol string) error {
	market, err := c.Market(symbol)
	if err != nil {
		return err
	}
	params := url.Values{}
	params.Set("symbol", market.ID)
	params.Set("orderId", id)
	_, err = c.request(ctx, http.MethodDelete, "/api/v3/order", "CancelOrder", params, exchange.Private)
	return err
}

func (c *Client) FetchOrder(ctx context.Context, id, symbol string) (core.Order, error) {
	if err := exchange.RequireArgument(c.ID(), "FetchOrder", "symbol", symbol); err != nil {
		return core.Order{}, err
	}
	market, err := c.Market(symbol)
	if err != nil {
		return core.Order{}, err
	}
	params := url.Values{}
	params.Set("symbol", market.ID)
	params.Set("orderId", id)
	response, err := c.request(ctx, http.MethodGet, "/api/v3/order", "FetchOrder", params, exchange.Private)
	if err != nil {
		return core.Order{}, err
	}
	return c.parseOrder(response, market), nil
}

func (c *Client) FetchOpenOrders(ctx context.Context, symbol string) ([]core.Order, error) {
	params := url.Values{}
	var market *core.Market
	if symbol != "" {
		var err error
		market, err = c.Market(symbol)
		if err != nil {
			return nil, err
		}
		params.Set("symbol", market.ID)
	}
	response, err := c.request(ctx, http.MethodGet, "/api/v3/openOrders", "FetchOpenOrders", params, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows, _ := response.([]any)
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
	params := url.Values{}
	params.Set("symbol", market.ID)
	response, err := c.request(ctx, http.MethodGet, "/api/v3/myTrades", "FetchMyTrades", params, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows, _ := response.([]any)
	trades := make([]core.Trade, 0, len(rows))
	for _, row := range rows {
		trades = append(trades, c.parseTrade(row, market))
	}
	return trades, nil
}

func (c *Client) FetchDeposits(ctx context.Context, code string) ([]core.Transaction, error) {
	params := url.Values{}
	if code != "" {
		params.Set("coin", code)
	}
	response, err := c.request(ctx, http.MethodGet, "/sapi/v1/capital/deposit/hisrec", "FetchDeposits", params, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows, _ := response.([]any)
	transactions := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, c.parseTransaction(row, core.Deposit))
	}
	return transactions, nil
}

func (c *Client) FetchWithdrawals(ctx context.Context, code string) ([]core.Transaction, error) {
	params := url.Values{}
	if code != "" {
		params.Set("coin", code)
	}
	response, err := c.request(ctx, http.MethodGet, "/sapi/v1/capital/withdraw/history", "FetchWithdrawals", params, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows, _ := response.([]any)
	transactions := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, c.parseTransaction(row, core.Withdrawal))
	}
	return transactions, nil
}
