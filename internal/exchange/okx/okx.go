// Package okx adapts the OKX v5 REST dialect onto the canonical
// trading model. Every response arrives in a {code, msg, data}
// envelope; private requests carry a base64 HMAC-SHA256 over
// timestamp+method+path+body in the OK-ACCESS-SIGN header together
// with the key, passphrase and millisecond ISO timestamp.
package okx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/segmentio/encoding/json"

	"trade-connect/internal/core"
	"trade-connect/internal/exchange"
	"trade-connect/internal/safe"
)

const liveURL = "https://www.okx.com"

var endpointCosts = map[string]exchange.Cost{
	"/api/v5/public/time":              {Base: 1},
	"/api/v5/public/instruments":       {Base: 1},
	"/api/v5/public/funding-rate":      {Base: 1},
	"/api/v5/market/ticker":            {Base: 1},
	"/api/v5/market/books":             {Base: 1},
	"/api/v5/account/balance":          {Base: 2},
	"/api/v5/account/positions":        {Base: 2},
	"/api/v5/asset/currencies":         {Base: 17},
	"/api/v5/asset/deposit-history":    {Base: 17},
	"/api/v5/asset/withdrawal-history": {Base: 17},
	"/api/v5/trade/order":              {Base: 1},
	"/api/v5/trade/cancel-order":       {Base: 1},
	"/api/v5/trade/orders-pending":     {Base: 1},
	"/api/v5/trade/fills":              {Base: 2},
}

var errorMap = exchange.ErrorMap{
	Exact: map[string]error{
		"50001": core.ErrOnMaintenance,
		"50004": core.ErrRequestTimeout,
		"50005": core.ErrExchangeNotAvailable,
		"50011": core.ErrRateLimited,
		"50013": core.ErrExchangeNotAvailable,
		"50101": core.ErrAuthentication,
		"50111": core.ErrAuthentication,
		"50113": core.ErrAuthentication,
		"51000": core.ErrBadRequest,
		"51001": core.ErrBadSymbol,
		"51002": core.ErrBadSymbol,
		"51004": core.ErrInvalidOrder,
		"51008": core.ErrInsufficientFunds,
		"51119": core.ErrInsufficientFunds,
		"51400": core.ErrOrderNotFound,
		"51603": core.ErrOrderNotFound,
		"59200": core.ErrInsufficientFunds,
	},
	Broad: map[string]error{
		"Invalid OK-ACCESS-KEY":        core.ErrAuthentication,
		"Invalid OK-ACCESS-PASSPHRASE": core.ErrAuthentication,
		"Insufficient":                 core.ErrInsufficientFunds,
		"Parameter":                    core.ErrBadRequest,
	},
}

var orderStatuses = map[string]core.OrderStatus{
	"live":             core.OrderOpen,
	"partially_filled": core.OrderOpen,
	"filled":           core.OrderClosed,
	"effective":        core.OrderClosed,
	"canceled":         core.OrderCanceled,
	"mmp_canceled":     core.OrderCanceled,
}

var depositStatuses = map[string]core.TransactionStatus{
	"0": core.TransactionPending, // waiting for confirmation
	"1": core.TransactionPending, // credited, not yet final
	"2": core.TransactionOK,
}

var withdrawalStatuses = map[string]core.TransactionStatus{
	"-3": core.TransactionPending, // pending cancel
	"-2": core.TransactionCanceled,
	"-1": core.TransactionFailed,
	"0":  core.TransactionPending,
	"1":  core.TransactionPending, // sending
	"2":  core.TransactionOK,
	"3":  core.TransactionPending, // email verification
	"4":  core.TransactionPending, // manual verification
	"5":  core.TransactionPending, // identity verification
}

type Client struct {
	*exchange.Base

	sandbox bool
}

func New(opts exchange.Options) *Client {
	base := exchange.NewBase(exchange.BaseConfig{
		ID:      "okx",
		BaseURL: liveURL,
		NetworkAliases: map[string]string{
			"ERC20":        "ETH",
			"TRC20":        "TRX",
			"BEP20":        "BSC",
			"Bitcoin":      "BTC",
			"Lightning":    "LIGHTNING",
			"Polygon":      "MATIC",
			"Arbitrum One": "ARBITRUM",
		},
	}, opts)
	return &Client{Base: base, sandbox: opts.Sandbox}
}

func (c *Client) Name() string { return "okx" }

// sign builds the transmit-ready request. The prehash string is the
// ISO8601 millisecond timestamp, the uppercase method, the request
// path including any query, and the raw JSON body, in that order.
// Demo trading shares the production host behind an extra header.
func (c *Client) sign(method, path string, query url.Values, body string, scope exchange.Scope) (exchange.Request, error) {
	requestPath := path
	if encoded := exchange.Urlencode(query); encoded != "" {
		requestPath += "?" + encoded
	}
	headers := http.Header{}
	if body != "" {
		headers.Set("Content-Type", "application/json")
	}
	if c.sandbox {
		headers.Set("x-simulated-trading", "1")
	}
	if scope == exchange.Private {
		if err := c.CheckRequiredCredentials(path, true); err != nil {
			return exchange.Request{}, err
		}
		timestamp := exchange.ISO8601(c.AdjustedMilliseconds())
		headers.Set("OK-ACCESS-KEY", c.APIKey())
		headers.Set("OK-ACCESS-SIGN", exchange.HMACSHA256Base64(timestamp+method+requestPath+body, c.Secret()))
		headers.Set("OK-ACCESS-TIMESTAMP", timestamp)
		headers.Set("OK-ACCESS-PASSPHRASE", c.Password())
	}
	return exchange.Request{
		Method:  method,
		URL:     c.BaseURL() + requestPath,
		Headers: headers,
		Body:    body,
	}, nil
}

// handleErrors inspects the envelope. A non-zero code marks failure
// even under HTTP 200. The generic code "1" only says "operation
// failed"; the real reason sits in the per-row sCode/sMsg, so those
// classify first when present.
func (c *Client) handleErrors(method string, status int, body []byte) error {
	response, parseErr := safe.ParseJSON(body)
	code := safe.String(response, "code")
	message := safe.String(response, "msg")
	if status/100 == 2 && (code == "" || code == "0") {
		return nil
	}
	apiErr := &core.APIError{Exchange: c.ID(), Method: method, Code: code, Message: message, Body: string(body)}
	if kind := exchange.HTTPStatusKind(status); kind != nil {
		return exchange.WrapAPIError(apiErr, kind)
	}
	if parseErr != nil {
		return exchange.WrapAPIError(apiErr, core.ErrBadResponse)
	}
	if code == "1" {
		rows := safe.List(response, "data")
		if len(rows) > 0 {
			if sCode := safe.String(rows[0], "sCode"); sCode != "" && sCode != "0" {
				apiErr.Code = sCode
				apiErr.Message = safe.String(rows[0], "sMsg", message)
			}
		}
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
			return nil, fmt.Errorf("okx %s: encode request: %w", apiMethod, err)
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
		return nil, fmt.Errorf("%w: okx %s: %v", core.ErrBadResponse, apiMethod, err)
	}
	return response, nil
}

// data unwraps the envelope; every success payload is a list.
func data(response any) []any {
	return safe.List(response, "data")
}

func (c *Client) FetchTime(ctx context.Context) (int64, error) {
	response, err := c.request(ctx, http.MethodGet, "/api/v5/public/time", "FetchTime", nil, nil, exchange.Public)
	if err != nil {
		return 0, err
	}
	rows := data(response)
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: okx FetchTime: empty data", core.ErrBadResponse)
	}
	serverTime := safe.Integer(rows[0], "ts")
	c.ApplyServerTime(serverTime)
	return serverTime, nil
}

// FetchMarkets walks the instrument catalogue per type. Options are
// omitted: the endpoint requires an underlying filter per request and
// the tradable set is too large to enumerate blindly.
func (c *Client) FetchMarkets(ctx context.Context) ([]core.Market, error) {
	var markets []core.Market
	for _, instType := range []string{"SPOT", "SWAP", "FUTURES"} {
		query := url.Values{}
		query.Set("instType", instType)
		response, err := c.request(ctx, http.MethodGet, "/api/v5/public/instruments", "FetchMarkets", query, nil, exchange.Public)
		if err != nil {
			return nil, err
		}
		for _, row := range data(response) {
			markets = append(markets, c.parseMarket(row))
		}
	}
	return markets, nil
}

func (c *Client) FetchCurrencies(ctx context.Context) ([]core.Currency, error) {
	response, err := c.request(ctx, http.MethodGet, "/api/v5/asset/currencies", "FetchCurrencies", nil, nil, exchange.Private)
	if err != nil {
		return nil, err
	}
	return c.parseCurrencies(data(response)), nil
}

func (c *Client) LoadMarkets(ctx context.Context) (*exchange.Snapshot, error) {
	markets, err := c.FetchMarkets(ctx)
	if err != nil {
		return nil, err
	}
	var currencies []core.Currency
	if c.APIKey() != "" && c.Secret() != "" && c.Password() != "" {
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
	query := url.Values{}
	query.Set("instId", market.ID)
	response, err := c.request(ctx, http.MethodGet, "/api/v5/market/ticker", "FetchTicker", query, nil, exchange.Public)
	if err != nil {
		return core.Ticker{}, err
	}
	rows := data(response)
	if len(rows) == 0 {
		return core.Ticker{}, fmt.Errorf("%w: okx FetchTicker: empty data for %s", core.ErrBadResponse, symbol)
	}
	return c.parseTicker(rows[0], market), nil
}

func (c *Client) FetchOrderBook(ctx context.Context, symbol string, limit int) (core.OrderBook, error) {
	market, err := c.Market(symbol)
	if err != nil {
		return core.OrderBook{}, err
	}
	query := url.Values{}
	query.Set("instId", market.ID)
	if limit > 0 {
		query.Set("sz", strconv.Itoa(limit))
	}
	response, err := c.request(ctx, http.MethodGet, "/api/v5/market/books", "FetchOrderBook", query, nil, exchange.Public)
	if err != nil {
		return core.OrderBook{}, err
	}
	rows := data(response)
	if len(rows) == 0 {
		return core.OrderBook{}, fmt.Errorf("%w: okx FetchOrderBook: empty data for %s", core.ErrBadResponse, symbol)
	}
	row := rows[0]
	return core.OrderBook{
		Symbol:    market.Symbol,
		Bids:      exchange.ParseBookSide(safe.List(row, "bids")),
		Asks:      exchange.ParseBookSide(safe.List(row, "asks")),
		Timestamp: safe.Integer(row, "ts"),
		Info:      row,
	}, nil
}

func (c *Client) FetchBalance(ctx context.Context) (core.Balances, error) {
	response, err := c.request(ctx, http.MethodGet, "/api/v5/account/balance", "FetchBalance", nil, nil, exchange.Private)
	if err != nil {
		return core.Balances{}, err
	}
	rows := data(response)
	if len(rows) == 0 {
		return core.Balances{}, fmt.Errorf("%w: okx FetchBalance: empty data", core.ErrBadResponse)
	}
	return c.parseBalances(rows[0]), nil
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
	tdMode := "cash"
	if market.Contract {
		tdMode = "cross"
	}
	payload := map[string]string{
		"instId":  market.ID,
		"tdMode":  tdMode,
		"side":    string(side),
		"ordType": string(orderType),
		"sz":      order.Amount,
		"clOrdId": c.ClientOrderID("tc"),
	}
	if orderType == core.LimitOrder {
		payload["px"] = order.Price
	}
	response, err := c.request(ctx, http.MethodPost, "/api/v5/trade/order", "CreateOrder", nil, payload, exchange.Private)
	if err != nil {
		return core.Order{}, err
	}
	rows := data(response)
	if len(rows) == 0 {
		return core.Order{}, fmt.Errorf("%w: okx CreateOrder: empty data", core.ErrBadResponse)
	}
	if err := c.rowError("CreateOrder", rows[0]); err != nil {
		return core.Order{}, err
	}
	placed := c.parseOrder(rows[0], market)
	if placed.Symbol == "" {
		placed.Symbol = market.Symbol
	}
	if placed.Timestamp == 0 {
		placed.Timestamp = c.Milliseconds()
	}
	return placed, nil
}

// rowError surfaces the per-row result code that the batch trade
// endpoints use even when the outer envelope succeeds.
func (c *Client) rowError(method string, row any) error {
	sCode := safe.String(row, "sCode")
	if sCode == "" || sCode == "0" {
		return nil
	}
	apiErr := &core.APIError{
		Exchange: c.ID(),
		Method:   method,
		Code:     sCode,
		Message:  safe.String(row, "sMsg"),
	}
	return exchange.WrapAPIError(apiErr, errorMap.Classify(apiErr.Code, apiErr.Message))
}

func (c *Client) CancelOrder(ctx context.Context, id, symbol string) error {
	market, err := c.Market(symbol)
	if err != nil {
		return err
	}
	payload := map[string]string{"instId": market.ID, "ordId": id}
	response, err := c.request(ctx, http.MethodPost, "/api/v5/trade/cancel-order", "CancelOrder", nil, payload, exchange.Private)
	if err != nil {
		return err
	}
	rows := data(response)
	if len(rows) == 0 {
		return fmt.Errorf("%w: okx CancelOrder: empty data", core.ErrBadResponse)
	}
	return c.rowError("CancelOrder", rows[0])
}

func (c *Client) FetchOrder(ctx context.Context, id, symbol string) (core.Order, error) {
	if err := exchange.RequireArgument(c.ID(), "FetchOrder", "symbol", symbol); err != nil {
		return core.Order{}, err
	}
	market, err := c.Market(symbol)
	if err != nil {
		return core.Order{}, err
	}
	query := url.Values{}
	query.Set("instId", market.ID)
	query.Set("ordId", id)
	response, err := c.request(ctx, http.MethodGet, "/api/v5/trade/order", "FetchOrder", query, nil, exchange.Private)
	if err != nil {
		return core.Order{}, err
	}
	rows := data(response)
	if len(rows) == 0 {
		return core.Order{}, fmt.Errorf("%w: okx FetchOrder: order %s not found", core.ErrOrderNotFound, id)
	}
	return c.parseOrder(rows[0], market), nil
}

func (c *Client) FetchOpenOrders(ctx context.Context, symbol string) ([]core.Order, error) {
	query := url.Values{}
	var market *core.Market
	if symbol != "" {
		var err error
		market, err = c.Market(symbol)
		if err != nil {
			return nil, err
		}
		query.Set("instId", market.ID)
	}
	response, err := c.request(ctx, http.MethodGet, "/api/v5/trade/orders-pending", "FetchOpenOrders", query, nil, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows := data(response)
	orders := make([]core.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, c.parseOrder(row, market))
	}
	return orders, nil
}

func (c *Client) FetchMyTrades(ctx context.Context, symbol string) ([]core.Trade, error) {
	query := url.Values{}
	var market *core.Market
	if symbol != "" {
		var err error
		market, err = c.Market(symbol)
		if err != nil {
			return nil, err
		}
		query.Set("instId", market.ID)
	}
	response, err := c.request(ctx, http.MethodGet, "/api/v5/trade/fills", "FetchMyTrades", query, nil, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows := data(response)
	trades := make([]core.Trade, 0, len(rows))
	for _, row := range rows {
		trades = append(trades, c.parseTrade(row, market))
	}
	return trades, nil
}

func (c *Client) FetchDeposits(ctx context.Context, code string) ([]core.Transaction, error) {
	query := url.Values{}
	if code != "" {
		query.Set("ccy", code)
	}
	response, err := c.request(ctx, http.MethodGet, "/api/v5/asset/deposit-history", "FetchDeposits", query, nil, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows := data(response)
	transactions := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, c.parseTransaction(row, core.Deposit))
	}
	return transactions, nil
}

func (c *Client) FetchWithdrawals(ctx context.Context, code string) ([]core.Transaction, error) {
	query := url.Values{}
	if code != "" {
		query.Set("ccy", code)
	}
	response, err := c.request(ctx, http.MethodGet, "/api/v5/asset/withdrawal-history", "FetchWithdrawals", query, nil, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows := data(response)
	transactions := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, c.parseTransaction(row, core.Withdrawal))
	}
	return transactions, nil
}

// FetchPositions returns the open contract positions, optionally
// filtered to one symbol.
func (c *Client) FetchPositions(ctx context.Context, symbol string) ([]core.Position, error) {
	query := url.Values{}
	var market *core.Market
	if symbol != "" {
		var err error
		market, err = c.Market(symbol)
		if err != nil {
			return nil, err
		}
		query.Set("instId", market.ID)
	}
	response, err := c.request(ctx, http.MethodGet, "/api/v5/account/positions", "FetchPositions", query, nil, exchange.Private)
	if err != nil {
		return nil, err
	}
	rows := data(response)
	positions := make([]core.Position, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, c.parsePosition(row, market))
	}
	return positions, nil
}

// FetchFundingRate returns the current and next funding rate for a
// perpetual swap.
func (c *Client) FetchFundingRate(ctx context.Context, symbol string) (core.FundingRate, error) {
	market, err := c.Market(symbol)
	if err != nil {
		return core.FundingRate{}, err
	}
	if market.Type != core.MarketSwap {
		return core.FundingRate{}, fmt.Errorf("%w: okx FetchFundingRate: %s is not a perpetual swap", core.ErrBadSymbol, symbol)
	}
	query := url.Values{}
	query.Set("instId", market.ID)
	response, err := c.request(ctx, http.MethodGet, "/api/v5/public/funding-rate", "FetchFundingRate", query, nil, exchange.Public)
	if err != nil {
		return core.FundingRate{}, err
	}
	rows := data(response)
	if len(rows) == 0 {
		return core.FundingRate{}, fmt.Errorf("%w: okx FetchFundingRate: empty data for %s", core.ErrBadResponse, symbol)
	}
	return c.parseFundingRate(rows[0], market), nil
}

// yymmdd renders a contract expiry for the delivery leg of a symbol.
func yymmdd(millis int64) string {
	return time.UnixMilli(millis).UTC().Format("060102")
}
