package binance

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"trade-connect/internal/core"
	"trade-connect/internal/exchange"
	"trade-connect/internal/safe"
)

func testClient(baseURL string) *Client {
	return New(exchange.Options{
		APIKey:       "k",
		Secret:       "s",
		BaseURL:      baseURL,
		RecvWindowMs: 5000,
	})
}

func testSnapshot() *exchange.Snapshot {
	return exchange.NewSnapshot([]core.Market{
		{
			ID: "BTCUSDT", Symbol: "BTC/USDT",
			Base: "BTC", Quote: "USDT", BaseID: "BTC", QuoteID: "USDT",
			Type: core.MarketSpot, Active: true,
			Precision: core.MarketPrecision{Amount: "0.00001", Price: "0.01"},
			Limits: core.MarketLimits{
				Amount: core.MinMax{Min: "0.00001"},
				Cost:   core.MinMax{Min: "5"},
			},
		},
	}, nil)
}

func TestSignPrivateRequest(t *testing.T) {
	c := testClient("https://example.invalid")
	req, err := c.sign(http.MethodPost, "/api/v3/order", map[string][]string{
		"symbol": {"BTCUSDT"},
	}, exchange.Private)
	if err != nil {
		t.Fatalf("sign() error = %v", err)
	}
	if got := req.Headers.Get("X-MBX-APIKEY"); got != "k" {
		t.Fatalf("X-MBX-APIKEY = %q, want %q", got, "k")
	}
	idx := strings.Index(req.Body, "&signature=")
	if idx < 0 {
		t.Fatalf("sign() body missing signature: %q", req.Body)
	}
	payload, signature := req.Body[:idx], req.Body[idx+len("&signature="):]
	if want := exchange.HMACSHA256Hex(payload, "s"); signature != want {
		t.Fatalf("signature = %s, want %s", signature, want)
	}
	if !strings.Contains(payload, "recvWindow=5000") {
		t.Fatalf("sign() payload missing recvWindow: %q", payload)
	}
	if !strings.Contains(payload, "timestamp=") {
		t.Fatalf("sign() payload missing timestamp: %q", payload)
	}
}

func TestSignPrivateWithoutCredentials(t *testing.T) {
	c := New(exchange.Options{})
	_, err := c.sign(http.MethodGet, "/api/v3/account", map[string][]string{}, exchange.Private)
	if !errors.Is(err, core.ErrCredentialsRequired) {
		t.Fatalf("sign() error = %v, want ErrCredentialsRequired", err)
	}
}

func TestHandleErrorsClassification(t *testing.T) {
	c := testClient("https://example.invalid")
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"order not found", 400, `{"code":-2013,"msg":"Order does not exist."}`, core.ErrOrderNotFound},
		{"bad api key", 401, `{"code":-2014,"msg":"API-key format invalid."}`, core.ErrAuthentication},
		{"bad timestamp", 400, `{"code":-1021,"msg":"Timestamp for this request is outside of the recvWindow."}`, core.ErrInvalidNonce},
		{"insufficient by message", 400, `{"code":-9999,"msg":"Account has insufficient balance for requested action."}`, core.ErrInsufficientFunds},
		{"min notional by message", 400, `{"code":-9999,"msg":"Filter failure: MIN_NOTIONAL"}`, core.ErrInvalidOrder},
		{"ip ban", 418, `{"code":-1003,"msg":"Way too much request weight used; IP banned."}`, core.ErrBlocked},
		{"server error", 502, `upstream unavailable`, core.ErrExchangeNotAvailable},
		{"unknown code", 400, `{"code":-7777,"msg":"mystery"}`, core.ErrExchange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.handleErrors("Test", tt.status, []byte(tt.body))
			if !errors.Is(err, tt.want) {
				t.Fatalf("handleErrors(%d, %s) = %v, want %v", tt.status, tt.body, err, tt.want)
			}
		})
	}
	if err := c.handleErrors("Test", 200, []byte(`{"serverTime":1}`)); err != nil {
		t.Fatalf("handleErrors(success) = %v, want nil", err)
	}
}

func TestHandleErrorsCarriesAPIError(t *testing.T) {
	c := testClient("https://example.invalid")
	err := c.handleErrors("CreateOrder", 400, []byte(`{"code":-2010,"msg":"Duplicate order sent."}`))
	apiErr, ok := core.AsAPIError(err)
	if !ok {
		t.Fatalf("handleErrors() did not carry APIError: %v", err)
	}
	if apiErr.Exchange != "binance" || apiErr.Code != "-2010" || apiErr.Method != "CreateOrder" {
		t.Fatalf("APIError = %+v, want binance/-2010/CreateOrder", apiErr)
	}
	if !errors.Is(err, core.ErrInvalidOrder) {
		t.Fatalf("handleErrors() kind = %v, want ErrInvalidOrder", err)
	}
}

func TestParseMarketFilters(t *testing.T) {
	raw := []byte(`{
		"symbol": "BTCUSDT",
		"status": "TRADING",
		"baseAsset": "BTC",
		"quoteAsset": "USDT",
		"filters": [
			{"filterType": "PRICE_FILTER", "minPrice": "0.01000000", "maxPrice": "1000000.00000000", "tickSize": "0.01000000"},
			{"filterType": "LOT_SIZE", "minQty": "0.00001000", "maxQty": "9000.00000000", "stepSize": "0.00001000"},
			{"filterType": "NOTIONAL", "minNotional": "5.00000000", "maxNotional": "9000000.00000000"}
		]
	}`)
	row, err := safe.ParseJSON(raw)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	c := testClient("https://example.invalid")
	market := c.parseMarket(row)
	if market.Symbol != "BTC/USDT" {
		t.Fatalf("Symbol = %q, want BTC/USDT", market.Symbol)
	}
	if !market.Active {
		t.Fatalf("Active = false, want true")
	}
	if market.Precision.Price != "0.01000000" || market.Precision.Amount != "0.00001000" {
		t.Fatalf("Precision = %+v, want tick sizes from filters", market.Precision)
	}
	if market.Limits.Cost.Min != "5.00000000" || market.Limits.Cost.Max != "9000000.00000000" {
		t.Fatalf("Limits.Cost = %+v, want notional bounds", market.Limits.Cost)
	}
	if market.Limits.Amount.Max != "9000.00000000" {
		t.Fatalf("Limits.Amount.Max = %q, want 9000.00000000", market.Limits.Amount.Max)
	}
	if market.Type != core.MarketSpot || market.Contract {
		t.Fatalf("market kind = %s/%v, want spot/false", market.Type, market.Contract)
	}
}

func TestParseCurrencyNetworks(t *testing.T) {
	raw := []byte(`{
		"coin": "USDT",
		"name": "TetherUS",
		"depositAllEnable": true,
		"withdrawAllEnable": false,
		"networkList": [
			{"network": "ERC20", "depositEnable": true, "withdrawEnable": true,
			 "withdrawFee": "3.2", "withdrawMin": "10", "withdrawMax": "10000000",
			 "withdrawIntegerMultiple": "0.000001", "isDefault": true},
			{"network": "TRC20", "depositEnable": true, "withdrawEnable": false,
			 "withdrawFee": "1", "withdrawMin": "2", "withdrawMax": "10000000",
			 "withdrawIntegerMultiple": "0.000001"}
		]
	}`)
	row, err := safe.ParseJSON(raw)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	c := testClient("https://example.invalid")
	currency := c.parseCurrency(row)
	if currency.Code != "USDT" {
		t.Fatalf("Code = %q, want USDT", currency.Code)
	}
	if currency.Active {
		t.Fatalf("Active = true, want false when withdrawals are disabled")
	}
	eth, ok := currency.Networks["ETH"]
	if !ok {
		t.Fatalf("Networks missing canonical ETH entry: %v", currency.Networks)
	}
	if !eth.Active || eth.Fee != "3.2" {
		t.Fatalf("ETH network = %+v, want active with fee 3.2", eth)
	}
	trx, ok := currency.Networks["TRX"]
	if !ok {
		t.Fatalf("Networks missing canonical TRX entry: %v", currency.Networks)
	}
	if trx.Active {
		t.Fatalf("TRX network active = true, want false")
	}
	if currency.Fee != "3.2" {
		t.Fatalf("currency.Fee = %q, want default network fee 3.2", currency.Fee)
	}
}

func TestParseTickerPreservesVendorLiterals(t *testing.T) {
	raw := []byte(`{
		"symbol": "SHIBUSDT",
		"lastPrice": "9e-08",
		"bidPrice": "8e-08",
		"askPrice": "9e-08",
		"volume": "1000000000",
		"weightedAvgPrice": "9e-08",
		"closeTime": 1618964487839
	}`)
	row, err := safe.ParseJSON(raw)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	c := testClient("https://example.invalid")
	ticker := c.parseTicker(row, &core.Market{Symbol: "SHIB/USDT"})
	if ticker.Last != "9e-08" {
		t.Fatalf("Last = %q, want the vendor literal 9e-08", ticker.Last)
	}
	if ticker.Close != "9e-08" {
		t.Fatalf("Close = %q, want mirror of Last", ticker.Close)
	}
	if ticker.QuoteVolume == "" {
		t.Fatalf("QuoteVolume empty, want derived from volume and vwap")
	}
	if ticker.Timestamp != 1618964487839 {
		t.Fatalf("Timestamp = %d, want 1618964487839", ticker.Timestamp)
	}
}

func TestParseTickerIdempotent(t *testing.T) {
	// Info keeps the raw payload, so feeding a parsed record's Info
	// back through the parser must reproduce the record exactly.
	raw := []byte(`{
		"symbol": "SHIBUSDT",
		"lastPrice": "9e-08",
		"bidPrice": "8e-08",
		"askPrice": "9e-08",
		"volume": "1000000000",
		"weightedAvgPrice": "9e-08",
		"closeTime": 1618964487839
	}`)
	row, err := safe.ParseJSON(raw)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	c := testClient("https://example.invalid")
	market := &core.Market{Symbol: "SHIB/USDT"}
	first := c.parseTicker(row, market)
	second := c.parseTicker(first.Info, market)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reparsed ticker diverged:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestParseOrderIdempotent(t *testing.T) {
	raw := []byte(`{
		"symbol": "BTCUSDT",
		"orderId": 28,
		"clientOrderId": "tc6gCrw2kRUAF9CvJDGP16IP",
		"transactTime": 1507725176595,
		"price": "100.00000000",
		"origQty": "10.00000000",
		"executedQty": "4.00000000",
		"cummulativeQuoteQty": "400.00000000",
		"status": "PARTIALLY_FILLED",
		"timeInForce": "GTC",
		"type": "LIMIT",
		"side": "SELL"
	}`)
	row, err := safe.ParseJSON(raw)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	c := testClient("https://example.invalid")
	market := &core.Market{Symbol: "BTC/USDT"}
	first := c.parseOrder(row, market)
	second := c.parseOrder(first.Info, market)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reparsed order diverged:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestParseOrderStatuses(t *testing.T) {
	tests := []struct {
		vendor string
		want   core.OrderStatus
	}{
		{"NEW", core.OrderOpen},
		{"PARTIALLY_FILLED", core.OrderOpen},
		{"FILLED", core.OrderClosed},
		{"CANCELED", core.OrderCanceled},
		{"PENDING_CANCEL", core.OrderCanceling},
		{"REJECTED", core.OrderRejected},
		{"EXPIRED_IN_MATCH", core.OrderExpired},
	}
	for _, tt := range tests {
		if got := core.ParseOrderStatus(tt.vendor, orderStatuses); got != tt.want {
			t.Fatalf("ParseOrderStatus(%s) = %s, want %s", tt.vendor, got, tt.want)
		}
	}
}

func TestParseOrderReconciliation(t *testing.T) {
	raw := []byte(`{
		"symbol": "BTCUSDT",
		"orderId": 28,
		"clientOrderId": "tc-abc",
		"price": "100.00000000",
		"origQty": "10.00000000",
		"executedQty": "4.00000000",
		"cummulativeQuoteQty": "400.00000000",
		"status": "PARTIALLY_FILLED",
		"timeInForce": "GTC",
		"type": "LIMIT",
		"side": "SELL",
		"time": 1499827319559,
		"updateTime": 1499827319999
	}`)
	row, err := safe.ParseJSON(raw)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	c := testClient("https://example.invalid")
	order := c.parseOrder(row, &core.Market{Symbol: "BTC/USDT"})
	if order.ID != "28" || order.ClientOrderID != "tc-abc" {
		t.Fatalf("ids = %s/%s, want 28/tc-abc", order.ID, order.ClientOrderID)
	}
	if order.Side != core.Sell || order.Type != core.LimitOrder {
		t.Fatalf("side/type = %s/%s, want sell/limit", order.Side, order.Type)
	}
	if order.Status != core.OrderOpen {
		t.Fatalf("Status = %s, want open", order.Status)
	}
	if order.Remaining != "6" {
		t.Fatalf("Remaining = %q, want 6", order.Remaining)
	}
	if order.Average != "100" {
		t.Fatalf("Average = %q, want 100", order.Average)
	}
	if order.LastTradeTimestamp != 1499827319999 {
		t.Fatalf("LastTradeTimestamp = %d, want 1499827319999", order.LastTradeTimestamp)
	}
}

func TestParseTradeSides(t *testing.T) {
	raw := []byte(`{
		"symbol": "BNBBTC",
		"id": 28457,
		"orderId": 100234,
		"price": "4.00000100",
		"qty": "12.00000000",
		"quoteQty": "48.00001200",
		"commission": "10.10000000",
		"commissionAsset": "BNB",
		"time": 1499865549590,
		"isBuyer": true,
		"isMaker": false
	}`)
	row, err := safe.ParseJSON(raw)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	c := testClient("https://example.invalid")
	trade := c.parseTrade(row, &core.Market{Symbol: "BNB/BTC"})
	if trade.Side != core.Buy {
		t.Fatalf("Side = %s, want buy", trade.Side)
	}
	if trade.TakerOrMaker != "taker" {
		t.Fatalf("TakerOrMaker = %q, want taker", trade.TakerOrMaker)
	}
	if trade.Cost != "48.00001200" {
		t.Fatalf("Cost = %q, want vendor quoteQty", trade.Cost)
	}
	if trade.Fee.Currency != "BNB" || trade.Fee.Cost != "10.10000000" {
		t.Fatalf("Fee = %+v, want 10.10000000 BNB", trade.Fee)
	}
}

func TestParseTransactionStatuses(t *testing.T) {
	deposits := map[string]core.TransactionStatus{
		"0": core.TransactionPending,
		"1": core.TransactionOK,
		"6": core.TransactionOK,
		"7": core.TransactionFailed,
	}
	for vendor, want := range deposits {
		if got := core.ParseTransactionStatus(vendor, depositStatuses); got != want {
			t.Fatalf("deposit status %s = %s, want %s", vendor, got, want)
		}
	}
	withdrawals := map[string]core.TransactionStatus{
		"0": core.TransactionPending,
		"1": core.TransactionCanceled,
		"4": core.TransactionPending,
		"5": core.TransactionFailed,
		"6": core.TransactionOK,
	}
	for vendor, want := range withdrawals {
		if got := core.ParseTransactionStatus(vendor, withdrawalStatuses); got != want {
			t.Fatalf("withdrawal status %s = %s, want %s", vendor, got, want)
		}
	}
}

func TestParseTransactionDeposit(t *testing.T) {
	raw := []byte(`{
		"id": "769800519366885376",
		"amount": "0.001",
		"coin": "BNB",
		"network": "BNB",
		"status": 1,
		"address": "bnb136ns6lfw4zs5hg4n85vdthaad7hq5m4gtkgf23",
		"addressTag": "101764890",
		"txId": "98A3EA560C6B3336",
		"insertTime": 1661493146000
	}`)
	row, err := safe.ParseJSON(raw)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	c := testClient("https://example.invalid")
	tx := c.parseTransaction(row, core.Deposit)
	if tx.Type != core.Deposit || tx.Status != core.TransactionOK {
		t.Fatalf("type/status = %s/%s, want deposit/ok", tx.Type, tx.Status)
	}
	if tx.Currency != "BNB" || tx.Amount != "0.001" {
		t.Fatalf("currency/amount = %s/%s, want BNB/0.001", tx.Currency, tx.Amount)
	}
	if tx.AddressTo != tx.Address || tx.TagTo != "101764890" {
		t.Fatalf("address routing = %+v, want destination mirrored", tx)
	}
	if tx.Timestamp != 1661493146000 {
		t.Fatalf("Timestamp = %d, want 1661493146000", tx.Timestamp)
	}
}

func TestFetchTickerOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/24hr" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("symbol") != "BTCUSDT" {
			t.Errorf("symbol = %q, want BTCUSDT", r.URL.Query().Get("symbol"))
		}
		_, _ = w.Write([]byte(`{
			"symbol": "BTCUSDT",
			"lastPrice": "26100.50",
			"bidPrice": "26100.00",
			"askPrice": "26101.00",
			"openPrice": "26000.00",
			"volume": "1000",
			"closeTime": 1700000000000
		}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.SetSnapshot(testSnapshot())
	ticker, err := c.FetchTicker(context.Background(), "BTC/USDT")
	if err != nil {
		t.Fatalf("FetchTicker() error = %v", err)
	}
	if ticker.Symbol != "BTC/USDT" {
		t.Fatalf("Symbol = %q, want BTC/USDT", ticker.Symbol)
	}
	if ticker.Last != "26100.50" {
		t.Fatalf("Last = %q, want 26100.50", ticker.Last)
	}
	if ticker.Change != "100.50" && ticker.Change != "100.5" {
		t.Fatalf("Change = %q, want 100.5 derived from open and last", ticker.Change)
	}
}

func TestFetchOrderBookOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"lastUpdateId": 1027024,
			"bids": [["4.00000000", "431.00000000"], ["3.99000000", "12.00000000"]],
			"asks": [["4.00000200", "12.00000000"]]
		}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.SetSnapshot(testSnapshot())
	book, err := c.FetchOrderBook(context.Background(), "BTC/USDT", 100)
	if err != nil {
		t.Fatalf("FetchOrderBook() error = %v", err)
	}
	if book.Nonce != 1027024 {
		t.Fatalf("Nonce = %d, want 1027024", book.Nonce)
	}
	if len(book.Bids) != 2 || len(book.Asks) != 1 {
		t.Fatalf("depth = %d/%d, want 2/1", len(book.Bids), len(book.Asks))
	}
	if book.Bids[0].Price() != "4.00000000" || book.Bids[0].Amount() != "431.00000000" {
		t.Fatalf("top bid = %v, want [4.00000000 431.00000000]", book.Bids[0])
	}
}

func TestCreateOrderSignsAndRounds(t *testing.T) {
	var seenQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v3/order" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		seenQuery = string(body)
		if r.Header.Get("X-MBX-APIKEY") != "k" {
			t.Errorf("X-MBX-APIKEY = %q, want k", r.Header.Get("X-MBX-APIKEY"))
		}
		_, _ = w.Write([]byte(`{
			"symbol": "BTCUSDT",
			"orderId": 42,
			"clientOrderId": "tc-xyz",
			"transactTime": 1700000000000,
			"price": "26100.01",
			"origQty": "0.00123",
			"executedQty": "0",
			"cummulativeQuoteQty": "0",
			"status": "NEW",
			"type": "LIMIT",
			"side": "BUY"
		}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.SetSnapshot(testSnapshot())
	order, err := c.CreateOrder(context.Background(), "BTC/USDT", core.LimitOrder, core.Buy, "0.001239", "26100.018")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.ID != "42" || order.Status != core.OrderOpen {
		t.Fatalf("order = %s/%s, want 42/open", order.ID, order.Status)
	}
	if !strings.Contains(seenQuery, "quantity=0.00123") {
		t.Fatalf("request quantity not rounded to step: %q", seenQuery)
	}
	if !strings.Contains(seenQuery, "price=26100.01") {
		t.Fatalf("request price not rounded to tick: %q", seenQuery)
	}
	if !strings.Contains(seenQuery, "timeInForce=GTC") {
		t.Fatalf("limit order missing timeInForce: %q", seenQuery)
	}
	if !strings.Contains(seenQuery, "signature=") {
		t.Fatalf("request not signed: %q", seenQuery)
	}
}

func TestCreateOrderRejectsBelowMinCost(t *testing.T) {
	c := testClient("https://example.invalid")
	c.SetSnapshot(testSnapshot())
	_, err := c.CreateOrder(context.Background(), "BTC/USDT", core.LimitOrder, core.Buy, "0.00001", "100")
	if !errors.Is(err, core.ErrInvalidOrder) {
		t.Fatalf("CreateOrder(below min cost) error = %v, want ErrInvalidOrder", err)
	}
}

func TestFetchBalanceOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"updateTime": 1700000000000,
			"balances": [
				{"asset": "BTC", "free": "1.5", "locked": "0.5"},
				{"asset": "USDT", "free": "0.00000000", "locked": "0.00000000"}
			]
		}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	balances, err := c.FetchBalance(context.Background())
	if err != nil {
		t.Fatalf("FetchBalance() error = %v", err)
	}
	btc := balances.Currencies["BTC"]
	if btc.Free != "1.5" || btc.Used != "0.5" || btc.Total != "2" {
		t.Fatalf("BTC balance = %+v, want free 1.5 used 0.5 total 2", btc)
	}
}

func TestFetchMyTradesRequiresSymbol(t *testing.T) {
	c := testClient("https://example.invalid")
	_, err := c.FetchMyTrades(context.Background(), "")
	if !errors.Is(err, core.ErrArgumentsRequired) {
		t.Fatalf("FetchMyTrades(\"\") error = %v, want ErrArgumentsRequired", err)
	}
}

func TestFetchUnknownSymbol(t *testing.T) {
	c := testClient("https://example.invalid")
	c.SetSnapshot(testSnapshot())
	_, err := c.FetchTicker(context.Background(), "DOGE/USDT")
	if !errors.Is(err, core.ErrBadSymbol) {
		t.Fatalf("FetchTicker(unknown) error = %v, want ErrBadSymbol", err)
	}
}

func TestEndpointCostResolution(t *testing.T) {
	cost, err := exchange.ResolveCost(endpointCosts["/api/v3/depth"], map[string]any{"symbol": "BTCUSDT", "limit": 500})
	if err != nil || cost != 5 {
		t.Fatalf("depth cost(limit=500) = %d, %v, want 5", cost, err)
	}
	cost, err = exchange.ResolveCost(endpointCosts["/api/v3/ticker/24hr"], map[string]any{})
	if err != nil || cost != 80 {
		t.Fatalf("ticker cost(no symbol) = %d, %v, want 80", cost, err)
	}
	cost, err = exchange.ResolveCost(endpointCosts["/api/v3/ticker/24hr"], map[string]any{"symbol": "BTCUSDT"})
	if err != nil || cost != 2 {
		t.Fatalf("ticker cost(symbol) = %d, %v, want 2", cost, err)
	}
}
