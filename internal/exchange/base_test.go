package exchange

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trade-connect/internal/core"
)

func newTestBase(opts Options) *Base {
	return NewBase(BaseConfig{
		ID:      "testvenue",
		BaseURL: "https://api.example.com",
		CurrencyAliases: map[string]string{
			"XBT": "BTC",
		},
		NetworkAliases: map[string]string{
			"ERC20": "ETH",
			"TRC20": "TRX",
		},
	}, opts)
}

func TestCheckRequiredCredentials(t *testing.T) {
	b := newTestBase(Options{})
	err := b.CheckRequiredCredentials("FetchBalance", false)
	if !errors.Is(err, core.ErrCredentialsRequired) {
		t.Fatalf("CheckRequiredCredentials() error = %v, want ErrCredentialsRequired", err)
	}

	b = newTestBase(Options{APIKey: "k", Secret: "s"})
	if err := b.CheckRequiredCredentials("FetchBalance", false); err != nil {
		t.Fatalf("CheckRequiredCredentials() error = %v, want nil", err)
	}
	err = b.CheckRequiredCredentials("CreateOrder", true)
	if !errors.Is(err, core.ErrCredentialsRequired) {
		t.Fatalf("CheckRequiredCredentials(password) error = %v, want ErrCredentialsRequired", err)
	}
}

func TestNonceMonotonic(t *testing.T) {
	b := newTestBase(Options{})
	last := int64(0)
	for i := 0; i < 1000; i++ {
		n := b.Nonce()
		if n <= last {
			t.Fatalf("Nonce() = %d after %d, want strictly increasing", n, last)
		}
		last = n
	}
}

func TestApplyServerTimeShiftsNonce(t *testing.T) {
	b := newTestBase(Options{})
	local := b.Milliseconds()
	b.ApplyServerTime(local + 60_000)
	delta := b.TimeDelta()
	if delta < 55_000 || delta > 65_000 {
		t.Fatalf("TimeDelta() = %d, want about 60000", delta)
	}
	if n := b.Nonce(); n < local+55_000 {
		t.Fatalf("Nonce() = %d, want skew-adjusted past %d", n, local+55_000)
	}
}

func TestSnapshotResolution(t *testing.T) {
	b := newTestBase(Options{})
	if _, err := b.Market("BTC/USDT"); !errors.Is(err, core.ErrBadSymbol) {
		t.Fatalf("Market() before load error = %v, want ErrBadSymbol", err)
	}

	markets := []core.Market{{
		ID: "BTCUSDT", Symbol: "BTC/USDT", Base: "BTC", Quote: "USDT",
		BaseID: "BTC", QuoteID: "USDT", Type: core.MarketSpot, Active: true,
	}}
	b.SetSnapshot(NewSnapshot(markets, nil))

	market, err := b.Market("BTC/USDT")
	if err != nil {
		t.Fatalf("Market() error = %v", err)
	}
	if market.ID != "BTCUSDT" {
		t.Fatalf("Market().ID = %q, want BTCUSDT", market.ID)
	}
	if _, err := b.Market("ETH/USDT"); !errors.Is(err, core.ErrBadSymbol) {
		t.Fatalf("Market(unknown) error = %v, want ErrBadSymbol", err)
	}
}

func TestSafeMarketByID(t *testing.T) {
	b := newTestBase(Options{})
	b.SetSnapshot(NewSnapshot([]core.Market{{ID: "BTC-USDT", Symbol: "BTC/USDT"}}, nil))
	if got := b.SafeSymbol("BTC-USDT", nil, "-"); got != "BTC/USDT" {
		t.Fatalf("SafeSymbol(known id) = %q, want BTC/USDT", got)
	}
}

func TestSafeMarketHeuristicFallback(t *testing.T) {
	b := newTestBase(Options{})
	market := b.SafeMarket("ltc_usdt", nil, "_")
	if market.Symbol != "LTC/USDT" {
		t.Fatalf("SafeMarket(heuristic).Symbol = %q, want LTC/USDT", market.Symbol)
	}
	if got := b.SafeSymbol("weirdid", nil, "_"); got != "weirdid" {
		t.Fatalf("SafeSymbol(unsplittable) = %q, want raw id", got)
	}
}

func TestSafeMarketPrefersContext(t *testing.T) {
	b := newTestBase(Options{})
	ctxMarket := &core.Market{ID: "X", Symbol: "X/Y"}
	if got := b.SafeMarket("ignored", ctxMarket, "_"); got != ctxMarket {
		t.Fatal("SafeMarket() ignored the context market")
	}
}

func TestCurrencyAndNetworkCodes(t *testing.T) {
	b := newTestBase(Options{})
	if got := b.CurrencyCode("xbt"); got != "BTC" {
		t.Fatalf("CurrencyCode(xbt) = %q, want BTC", got)
	}
	if got := b.CurrencyCode("usdt"); got != "USDT" {
		t.Fatalf("CurrencyCode(usdt) = %q, want USDT", got)
	}
	if got := b.NetworkCode("erc20"); got != "ETH" {
		t.Fatalf("NetworkCode(erc20) = %q, want ETH", got)
	}
	if got := b.NetworkCode("SOL"); got != "SOL" {
		t.Fatalf("NetworkCode(SOL) = %q, want SOL", got)
	}
}

func TestClientOrderID(t *testing.T) {
	b := newTestBase(Options{})
	a, c := b.ClientOrderID("tc"), b.ClientOrderID("tc")
	if a == c {
		t.Fatal("ClientOrderID() returned duplicates")
	}
	if a[:3] != "tc-" {
		t.Fatalf("ClientOrderID() = %q, want tc- prefix", a)
	}
}

func TestExecute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "1" {
			t.Errorf("header X-Test = %q, want 1", r.Header.Get("X-Test"))
		}
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"msg":"slow down"}`))
	}))
	defer server.Close()

	b := newTestBase(Options{})
	headers := http.Header{}
	headers.Set("X-Test", "1")
	status, body, err := b.Execute(context.Background(), Request{
		URL:     server.URL + "/path",
		Method:  http.MethodGet,
		Headers: headers,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if status != http.StatusTeapot {
		t.Fatalf("Execute() status = %d, want 418", status)
	}
	if string(body) != `{"msg":"slow down"}` {
		t.Fatalf("Execute() body = %s", body)
	}
}

func TestExecuteNetworkFailure(t *testing.T) {
	b := newTestBase(Options{})
	_, _, err := b.Execute(context.Background(), Request{
		URL:    "http://127.0.0.1:1/unreachable",
		Method: http.MethodGet,
	})
	if !errors.Is(err, core.ErrNetwork) {
		t.Fatalf("Execute(unreachable) error = %v, want ErrNetwork", err)
	}
}

func TestThrottleHook(t *testing.T) {
	var gotEndpoint string
	var gotCost int
	b := newTestBase(Options{Throttle: func(ctx context.Context, endpoint string, cost int) error {
		gotEndpoint, gotCost = endpoint, cost
		return nil
	}})
	if err := b.Throttle(context.Background(), "depth", 5); err != nil {
		t.Fatalf("Throttle() error = %v", err)
	}
	if gotEndpoint != "depth" || gotCost != 5 {
		t.Fatalf("Throttle() passed %q/%d, want depth/5", gotEndpoint, gotCost)
	}
}
