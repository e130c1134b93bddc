package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trade-connect/internal/core"
)

// Doer executes one HTTP request. The default is a plain http.Client;
// tests and callers with their own transport policy inject their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Throttle is an optional hook fed by the rate-limit cost resolver
// before each request. It typically fronts an external token bucket.
type Throttle func(ctx context.Context, endpoint string, cost int) error

// Options configures one adapter instance.
type Options struct {
	APIKey     string
	Secret     string
	Password   string
	BaseURL    string
	Sandbox    bool
	Timeout    time.Duration
	HTTPClient Doer
	Logger     *zap.Logger
	Throttle   Throttle

	// RecvWindowMs bounds signed-request validity on venues that
	// support it.
	RecvWindowMs int64

	// Fee overrides stamped into markets when the venue does not
	// report per-instrument rates.
	TakerFee string
	MakerFee string
}

// Snapshot is an immutable view of a venue's resolved markets and
// currencies. Reloading markets produces a new snapshot; records
// inside one are never mutated after construction.
type Snapshot struct {
	Markets        map[string]*core.Market   // by canonical symbol
	MarketsByID    map[string]*core.Market   // by exchange-native id
	Currencies     map[string]*core.Currency // by canonical code
	CurrenciesByID map[string]*core.Currency // by exchange-native id
}

// NewSnapshot indexes markets and currencies.
func NewSnapshot(markets []core.Market, currencies []core.Currency) *Snapshot {
	snap := &Snapshot{
		Markets:        make(map[string]*core.Market, len(markets)),
		MarketsByID:    make(map[string]*core.Market, len(markets)),
		Currencies:     make(map[string]*core.Currency, len(currencies)),
		CurrenciesByID: make(map[string]*core.Currency, len(currencies)),
	}
	for i := range markets {
		m := &markets[i]
		snap.Markets[m.Symbol] = m
		snap.MarketsByID[m.ID] = m
	}
	for i := range currencies {
		c := &currencies[i]
		snap.Currencies[c.Code] = c
		snap.CurrenciesByID[c.ID] = c
	}
	return snap
}

// Base holds the per-adapter state shared by all venues. The markets
// snapshot is the only mutable field; it is swapped whole under the
// mutex and read through Snapshot().
type Base struct {
	id       string
	apiKey   string
	secret   string
	password string

	baseURL    string
	httpClient Doer
	throttle   Throttle
	logger     *zap.Logger

	takerFee     string
	makerFee     string
	recvWindowMs int64

	currencyAliases map[string]string
	networkAliases  map[string]string

	mu        sync.Mutex
	snapshot  *Snapshot
	timeDelta int64
	lastNonce int64
}

// BaseConfig is assembled once by each adapter constructor: venue
// identity plus the per-venue alias tables, merged with the caller's
// Options.
type BaseConfig struct {
	ID      string
	BaseURL string
	// CurrencyAliases maps exchange-native currency ids to canonical
	// codes where they differ.
	CurrencyAliases map[string]string
	// NetworkAliases maps vendor network names onto canonical network
	// codes, e.g. ERC20 -> ETH.
	NetworkAliases map[string]string
}

func NewBase(cfg BaseConfig, opts Options) *Base {
	baseURL := cfg.BaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Base{
		id:              cfg.ID,
		apiKey:          opts.APIKey,
		secret:          opts.Secret,
		password:        opts.Password,
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      client,
		throttle:        opts.Throttle,
		logger:          logger.With(zap.String("exchange", cfg.ID)),
		takerFee:        opts.TakerFee,
		makerFee:        opts.MakerFee,
		recvWindowMs:    opts.RecvWindowMs,
		currencyAliases: cfg.CurrencyAliases,
		networkAliases:  cfg.NetworkAliases,
	}
}

func (b *Base) ID() string          { return b.id }
func (b *Base) BaseURL() string     { return b.baseURL }
func (b *Base) APIKey() string      { return b.apiKey }
func (b *Base) Secret() string      { return b.secret }
func (b *Base) Password() string    { return b.password }
func (b *Base) Logger() *zap.Logger { return b.logger }
func (b *Base) TakerFee() string    { return b.takerFee }
func (b *Base) MakerFee() string    { return b.makerFee }
func (b *Base) RecvWindowMs() int64 { return b.recvWindowMs }

// CheckRequiredCredentials fails fast, before any network attempt,
// when a private call is about to be signed without credentials.
func (b *Base) CheckRequiredCredentials(method string, needPassword bool) error {
	missing := ""
	switch {
	case b.apiKey == "":
		missing = "apiKey"
	case b.secret == "":
		missing = "secret"
	case needPassword && b.password == "":
		missing = "password"
	}
	if missing == "" {
		return nil
	}
	return fmt.Errorf("%w: %s %s requires %q", core.ErrCredentialsRequired, b.id, method, missing)
}

// Milliseconds is the local wall clock in unix milliseconds.
func (b *Base) Milliseconds() int64 { return time.Now().UnixMilli() }

// AdjustedMilliseconds applies the measured venue clock-skew delta.
func (b *Base) AdjustedMilliseconds() int64 {
	b.mu.Lock()
	delta := b.timeDelta
	b.mu.Unlock()
	return time.Now().UnixMilli() + delta
}

// ApplyServerTime records serverTime-localTime; subsequent nonces and
// signed timestamps use the corrected clock. Opt-in: adapters call it
// from their server-time endpoint on demand.
func (b *Base) ApplyServerTime(serverMillis int64) {
	delta := serverMillis - time.Now().UnixMilli()
	b.mu.Lock()
	b.timeDelta = delta
	b.mu.Unlock()
	b.logger.Debug("clock skew measured", zap.Int64("delta_ms", delta))
}

// TimeDelta returns the currently applied clock-skew correction.
func (b *Base) TimeDelta() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timeDelta
}

// Nonce returns a skew-corrected, monotonically non-decreasing
// millisecond nonce for the session.
func (b *Base) Nonce() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	nonce := time.Now().UnixMilli() + b.timeDelta
	if nonce <= b.lastNonce {
		nonce = b.lastNonce + 1
	}
	b.lastNonce = nonce
	return nonce
}

// ClientOrderID builds a fresh client order id under the given prefix.
func (b *Base) ClientOrderID(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// Snapshot returns the current immutable markets view, or nil before
// the first LoadMarkets.
func (b *Base) Snapshot() *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot
}

// SetSnapshot swaps in a freshly loaded markets view.
func (b *Base) SetSnapshot(snap *Snapshot) {
	b.mu.Lock()
	b.snapshot = snap
	b.mu.Unlock()
}

// Market resolves a canonical symbol against the loaded snapshot.
func (b *Base) Market(symbol string) (*core.Market, error) {
	snap := b.Snapshot()
	if snap == nil {
		return nil, fmt.Errorf("%w: %s markets not loaded", core.ErrBadSymbol, b.id)
	}
	market, ok := snap.Markets[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no market %q", core.ErrBadSymbol, b.id, symbol)
	}
	return market, nil
}

// SafeMarket resolves an exchange-native id to a market. Resolution
// order: explicit context market, snapshot by-id index, then an
// id-splitting heuristic on delimiter producing a synthetic spot
// market so normalization can degrade instead of failing.
func (b *Base) SafeMarket(marketID string, market *core.Market, delimiter string) *core.Market {
	if market != nil {
		return market
	}
	if marketID == "" {
		return &core.Market{}
	}
	if snap := b.Snapshot(); snap != nil {
		if resolved, ok := snap.MarketsByID[marketID]; ok {
			return resolved
		}
	}
	synthetic := &core.Market{ID: marketID}
	if delimiter != "" {
		parts := strings.Split(marketID, delimiter)
		if len(parts) == 2 {
			synthetic.BaseID = parts[0]
			synthetic.QuoteID = parts[1]
			synthetic.Base = b.CurrencyCode(parts[0])
			synthetic.Quote = b.CurrencyCode(parts[1])
			synthetic.Symbol = synthetic.Base + "/" + synthetic.Quote
			synthetic.Type = core.MarketSpot
		}
	}
	return synthetic
}

// SafeSymbol is SafeMarket reduced to the symbol, falling back to the
// raw id when no resolution is possible.
func (b *Base) SafeSymbol(marketID string, market *core.Market, delimiter string) string {
	resolved := b.SafeMarket(marketID, market, delimiter)
	if resolved.Symbol != "" {
		return resolved.Symbol
	}
	return marketID
}

// CurrencyCode canonicalizes an exchange-native currency id.
func (b *Base) CurrencyCode(id string) string {
	if id == "" {
		return ""
	}
	code := strings.ToUpper(id)
	if alias, ok := b.currencyAliases[code]; ok {
		return alias
	}
	return code
}

// NetworkCode canonicalizes a vendor network name through the
// per-exchange alias table, so the same chain is addressable under one
// code across venues.
func (b *Base) NetworkCode(id string) string {
	if id == "" {
		return ""
	}
	network := strings.ToUpper(id)
	if alias, ok := b.networkAliases[network]; ok {
		return alias
	}
	return network
}

// Throttle feeds the resolved endpoint cost to the external limiter
// hook, if one is configured.
func (b *Base) Throttle(ctx context.Context, endpoint string, cost int) error {
	if b.throttle == nil {
		return nil
	}
	return b.throttle(ctx, endpoint, cost)
}

// Execute transmits a signed request descriptor and returns the HTTP
// status and raw body. Transport failures are classified as
// core.ErrNetwork; vendor-signaled failures are the caller's to
// classify against its error tables.
func (b *Base) Execute(ctx context.Context, req Request) (int, []byte, error) {
	var bodyReader io.Reader
	if req.Body != "" {
		bodyReader = strings.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return 0, nil, err
	}
	for key, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	b.logger.Debug("request", zap.String("method", req.Method), zap.String("url", req.URL))
	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, errors.Join(fmt.Errorf("%s: %v", b.id, err), core.ErrNetwork)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errors.Join(fmt.Errorf("%s: %v", b.id, err), core.ErrNetwork)
	}
	return resp.StatusCode, body, nil
}
