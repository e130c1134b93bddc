package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"trade-connect/internal/config"
	"trade-connect/internal/core"
	"trade-connect/internal/exchange"
	"trade-connect/internal/exchange/binance"
	"trade-connect/internal/exchange/htx"
	"trade-connect/internal/exchange/okx"
	"trade-connect/internal/ratelimit"
)

type checkStatus string

const (
	statusPass checkStatus = "PASS"
	statusFail checkStatus = "FAIL"
	statusSkip checkStatus = "SKIP"
)

type checkResult struct {
	Name       string      `json:"name"`
	Status     checkStatus `json:"status"`
	DurationMs int64       `json:"duration_ms"`
	Detail     string      `json:"detail,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type venueReport struct {
	Venue  config.Venue  `json:"venue"`
	Checks []checkResult `json:"checks"`
}

type report struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Symbol     string        `json:"symbol"`
	Venues     []venueReport `json:"venues"`
}

// timeFetcher is implemented by every adapter even though server time
// is not part of the shared surface.
type timeFetcher interface {
	FetchTime(ctx context.Context) (int64, error)
}

func main() {
	var (
		configPath  string
		venueFlag   string
		symbol      string
		timeoutSec  int
		private     bool
		allowLive   bool
		outJSONPath string
	)
	flag.StringVar(&configPath, "config", "config/config.yaml", "config yaml path")
	flag.StringVar(&venueFlag, "venue", "all", "venues to check: all | comma list (binance,okx,htx)")
	flag.StringVar(&symbol, "symbol", "BTC/USDT", "unified symbol used for market data checks")
	flag.IntVar(&timeoutSec, "timeout-sec", 120, "total timeout seconds")
	flag.BoolVar(&private, "private", false, "also run authenticated checks (balance, open orders)")
	flag.BoolVar(&allowLive, "allow-live", false, "allow private checks against non-sandbox venues")
	flag.StringVar(&outJSONPath, "out-json", "", "optional output report path")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err.Error())
	}
	venues, err := selectVenues(cfg, venueFlag)
	if err != nil {
		fatal(err.Error())
	}
	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		fatal(err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if timeoutSec < 10 {
		timeoutSec = 10
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	r := report{
		StartedAt: time.Now().UTC(),
		Symbol:    symbol,
	}

	for _, venue := range venues {
		vc, err := cfg.Venue(venue)
		if err != nil {
			fatal(err.Error())
		}
		client, err := buildClient(venue, vc, logger)
		if err != nil {
			fatal(err.Error())
		}
		vr := venueReport{Venue: venue}

		run := func(name string, fn func() (string, error)) {
			start := time.Now()
			detail, err := fn()
			cr := checkResult{
				Name:       name,
				DurationMs: time.Since(start).Milliseconds(),
				Detail:     detail,
			}
			switch {
			case err == nil:
				cr.Status = statusPass
			case errors.Is(err, errSkipped):
				cr.Status = statusSkip
				cr.Detail = strings.TrimPrefix(err.Error(), errSkipped.Error()+": ")
			default:
				cr.Status = statusFail
				cr.Error = err.Error()
			}
			vr.Checks = append(vr.Checks, cr)
			printCheck(venue, cr)
		}

		run("server_time", func() (string, error) {
			tf, ok := client.(timeFetcher)
			if !ok {
				return "", errors.New("adapter does not expose server time")
			}
			millis, err := tf.FetchTime(ctx)
			if err != nil {
				return "", err
			}
			skew := time.Now().UnixMilli() - millis
			return fmt.Sprintf("serverTime=%d skewMs=%d", millis, skew), nil
		})

		run("load_markets", func() (string, error) {
			snap, err := client.LoadMarkets(ctx)
			if err != nil {
				return "", err
			}
			if _, ok := snap.Markets[symbol]; !ok {
				return "", fmt.Errorf("symbol %s not listed", symbol)
			}
			return fmt.Sprintf("markets=%d currencies=%d", len(snap.Markets), len(snap.Currencies)), nil
		})

		run("ticker", func() (string, error) {
			ticker, err := client.FetchTicker(ctx, symbol)
			if err != nil {
				return "", err
			}
			if ticker.Last == "" && ticker.Close == "" {
				return "", errors.New("ticker carries no last price")
			}
			return fmt.Sprintf("last=%s bid=%s ask=%s", ticker.Last, ticker.Bid, ticker.Ask), nil
		})

		run("order_book", func() (string, error) {
			book, err := client.FetchOrderBook(ctx, symbol, 5)
			if err != nil {
				return "", err
			}
			if len(book.Bids) == 0 || len(book.Asks) == 0 {
				return "", errors.New("one-sided or empty book")
			}
			return fmt.Sprintf("bids=%d asks=%d nonce=%d", len(book.Bids), len(book.Asks), book.Nonce), nil
		})

		if private {
			guard := func() error {
				if vc.APIKey == "" {
					return fmt.Errorf("%w: no credentials configured", errSkipped)
				}
				if !vc.Sandbox && !allowLive {
					return fmt.Errorf("%w: non-sandbox venue blocked, set -allow-live to continue", errSkipped)
				}
				return nil
			}

			run("balance", func() (string, error) {
				if err := guard(); err != nil {
					return "", err
				}
				bal, err := client.FetchBalance(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("assets=%d funded=%s", len(bal.Currencies), fundedCodes(bal)), nil
			})

			run("open_orders", func() (string, error) {
				if err := guard(); err != nil {
					return "", err
				}
				orders, err := client.FetchOpenOrders(ctx, symbol)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("open=%d", len(orders)), nil
			})
		}

		r.Venues = append(r.Venues, vr)
	}

	r.FinishedAt = time.Now().UTC()
	printSummary(r)

	if outJSONPath != "" {
		if err := writeReport(outJSONPath, r); err != nil {
			fatal(err.Error())
		}
		fmt.Printf("report written: %s\n", outJSONPath)
	}

	for _, vr := range r.Venues {
		for _, c := range vr.Checks {
			if c.Status == statusFail {
				os.Exit(1)
			}
		}
	}
}

var errSkipped = errors.New("skipped")

func selectVenues(cfg config.Config, raw string) ([]config.Venue, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		out := make([]config.Venue, 0, len(cfg.Venues))
		for venue := range cfg.Venues {
			out = append(out, venue)
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		if len(out) == 0 {
			return nil, errors.New("no venues configured")
		}
		return out, nil
	}
	var out []config.Venue
	for _, part := range strings.Split(raw, ",") {
		name := config.Venue(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if _, err := cfg.Venue(name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, errors.New("no venues selected")
	}
	return out, nil
}

func buildClient(venue config.Venue, vc config.VenueConfig, logger *zap.Logger) (exchange.Exchange, error) {
	limiter := ratelimit.New(vc.RateLimitPerSec)
	opts := exchange.Options{
		APIKey:       vc.APIKey,
		Secret:       vc.APISecret,
		Password:     vc.Passphrase,
		BaseURL:      vc.BaseURL,
		Sandbox:      vc.Sandbox,
		Timeout:      time.Duration(vc.HTTPTimeoutSec) * time.Second,
		Logger:       logger,
		Throttle:     limiter.Throttle,
		RecvWindowMs: vc.RecvWindowMs,
	}
	if !vc.TakerFee.IsZero() {
		opts.TakerFee = vc.TakerFee.String()
	}
	if !vc.MakerFee.IsZero() {
		opts.MakerFee = vc.MakerFee.String()
	}
	switch venue {
	case config.VenueBinance:
		return binance.New(opts), nil
	case config.VenueOKX:
		return okx.New(opts), nil
	case config.VenueHTX:
		return htx.New(opts), nil
	}
	return nil, fmt.Errorf("unknown venue %q", venue)
}

func buildLogger(level string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc.Level = lvl
	return zc.Build()
}

func fundedCodes(bal core.Balances) string {
	codes := make([]string, 0, len(bal.Currencies))
	for code, entry := range bal.Currencies {
		if entry.Total != "" && entry.Total != "0" {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	if len(codes) > 8 {
		codes = codes[:8]
	}
	if len(codes) == 0 {
		return "none"
	}
	return strings.Join(codes, ",")
}

func printCheck(venue config.Venue, cr checkResult) {
	switch cr.Status {
	case statusPass:
		fmt.Printf("[PASS] %s/%s (%dms)", venue, cr.Name, cr.DurationMs)
		if cr.Detail != "" {
			fmt.Printf(" - %s", cr.Detail)
		}
		fmt.Println()
	case statusSkip:
		fmt.Printf("[SKIP] %s/%s - %s\n", venue, cr.Name, cr.Detail)
	default:
		fmt.Printf("[FAIL] %s/%s (%dms) - %s\n", venue, cr.Name, cr.DurationMs, cr.Error)
	}
}

func printSummary(r report) {
	pass, fail, skip := 0, 0, 0
	for _, vr := range r.Venues {
		for _, c := range vr.Checks {
			switch c.Status {
			case statusPass:
				pass++
			case statusSkip:
				skip++
			default:
				fail++
			}
		}
	}
	fmt.Printf("\nsummary venues=%d symbol=%s pass=%d fail=%d skip=%d duration=%s\n",
		len(r.Venues),
		r.Symbol,
		pass,
		fail,
		skip,
		r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
	)
}

func writeReport(path string, r report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, strings.TrimSpace(msg))
	os.Exit(1)
}
