// Command marketdata polls a venue's ticker at a fixed interval and
// appends one JSON line per sample to date-rotated files. Market
// catalogs are cached on disk so restarts skip the initial load when
// the cached copy is fresh.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"trade-connect/internal/config"
	"trade-connect/internal/core"
	"trade-connect/internal/exchange"
	"trade-connect/internal/exchange/binance"
	"trade-connect/internal/exchange/htx"
	"trade-connect/internal/exchange/okx"
	"trade-connect/internal/ratelimit"
	"trade-connect/internal/store"
)

type tickLine struct {
	Time      string `json:"time"`
	Timestamp int64  `json:"timestamp"`
	Venue     string `json:"venue"`
	Symbol    string `json:"symbol"`
	Last      string `json:"last"`
	Bid       string `json:"bid"`
	Ask       string `json:"ask"`
	High      string `json:"high,omitempty"`
	Low       string `json:"low,omitempty"`
	Volume    string `json:"volume,omitempty"`
}

type dateWriter struct {
	root        string
	currentDate string
	currentFile *os.File
}

func newDateWriter(root string) (*dateWriter, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &dateWriter{root: root}, nil
}

func (w *dateWriter) write(date string, line []byte) error {
	if err := w.rotate(date); err != nil {
		return err
	}
	if _, err := w.currentFile.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}

func (w *dateWriter) rotate(date string) error {
	if date == w.currentDate && w.currentFile != nil {
		return nil
	}
	if err := w.close(); err != nil {
		return err
	}
	path := filepath.Join(w.root, date+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	w.currentFile = f
	w.currentDate = date
	return nil
}

func (w *dateWriter) close() error {
	if w == nil || w.currentFile == nil {
		return nil
	}
	if err := w.currentFile.Sync(); err != nil {
		_ = w.currentFile.Close()
		w.currentFile = nil
		return err
	}
	err := w.currentFile.Close()
	w.currentFile = nil
	return err
}

// snapshotSetter is satisfied by every adapter through its embedded
// base; used to install a cached catalog without a network round trip.
type snapshotSetter interface {
	SetSnapshot(*exchange.Snapshot)
}

func main() {
	var (
		configPath  string
		venueFlag   string
		symbol      string
		intervalSec int
		count       int
		outDir      string
		stateDir    string
		catalogTTL  time.Duration
		takeover    bool
	)
	flag.StringVar(&configPath, "config", "config/config.yaml", "config yaml path")
	flag.StringVar(&venueFlag, "venue", "binance", "venue to record: binance | okx | htx")
	flag.StringVar(&symbol, "symbol", "BTC/USDT", "unified symbol to record")
	flag.IntVar(&intervalSec, "interval-sec", 5, "seconds between samples")
	flag.IntVar(&count, "count", 0, "stop after this many samples (0 = run until interrupted)")
	flag.StringVar(&outDir, "out-dir", "data/ticks", "output root dir")
	flag.StringVar(&stateDir, "state-dir", "data/state", "state dir for catalog cache and lock")
	flag.DurationVar(&catalogTTL, "catalog-ttl", 24*time.Hour, "reuse cached market catalogs younger than this")
	flag.BoolVar(&takeover, "takeover", false, "break a stale instance lock left by a dead recorder")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err.Error())
	}
	venue := config.Venue(strings.ToLower(strings.TrimSpace(venueFlag)))
	vc, err := cfg.Venue(venue)
	if err != nil {
		fatal(err.Error())
	}
	if intervalSec < 1 {
		intervalSec = 1
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		fatal(err.Error())
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.New(stateDir)
	if err != nil {
		fatal(err.Error())
	}
	lock, err := store.AcquireInstanceLockWithOptions(stateDir, store.LockOptions{
		TakeoverEnabled: takeover,
		StaleAfter:      time.Hour,
	})
	if err != nil {
		fatal(err.Error())
	}
	defer func() { _ = lock.Release() }()

	client, err := buildClient(venue, vc, logger)
	if err != nil {
		fatal(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadCatalog(ctx, client, st, string(venue), symbol, catalogTTL, logger); err != nil {
		fatal(err.Error())
	}

	targetDir := filepath.Join(outDir, string(venue), strings.ReplaceAll(symbol, "/", "-"))
	writer, err := newDateWriter(targetDir)
	if err != nil {
		fatal(err.Error())
	}
	defer func() {
		if closeErr := writer.close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "close writer failed: %v\n", closeErr)
		}
	}()

	status := store.RecorderStatus{
		Venue:     string(venue),
		Symbol:    symbol,
		PID:       os.Getpid(),
		State:     "running",
		StartedAt: time.Now().UTC(),
	}
	saveStatus := func() {
		if err := st.SaveRecorderStatus(status); err != nil {
			logger.Warn("save recorder status failed", zap.Error(err))
		}
	}
	saveStatus()

	logger.Info("recording",
		zap.String("venue", string(venue)),
		zap.String("symbol", symbol),
		zap.Int("interval_sec", intervalSec),
		zap.String("output", targetDir),
	)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	total := int64(0)
	for {
		tk, err := client.FetchTicker(ctx, symbol)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			status.LastError = err.Error()
			saveStatus()
			logger.Warn("fetch ticker failed", zap.Error(err))
		} else {
			if err := writeSample(writer, string(venue), tk); err != nil {
				fatal(err.Error())
			}
			total++
			status.Records = total
			status.LastError = ""
			if total%12 == 0 {
				saveStatus()
			}
		}
		if count > 0 && total >= int64(count) {
			break
		}
		select {
		case <-ctx.Done():
		case <-ticker.C:
			continue
		}
		break
	}

	status.State = "stopped"
	saveStatus()
	logger.Info("done", zap.Int64("records", total), zap.String("output", targetDir))
}

func writeSample(w *dateWriter, venue string, tk core.Ticker) error {
	ts := tk.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	at := time.UnixMilli(ts).UTC()
	last := tk.Last
	if last == "" {
		last = tk.Close
	}
	line := tickLine{
		Time:      at.Format(time.RFC3339),
		Timestamp: ts,
		Venue:     venue,
		Symbol:    tk.Symbol,
		Last:      last,
		Bid:       tk.Bid,
		Ask:       tk.Ask,
		High:      tk.High,
		Low:       tk.Low,
		Volume:    tk.BaseVolume,
	}
	encoded, err := json.Marshal(line)
	if err != nil {
		return err
	}
	return w.write(at.Format("2006-01-02"), encoded)
}

func loadCatalog(ctx context.Context, client exchange.Exchange, st *store.Store, venue, symbol string, ttl time.Duration, logger *zap.Logger) error {
	if cat, ok, err := st.LoadCatalog(venue); err == nil && ok && cat.Fresh(time.Now(), ttl) {
		if setter, can := client.(snapshotSetter); can {
			snap := exchange.NewSnapshot(cat.Markets, cat.Currencies)
			if _, listed := snap.Markets[symbol]; listed {
				setter.SetSnapshot(snap)
				logger.Info("using cached catalog",
					zap.Int("markets", len(cat.Markets)),
					zap.Time("updated_at", cat.UpdatedAt),
				)
				return nil
			}
		}
	} else if err != nil {
		logger.Warn("catalog cache unreadable, reloading", zap.Error(err))
	}

	snap, err := client.LoadMarkets(ctx)
	if err != nil {
		return err
	}
	if _, ok := snap.Markets[symbol]; !ok {
		return fmt.Errorf("symbol %s not listed on %s", symbol, venue)
	}
	cat := store.Catalog{Venue: venue}
	for _, m := range snap.Markets {
		cat.Markets = append(cat.Markets, *m)
	}
	for _, c := range snap.Currencies {
		cat.Currencies = append(cat.Currencies, *c)
	}
	if err := st.SaveCatalog(cat); err != nil {
		logger.Warn("save catalog failed", zap.Error(err))
	}
	return nil
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

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, strings.TrimSpace(msg))
	os.Exit(1)
}
