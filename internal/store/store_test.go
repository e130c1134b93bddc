package store

import (
	"testing"
	"time"

	"trade-connect/internal/core"
)

func TestCatalogRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := Catalog{
		Venue: "binance",
		Markets: []core.Market{
			{
				ID:     "BTCUSDT",
				Symbol: "BTC/USDT",
				Base:   "BTC",
				Quote:  "USDT",
				Type:   core.MarketSpot,
				Active: true,
			},
		},
		Currencies: []core.Currency{
			{ID: "BTC", Code: "BTC", Active: true},
		},
	}
	if err := s.SaveCatalog(in); err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}

	out, ok, err := s.LoadCatalog("binance")
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if !ok {
		t.Fatalf("LoadCatalog() ok = false, want true")
	}
	if len(out.Markets) != 1 || out.Markets[0].Symbol != "BTC/USDT" {
		t.Fatalf("LoadCatalog() markets = %+v, want BTC/USDT", out.Markets)
	}
	if len(out.Currencies) != 1 || out.Currencies[0].Code != "BTC" {
		t.Fatalf("LoadCatalog() currencies = %+v, want BTC", out.Currencies)
	}
	if out.UpdatedAt.IsZero() {
		t.Fatalf("updated_at should be stamped on save")
	}
}

func TestSaveCatalogRequiresVenue(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.SaveCatalog(Catalog{}); err == nil {
		t.Fatalf("SaveCatalog() error = nil, want venue required")
	}
}

func TestLoadCatalogNotExist(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, ok, err := s.LoadCatalog("okx")
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if ok {
		t.Fatalf("LoadCatalog() ok = true, want false")
	}
}

func TestCatalogFresh(t *testing.T) {
	now := time.Now().UTC()
	cat := Catalog{UpdatedAt: now.Add(-time.Hour)}
	if !cat.Fresh(now, 24*time.Hour) {
		t.Fatalf("Fresh() = false for hour-old catalog within a day")
	}
	if cat.Fresh(now, 30*time.Minute) {
		t.Fatalf("Fresh() = true for hour-old catalog past 30m")
	}
	if (Catalog{}).Fresh(now, time.Hour) {
		t.Fatalf("Fresh() = true for zero catalog")
	}
}

func TestRecorderStatusRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := RecorderStatus{
		Venue:     "htx",
		Symbol:    "BTC/USDT",
		PID:       1234,
		State:     "running",
		Records:   42,
		StartedAt: time.Now().UTC().Add(-time.Minute),
	}
	if err := s.SaveRecorderStatus(in); err != nil {
		t.Fatalf("SaveRecorderStatus() error = %v", err)
	}

	out, ok, err := s.LoadRecorderStatus()
	if err != nil {
		t.Fatalf("LoadRecorderStatus() error = %v", err)
	}
	if !ok {
		t.Fatalf("LoadRecorderStatus() ok = false, want true")
	}
	if out.Venue != in.Venue || out.Symbol != in.Symbol || out.Records != in.Records {
		t.Fatalf("LoadRecorderStatus() = %+v, want %+v", out, in)
	}
	if out.UpdatedAt.IsZero() {
		t.Fatalf("updated_at should be stamped on save")
	}
}

func TestLoadRecorderStatusNotExist(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, ok, err := s.LoadRecorderStatus()
	if err != nil {
		t.Fatalf("LoadRecorderStatus() error = %v", err)
	}
	if ok {
		t.Fatalf("LoadRecorderStatus() ok = true, want false")
	}
}
