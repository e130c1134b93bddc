package core

import (
	"errors"
	"strings"
	"testing"
)

func testMarket() *Market {
	return &Market{
		ID:     "BTCUSDT",
		Symbol: "BTC/USDT",
		Precision: MarketPrecision{
			Amount: "0.001",
			Price:  "0.01",
		},
		Limits: MarketLimits{
			Amount: MinMax{Min: "0.01"},
			Cost:   MinMax{Min: "10"},
		},
	}
}

func TestApplyPrecisionRoundsPriceAndAmount(t *testing.T) {
	order := Order{
		Symbol: "BTC/USDT",
		Side:   Buy,
		Type:   LimitOrder,
		Price:  "100.037",
		Amount: "0.123456",
	}
	got, err := ApplyPrecision(testMarket(), order)
	if err != nil {
		t.Fatalf("ApplyPrecision() error = %v", err)
	}
	if got.Price != "100.03" {
		t.Fatalf("rounded price = %s, want 100.03", got.Price)
	}
	if got.Amount != "0.123" {
		t.Fatalf("rounded amount = %s, want 0.123", got.Amount)
	}
}

func TestApplyPrecisionBelowMinAmount(t *testing.T) {
	order := Order{Symbol: "BTC/USDT", Side: Buy, Type: LimitOrder, Price: "100", Amount: "0.009"}
	_, err := ApplyPrecision(testMarket(), order)
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("ApplyPrecision() error = %v, want ErrInvalidOrder", err)
	}
}

func TestApplyPrecisionBelowMinCost(t *testing.T) {
	order := Order{Symbol: "BTC/USDT", Side: Buy, Type: LimitOrder, Price: "100", Amount: "0.05"}
	_, err := ApplyPrecision(testMarket(), order)
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("ApplyPrecision() error = %v, want ErrInvalidOrder", err)
	}
}

func TestApplyPrecisionMarketOrderSkipsPrice(t *testing.T) {
	order := Order{Symbol: "BTC/USDT", Side: Sell, Type: MarketOrder, Amount: "0.5"}
	got, err := ApplyPrecision(testMarket(), order)
	if err != nil {
		t.Fatalf("ApplyPrecision() error = %v", err)
	}
	if got.Price != "" {
		t.Fatalf("market order price = %q, want absent", got.Price)
	}
}

func TestRoundToTick(t *testing.T) {
	if got := RoundToTick("100.037", "0.01"); got != "100.03" {
		t.Fatalf("RoundToTick() = %s, want 100.03", got)
	}
	if got := RoundToTick("100.037", ""); got != "100.037" {
		t.Fatalf("RoundToTick(no tick) = %s, want untouched", got)
	}
	if got := RoundToTick("1.5", "0.5"); got != "1.5" {
		t.Fatalf("RoundToTick(aligned) = %s, want 1.5", got)
	}
}

func TestAPIErrorMessageCarriesAdapterAndMethod(t *testing.T) {
	apiErr := &APIError{Exchange: "okx", Method: "CreateOrder", Code: "51008", Message: "insufficient balance"}
	joined := errors.Join(apiErr, ErrInsufficientFunds)
	if !errors.Is(joined, ErrInsufficientFunds) {
		t.Fatal("joined error does not match kind")
	}
	got, ok := AsAPIError(joined)
	if !ok {
		t.Fatal("AsAPIError() = false, want true")
	}
	if got.Exchange != "okx" || got.Method != "CreateOrder" {
		t.Fatalf("APIError identity = %s/%s, want okx/CreateOrder", got.Exchange, got.Method)
	}
	msg := joined.Error()
	for _, want := range []string{"okx", "CreateOrder", "51008"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error text %q missing %q", msg, want)
		}
	}
}
