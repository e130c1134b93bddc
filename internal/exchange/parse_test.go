package exchange

import (
	"testing"

	"trade-connect/internal/core"
	"trade-connect/internal/precise"
)

func TestFinalizeTickerDerivesQuoteVolume(t *testing.T) {
	ticker := core.Ticker{
		Last:       "9e-08",
		High:       "1e-07",
		Low:        "9e-08",
		Bid:        "9e-08",
		Ask:        "1e-07",
		BaseVolume: "135250.0",
		VWAP:       "0.0",
	}
	FinalizeTicker(&ticker)
	if ticker.Last != "9e-08" {
		t.Fatalf("Last = %q, want the vendor literal preserved", ticker.Last)
	}
	want := precise.StringMul("135250.0", "0.0")
	if ticker.QuoteVolume != want {
		t.Fatalf("QuoteVolume = %q, want %q", ticker.QuoteVolume, want)
	}
	if !precise.StringEq(ticker.QuoteVolume, "0.0") {
		t.Fatalf("QuoteVolume = %q, want decimal-equal to 0.0", ticker.QuoteVolume)
	}
	if ticker.Close != "9e-08" {
		t.Fatalf("Close = %q, want copied from Last", ticker.Close)
	}
}

func TestFinalizeTickerChangeAndAverage(t *testing.T) {
	ticker := core.Ticker{Open: "100", Last: "110"}
	FinalizeTicker(&ticker)
	if ticker.Change != "10" {
		t.Fatalf("Change = %q, want 10", ticker.Change)
	}
	if ticker.Percentage != "10" {
		t.Fatalf("Percentage = %q, want 10", ticker.Percentage)
	}
	if ticker.Average != "105" {
		t.Fatalf("Average = %q, want 105", ticker.Average)
	}
}

func TestFinalizeTickerAbsenceStaysAbsent(t *testing.T) {
	ticker := core.Ticker{Bid: "1.5"}
	FinalizeTicker(&ticker)
	if ticker.QuoteVolume != "" || ticker.Change != "" || ticker.Percentage != "" {
		t.Fatalf("derived fields populated from nothing: %+v", ticker)
	}
}

func TestFinalizeOrder(t *testing.T) {
	order := core.Order{Amount: "10", Filled: "4", Price: "2.5"}
	FinalizeOrder(&order)
	if order.Remaining != "6" {
		t.Fatalf("Remaining = %q, want 6", order.Remaining)
	}
	if order.Cost != "10" {
		t.Fatalf("Cost = %q, want price*filled = 10", order.Cost)
	}
	if order.Average != "2.5" {
		t.Fatalf("Average = %q, want 2.5", order.Average)
	}
}

func TestFinalizeOrderFilledFromRemaining(t *testing.T) {
	order := core.Order{Amount: "10", Remaining: "7.5"}
	FinalizeOrder(&order)
	if order.Filled != "2.5" {
		t.Fatalf("Filled = %q, want 2.5", order.Filled)
	}
}

func TestFinalizeOrderPrefersAverageForCost(t *testing.T) {
	order := core.Order{Amount: "10", Filled: "10", Price: "2", Average: "1.9"}
	FinalizeOrder(&order)
	if order.Cost != "19" {
		t.Fatalf("Cost = %q, want average*filled = 19", order.Cost)
	}
}

func TestFinalizeTradeDerivesCost(t *testing.T) {
	trade := core.Trade{Price: "0.000025", Amount: "1500"}
	FinalizeTrade(&trade)
	if trade.Cost != "0.0375" {
		t.Fatalf("Cost = %q, want 0.0375", trade.Cost)
	}
	reported := core.Trade{Price: "2", Amount: "3", Cost: "5.99"}
	FinalizeTrade(&reported)
	if reported.Cost != "5.99" {
		t.Fatalf("Cost = %q, vendor-reported cost must stand", reported.Cost)
	}
}

func TestAssembleBalanceRecomputesTotal(t *testing.T) {
	// Vendor total disagrees with free+used; the computed value wins.
	bal := AssembleBalance("1.5", "0.5", "3")
	if bal.Total != "2" {
		t.Fatalf("Total = %q, want recomputed 2", bal.Total)
	}
	if !precise.StringEq(bal.Total, precise.StringAdd(bal.Free, bal.Used)) {
		t.Fatal("invariant total == free+used violated")
	}
}

func TestAssembleBalanceFillsMissingMember(t *testing.T) {
	bal := AssembleBalance("", "0.5", "2")
	if bal.Free != "1.5" || bal.Total != "2" {
		t.Fatalf("AssembleBalance(missing free) = %+v, want free 1.5 total 2", bal)
	}
	bal = AssembleBalance("1", "", "4")
	if bal.Used != "3" || bal.Total != "4" {
		t.Fatalf("AssembleBalance(missing used) = %+v, want used 3 total 4", bal)
	}
	bal = AssembleBalance("", "", "4")
	if bal.Total != "4" || bal.Free != "" || bal.Used != "" {
		t.Fatalf("AssembleBalance(total only) = %+v, want total kept, rest absent", bal)
	}
}

func TestAssembleBalanceOneSided(t *testing.T) {
	// A frozen-only row reports used with no counterpart; the absent
	// member acts as zero so the total still materializes.
	bal := AssembleBalance("", "0.01", "")
	if bal.Total != "0.01" || bal.Used != "0.01" || bal.Free != "" {
		t.Fatalf("AssembleBalance(used only) = %+v, want total 0.01", bal)
	}
	bal = AssembleBalance("2.5", "", "")
	if bal.Total != "2.5" || bal.Free != "2.5" || bal.Used != "" {
		t.Fatalf("AssembleBalance(free only) = %+v, want total 2.5", bal)
	}
	bal = AssembleBalance("", "", "")
	if bal.Free != "" || bal.Used != "" || bal.Total != "" {
		t.Fatalf("AssembleBalance(all absent) = %+v, want all absent", bal)
	}
}

func TestNetworkActive(t *testing.T) {
	if !NetworkActive(true, true) {
		t.Fatal("NetworkActive(true, true) = false, want true")
	}
	if NetworkActive(true, false) || NetworkActive(false, true) {
		t.Fatal("NetworkActive with one side disabled = true, want false")
	}
}

func TestPrecisionFromPlaces(t *testing.T) {
	cases := []struct{ in, want string }{
		{"8", "0.00000001"},
		{"2", "0.01"},
		{"0", "1"},
		{"", ""},
		{"-1", ""},
		{"abc", ""},
	}
	for _, tc := range cases {
		if got := PrecisionFromPlaces(tc.in); got != tc.want {
			t.Fatalf("PrecisionFromPlaces(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitSideType(t *testing.T) {
	side, orderType := SplitSideType("sell-limit")
	if side != core.Sell || orderType != core.LimitOrder {
		t.Fatalf("SplitSideType(sell-limit) = %s/%s, want sell/limit", side, orderType)
	}
	side, orderType = SplitSideType("BUY-MARKET")
	if side != core.Buy || orderType != core.MarketOrder {
		t.Fatalf("SplitSideType(BUY-MARKET) = %s/%s, want buy/market", side, orderType)
	}
	side, orderType = SplitSideType("buy")
	if side != core.Buy || orderType != "" {
		t.Fatalf("SplitSideType(buy) = %s/%s, want buy/absent", side, orderType)
	}
}

func TestBuildSymbol(t *testing.T) {
	if got := BuildSymbol("BTC", "USDT", ""); got != "BTC/USDT" {
		t.Fatalf("BuildSymbol(spot) = %q", got)
	}
	if got := BuildSymbol("BTC", "USD", "USD"); got != "BTC/USD:USD" {
		t.Fatalf("BuildSymbol(contract) = %q", got)
	}
	if got := BuildSymbol("", "USDT", ""); got != "" {
		t.Fatalf("BuildSymbol(missing base) = %q, want absent", got)
	}
}

func TestParseBookSide(t *testing.T) {
	rows := []any{
		[]any{"100.5", "0.25"},
		[]any{"100.4"},
		"garbage",
		[]any{"100.3", "1.75", "3"},
	}
	levels := ParseBookSide(rows)
	if len(levels) != 2 {
		t.Fatalf("ParseBookSide() len = %d, want 2", len(levels))
	}
	if levels[0].Price() != "100.5" || levels[0].Amount() != "0.25" {
		t.Fatalf("level[0] = %+v", levels[0])
	}
	if levels[1].Price() != "100.3" {
		t.Fatalf("level[1] = %+v", levels[1])
	}
}
