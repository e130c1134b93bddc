package exchange

import (
	"strconv"
	"strings"

	"trade-connect/internal/core"
	"trade-connect/internal/precise"
	"trade-connect/internal/safe"
)

// Shared tail of the parseX pipeline. Each adapter fills a canonical
// record from vendor keys through the safe accessors, then hands it
// here so derived fields are computed, never trusted raw.

// FinalizeTicker derives the statistics vendors commonly omit.
func FinalizeTicker(t *core.Ticker) {
	if t.Close == "" {
		t.Close = t.Last
	}
	if t.Last == "" {
		t.Last = t.Close
	}
	if t.QuoteVolume == "" && t.BaseVolume != "" && t.VWAP != "" {
		t.QuoteVolume = precise.StringMul(t.BaseVolume, t.VWAP)
	}
	if t.VWAP == "" && t.QuoteVolume != "" && precise.StringGt(t.BaseVolume, "0") {
		t.VWAP = precise.StringDiv(t.QuoteVolume, t.BaseVolume)
	}
	if t.Open != "" && t.Last != "" {
		if t.Change == "" {
			t.Change = precise.StringSub(t.Last, t.Open)
		}
		if t.Percentage == "" && precise.StringGt(precise.StringAbs(t.Open), "0") {
			ratio := precise.StringDiv(t.Change, t.Open)
			t.Percentage = precise.StringMul(ratio, "100")
		}
		if t.Average == "" {
			t.Average = precise.StringDiv(precise.StringAdd(t.Open, t.Last), "2")
		}
	}
}

// FinalizeOrder reconciles amount/filled/remaining/cost/average: any
// missing member derivable from the others is computed exactly.
func FinalizeOrder(o *core.Order) {
	if o.Filled == "" && o.Amount != "" && o.Remaining != "" {
		o.Filled = precise.StringMax(precise.StringSub(o.Amount, o.Remaining), "0")
	}
	if o.Remaining == "" && o.Amount != "" && o.Filled != "" {
		o.Remaining = precise.StringMax(precise.StringSub(o.Amount, o.Filled), "0")
	}
	if o.Cost == "" {
		switch {
		case o.Average != "" && o.Filled != "":
			o.Cost = precise.StringMul(o.Average, o.Filled)
		case o.Price != "" && o.Filled != "":
			o.Cost = precise.StringMul(o.Price, o.Filled)
		}
	}
	if o.Average == "" && o.Cost != "" && precise.StringGt(o.Filled, "0") {
		o.Average = precise.StringDiv(o.Cost, o.Filled)
	}
}

// FinalizeTrade computes cost = price*amount when the vendor omits it.
func FinalizeTrade(t *core.Trade) {
	if t.Cost == "" && t.Price != "" && t.Amount != "" {
		t.Cost = precise.StringMul(t.Price, t.Amount)
	}
}

// AssembleBalance builds one currency balance from whichever of
// free/used/total the vendor reported. The invariant total=free+used
// is enforced by recomputation: when the vendor's total disagrees
// with free+used, the computed value wins.
func AssembleBalance(free, used, total string) core.Balance {
	if free == "" && total != "" && used != "" {
		free = precise.StringMax(precise.StringSub(total, used), "0")
	}
	if used == "" && total != "" && free != "" {
		used = precise.StringMax(precise.StringSub(total, free), "0")
	}
	switch {
	case free != "" && used != "":
		total = precise.StringAdd(free, used)
	case total == "" && free != "":
		total = free
	case total == "" && used != "":
		total = used
	}
	return core.Balance{Free: free, Used: used, Total: total}
}

// NetworkActive derives the active flag when a venue only reports the
// per-direction switches.
func NetworkActive(deposit, withdraw bool) bool {
	return deposit && withdraw
}

// PrecisionFromPlaces converts a decimal-place count ("8") into the
// equivalent tick size ("0.00000001") so both precision modes land in
// the same canonical representation. Non-numeric or negative input
// yields absent.
func PrecisionFromPlaces(places string) string {
	if places == "" {
		return ""
	}
	n, err := strconv.Atoi(places)
	if err != nil || n < 0 {
		return ""
	}
	if n == 0 {
		return "1"
	}
	return "0." + strings.Repeat("0", n-1) + "1"
}

// SplitSideType separates vendor vocabularies that fuse side and type
// into one hyphenated token, e.g. "sell-limit".
func SplitSideType(v string) (core.Side, core.OrderType) {
	parts := strings.SplitN(strings.ToLower(v), "-", 2)
	side := core.Side(parts[0])
	if len(parts) == 1 {
		return side, ""
	}
	return side, core.OrderType(parts[1])
}

// BuildSymbol derives the canonical symbol from currency codes:
// BASE/QUOTE for spot, BASE/QUOTE:SETTLE for contracts.
func BuildSymbol(base, quote, settle string) string {
	if base == "" || quote == "" {
		return ""
	}
	symbol := base + "/" + quote
	if settle != "" {
		symbol += ":" + settle
	}
	return symbol
}

// ParseBookSide reads [[price, amount], ...] rows, skipping rows with
// an unexpected shape.
func ParseBookSide(rows []any) []core.BookLevel {
	levels := make([]core.BookLevel, 0, len(rows))
	for _, row := range rows {
		price := safe.String(row, 0)
		amount := safe.String(row, 1)
		if price == "" || amount == "" {
			continue
		}
		levels = append(levels, core.BookLevel{price, amount})
	}
	return levels
}
