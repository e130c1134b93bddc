// Package core defines the canonical, exchange-independent record
// shapes produced by every adapter. Monetary and quantity fields are
// decimal strings; the empty string means the vendor did not report
// the value. Timestamps are unix milliseconds with zero meaning
// absent. Every record keeps the unmodified vendor payload in Info.
package core

type MarketType string

const (
	MarketSpot   MarketType = "spot"
	MarketMargin MarketType = "margin"
	MarketSwap   MarketType = "swap"
	MarketFuture MarketType = "future"
	MarketOption MarketType = "option"
)

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

type OrderType string

const (
	LimitOrder  OrderType = "limit"
	MarketOrder OrderType = "market"
)

// MinMax bounds a value from both ends; either end may be absent.
type MinMax struct {
	Min string
	Max string
}

// MarketPrecision carries tick sizes, not digit counts. Adapters for
// venues that report decimal places convert through
// exchange.PrecisionFromPlaces before populating these.
type MarketPrecision struct {
	Amount string
	Price  string
	Cost   string
}

type MarketLimits struct {
	Amount   MinMax
	Price    MinMax
	Cost     MinMax
	Leverage MinMax
}

// Market identifies one tradable instrument. Symbol is derived from
// base/quote/settle and the instrument kind: "BASE/QUOTE" for spot,
// "BASE/QUOTE:SETTLE" for contracts.
type Market struct {
	ID       string
	Symbol   string
	Base     string
	Quote    string
	Settle   string
	BaseID   string
	QuoteID  string
	SettleID string

	Type     MarketType
	Contract bool
	Linear   bool
	Inverse  bool

	ContractSize string
	Expiry       int64
	Strike       string
	OptionType   string

	Active    bool
	TakerFee  string
	MakerFee  string
	Precision MarketPrecision
	Limits    MarketLimits
	Info      any
}

// TransferLimits bounds deposits and withdrawals on one rail.
type TransferLimits struct {
	Withdraw MinMax
	Deposit  MinMax
}

// Network is one blockchain or rail a currency can move over, keyed
// by canonical network code in Currency.Networks.
type Network struct {
	ID        string
	Network   string
	Active    bool
	Deposit   bool
	Withdraw  bool
	Fee       string
	Precision string
	Limits    TransferLimits
	Info      any
}

type Currency struct {
	ID        string
	Code      string
	Name      string
	Active    bool
	Deposit   bool
	Withdraw  bool
	Fee       string
	Precision string
	Networks  map[string]Network
	Limits    TransferLimits
	Info      any
}

// Ticker holds point-in-time market statistics. Every numeric field
// is optional; absence stays absent instead of collapsing to zero.
type Ticker struct {
	Symbol        string
	Timestamp     int64
	Bid           string
	BidVolume     string
	Ask           string
	AskVolume     string
	High          string
	Low           string
	Open          string
	Close         string
	Last          string
	PreviousClose string
	Change        string
	Percentage    string
	Average       string
	VWAP          string
	BaseVolume    string
	QuoteVolume   string
	Info          any
}

// BookLevel is one price level: [price, amount] as decimal strings.
type BookLevel [2]string

func (l BookLevel) Price() string  { return l[0] }
func (l BookLevel) Amount() string { return l[1] }

type OrderBook struct {
	Symbol    string
	Bids      []BookLevel
	Asks      []BookLevel
	Timestamp int64
	Nonce     int64
	Info      any
}

type Fee struct {
	Currency string
	Cost     string
	Rate     string
}

type Order struct {
	ID            string
	ClientOrderID string
	Symbol        string
	Type          OrderType
	Side          Side
	TimeInForce   string
	PostOnly      bool

	Price        string
	TriggerPrice string
	Amount       string
	Filled       string
	Remaining    string
	Cost         string
	Average      string

	Status             OrderStatus
	Fee                Fee
	Timestamp          int64
	LastTradeTimestamp int64
	Trades             []Trade
	Info               any
}

type Trade struct {
	ID           string
	OrderID      string
	Symbol       string
	Side         Side
	Type         OrderType
	TakerOrMaker string
	Price        string
	Amount       string
	Cost         string
	Fee          Fee
	Timestamp    int64
	Info         any
}

type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
)

type Transaction struct {
	ID          string
	TxID        string
	Type        TransactionType
	Currency    string
	Network     string
	Amount      string
	Address     string
	AddressFrom string
	AddressTo   string
	Tag         string
	TagFrom     string
	TagTo       string
	Status      TransactionStatus
	Fee         Fee
	Timestamp   int64
	Updated     int64
	Info        any
}

// Balance for one currency. Total is always free+used, recomputed by
// the assembler rather than trusted from the vendor.
type Balance struct {
	Free  string
	Used  string
	Total string
}

type Balances struct {
	Timestamp  int64
	Currencies map[string]Balance
	Info       any
}

type Position struct {
	Symbol           string
	Side             string
	Contracts        string
	ContractSize     string
	EntryPrice       string
	MarkPrice        string
	Notional         string
	Leverage         string
	UnrealizedPnl    string
	LiquidationPrice string
	Collateral       string
	MarginMode       string
	Timestamp        int64
	Info             any
}

type FundingRate struct {
	Symbol               string
	FundingRate          string
	FundingTimestamp     int64
	NextFundingRate      string
	NextFundingTimestamp int64
	MarkPrice            string
	IndexPrice           string
	Timestamp            int64
	Info                 any
}
