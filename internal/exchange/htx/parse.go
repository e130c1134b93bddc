package htx

import (
	"strings"

	"trade-connect/internal/core"
	"trade-connect/internal/exchange"
	"trade-connect/internal/safe"
)

// parseMarket normalizes one /v1/common/symbols entry. The venue
// reports precision as decimal places, converted here to tick sizes:
//
//	{
//	    "base-currency": "xrp",
//	    "quote-currency": "btc",
//	    "price-precision": 9,
//	    "amount-precision": 2,
//	    "value-precision": 8,
//	    "symbol": "xrpbtc",
//	    "state": "online",
//	    "min-order-amt": 1,
//	    "max-order-amt": 5000000,
//	    "min-order-value": 0.0001,
//	    "api-trading": "enabled"
//	}
func (c *Client) parseMarket(row any) core.Market {
	baseID := safe.String(row, "base-currency")
	quoteID := safe.String(row, "quote-currency")
	base := c.CurrencyCode(baseID)
	quote := c.CurrencyCode(quoteID)
	return core.Market{
		ID:       safe.String(row, "symbol"),
		Symbol:   exchange.BuildSymbol(base, quote, ""),
		Base:     base,
		Quote:    quote,
		BaseID:   baseID,
		QuoteID:  quoteID,
		Type:     core.MarketSpot,
		Active:   safe.String(row, "state") == "online" && safe.String(row, "api-trading") == "enabled",
		TakerFee: c.TakerFee(),
		MakerFee: c.MakerFee(),
		Precision: core.MarketPrecision{
			Amount: exchange.PrecisionFromPlaces(safe.String(row, "amount-precision")),
			Price:  exchange.PrecisionFromPlaces(safe.String(row, "price-precision")),
			Cost:   exchange.PrecisionFromPlaces(safe.String(row, "value-precision")),
		},
		Limits: core.MarketLimits{
			Amount: core.MinMax{
				Min: safe.String(row, "min-order-amt"),
				Max: safe.String(row, "max-order-amt"),
			},
			Cost: core.MinMax{Min: safe.String(row, "min-order-value")},
		},
		Info: row,
	}
}

// parseCurrency normalizes one /v2/reference/currencies entry:
//
//	{
//	    "currency": "usdt",
//	    "instStatus": "normal",
//	    "chains": [
//	        {"chain": "trc20usdt", "displayName": "TRC20",
//	         "depositStatus": "allowed", "withdrawStatus": "allowed",
//	         "minWithdrawAmt": "2", "maxWithdrawAmt": "1000000",
//	         "withdrawPrecision": 6, "transactFeeWithdraw": "1"}
//	    ]
//	}
func (c *Client) parseCurrency(row any) core.Currency {
	id := safe.String(row, "currency")
	currency := core.Currency{
		ID:       id,
		Code:     c.CurrencyCode(id),
		Active:   safe.String(row, "instStatus") == "normal",
		Networks: map[string]core.Network{},
		Info:     row,
	}
	for _, raw := range safe.List(row, "chains") {
		networkID := safe.String(raw, "displayName", safe.String(raw, "chain"))
		network := core.Network{
			ID:        safe.String(raw, "chain"),
			Network:   c.NetworkCode(networkID),
			Deposit:   safe.String(raw, "depositStatus") == "allowed",
			Withdraw:  safe.String(raw, "withdrawStatus") == "allowed",
			Fee:       safe.String(raw, "transactFeeWithdraw"),
			Precision: exchange.PrecisionFromPlaces(safe.String(raw, "withdrawPrecision")),
			Limits: core.TransferLimits{
				Withdraw: core.MinMax{
					Min: safe.String(raw, "minWithdrawAmt"),
					Max: safe.String(raw, "maxWithdrawAmt"),
				},
			},
			Info: raw,
		}
		network.Active = exchange.NetworkActive(network.Deposit, network.Withdraw)
		currency.Networks[network.Network] = network
		currency.Deposit = currency.Deposit || network.Deposit
		currency.Withdraw = currency.Withdraw || network.Withdraw
		if currency.Fee == "" {
			currency.Fee = network.Fee
			currency.Precision = network.Precision
			currency.Limits = network.Limits
		}
	}
	return currency
}

// parseTicker normalizes the tick object of /market/detail/merged.
// Best bid and ask arrive as [price, size] pairs; amount is the base
// volume and vol the quote turnover:
//
//	{
//	    "amount": 109.34634,
//	    "open": 7226.37,
//	    "close": 7263.29,
//	    "high": 7268.32,
//	    "low": 7226.37,
//	    "vol": 792343.11,
//	    "bid": [7263.29, 0.5],
//	    "ask": [7267.26, 0.3],
//	    "version": 100539500937,
//	    "ts": 1583853382586
//	}
func (c *Client) parseTicker(row any, market *core.Market) core.Ticker {
	bid := safe.List(row, "bid")
	ask := safe.List(row, "ask")
	ticker := core.Ticker{
		Symbol:      market.Symbol,
		Timestamp:   safe.Integer(row, "ts"),
		Bid:         safe.String(bid, 0),
		BidVolume:   safe.String(bid, 1),
		Ask:         safe.String(ask, 0),
		AskVolume:   safe.String(ask, 1),
		High:        safe.String(row, "high"),
		Low:         safe.String(row, "low"),
		Open:        safe.String(row, "open"),
		Close:       safe.String(row, "close"),
		BaseVolume:  safe.String(row, "amount"),
		QuoteVolume: safe.String(row, "vol"),
		Info:        row,
	}
	exchange.FinalizeTicker(&ticker)
	return ticker
}

// parseBalances merges the per-currency trade and frozen rows of the
// account balance endpoint:
//
//	{
//	    "id": 1000001,
//	    "type": "spot",
//	    "state": "working",
//	    "list": [
//	        {"currency": "usdt", "type": "trade", "balance": "91.850043797199"},
//	        {"currency": "usdt", "type": "frozen", "balance": "5.160000000000"}
//	    ]
//	}
func (c *Client) parseBalances(row any) core.Balances {
	free := map[string]string{}
	used := map[string]string{}
	for _, entry := range safe.List(row, "list") {
		code := c.CurrencyCode(safe.String(entry, "currency"))
		switch safe.String(entry, "type") {
		case "trade":
			free[code] = safe.String(entry, "balance")
		case "frozen":
			used[code] = safe.String(entry, "balance")
		}
	}
	balances := core.Balances{Currencies: map[string]core.Balance{}, Info: row}
	for code, amount := range free {
		balances.Currencies[code] = exchange.AssembleBalance(amount, used[code], "")
	}
	for code, amount := range used {
		if _, ok := free[code]; !ok {
			balances.Currencies[code] = exchange.AssembleBalance("", amount, "")
		}
	}
	return balances
}

// parseOrder normalizes order payloads. The venue encodes side and
// type in one hyphenated field and misspells the filled fields as
// "field-", kept as fallbacks:
//
//	{
//	    "id": 13997833014,
//	    "symbol": "ethbtc",
//	    "amount": "0.045000000000000000",
//	    "price": "0.034014000000000000",
//	    "created-at": 1545836976871,
//	    "type": "sell-limit",
//	    "field-amount": "0.045000000000000000",
//	    "field-cash-amount": "0.001530630000000000",
//	    "field-fees": "0.000003061260000000",
//	    "finished-at": 1545837948214,
//	    "state": "filled"
//	}
func (c *Client) parseOrder(row any, market *core.Market) core.Order {
	side, orderType := exchange.SplitSideType(safe.String(row, "type"))
	resolved := c.SafeMarket(safe.String(row, "symbol"), market, "")
	order := core.Order{
		ID:                 safe.String(row, "id"),
		ClientOrderID:      safe.String(row, "client-order-id"),
		Symbol:             resolved.Symbol,
		Type:               orderType,
		Side:               side,
		Price:              safe.String(row, "price"),
		Amount:             safe.String(row, "amount"),
		Filled:             safe.String2(row, "filled-amount", "field-amount"),
		Cost:               safe.String2(row, "filled-cash-amount", "field-cash-amount"),
		Status:             core.ParseOrderStatus(safe.String(row, "state"), orderStatuses),
		Timestamp:          safe.Integer(row, "created-at"),
		LastTradeTimestamp: safe.Integer(row, "finished-at"),
		Info:               row,
	}
	if feeCost := safe.String2(row, "filled-fees", "field-fees"); feeCost != "" {
		feeCurrency := resolved.Base
		if side == core.Sell {
			feeCurrency = resolved.Quote
		}
		order.Fee = core.Fee{Currency: feeCurrency, Cost: feeCost}
	}
	exchange.FinalizeOrder(&order)
	return order
}

// parseTrade normalizes /v1/order/matchresults:
//
//	{
//	    "symbol": "swftcbtc",
//	    "fee-currency": "swftc",
//	    "filled-fees": "0",
//	    "id": 83789509854000,
//	    "type": "buy-limit",
//	    "order-id": 83711103204909,
//	    "filled-amount": "45941.53",
//	    "price": "0.0000001401",
//	    "created-at": 1597933260729,
//	    "match-id": 100087455560,
//	    "role": "maker",
//	    "trade-id": 100050305348
//	}
func (c *Client) parseTrade(row any, market *core.Market) core.Trade {
	side, orderType := exchange.SplitSideType(safe.String(row, "type"))
	trade := core.Trade{
		ID:           safe.String2(row, "trade-id", "id"),
		OrderID:      safe.String(row, "order-id"),
		Symbol:       c.SafeSymbol(safe.String(row, "symbol"), market, ""),
		Side:         side,
		Type:         orderType,
		TakerOrMaker: safe.String(row, "role"),
		Price:        safe.String(row, "price"),
		Amount:       safe.String2(row, "filled-amount", "amount"),
		Timestamp:    safe.Integer2(row, "created-at", "ts"),
		Info:         row,
	}
	if feeCost := safe.String(row, "filled-fees"); feeCost != "" {
		trade.Fee = core.Fee{
			Currency: c.CurrencyCode(safe.String(row, "fee-currency")),
			Cost:     feeCost,
		}
	}
	exchange.FinalizeTrade(&trade)
	return trade
}

// parseTransaction normalizes /v1/query/deposit-withdraw rows. Chains
// arrive as lowercase concatenations like "trc20usdt"; the currency
// suffix is stripped before alias resolution:
//
//	{
//	    "id": 1171,
//	    "type": "deposit",
//	    "currency": "usdt",
//	    "tx-hash": "ed03094b84eafbe4bc16e7ef766ee959885ee5bcb265872baaa9c64e1cf86c2b",
//	    "chain": "trc20usdt",
//	    "amount": 7.457467,
//	    "address": "rae93V8d2mdoUQHwBDBdM4NHCMehRJAsbm",
//	    "address-tag": "100040",
//	    "fee": 0,
//	    "state": "safe",
//	    "created-at": 1510912472199,
//	    "updated-at": 1511145876575
//	}
func (c *Client) parseTransaction(row any, txType core.TransactionType) core.Transaction {
	statuses := depositStatuses
	if txType == core.Withdrawal {
		statuses = withdrawalStatuses
	}
	id := safe.String(row, "currency")
	code := c.CurrencyCode(id)
	chain := strings.TrimSuffix(safe.String(row, "chain"), strings.ToLower(id))
	tx := core.Transaction{
		ID:        safe.String(row, "id"),
		TxID:      safe.String(row, "tx-hash"),
		Type:      txType,
		Currency:  code,
		Network:   c.NetworkCode(chain),
		Amount:    safe.String(row, "amount"),
		Address:   safe.String(row, "address"),
		Tag:       safe.String(row, "address-tag"),
		Status:    core.ParseTransactionStatus(safe.String(row, "state"), statuses),
		Timestamp: safe.Integer(row, "created-at"),
		Updated:   safe.Integer(row, "updated-at"),
		Info:      row,
	}
	if fee := safe.String(row, "fee"); fee != "" && fee != "0" {
		tx.Fee = core.Fee{Currency: code, Cost: fee}
	}
	return tx
}
