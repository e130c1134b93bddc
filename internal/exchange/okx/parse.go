package okx

import (
	"strings"

	"trade-connect/internal/core"
	"trade-connect/internal/exchange"
	"trade-connect/internal/precise"
	"trade-connect/internal/safe"
)

// parseMarket normalizes one /api/v5/public/instruments entry:
//
//	{
//	    "instId": "BTC-USD-SWAP",
//	    "instType": "SWAP",
//	    "uly": "BTC-USD",
//	    "baseCcy": "",
//	    "quoteCcy": "",
//	    "settleCcy": "BTC",
//	    "ctVal": "100",
//	    "ctType": "inverse",
//	    "expTime": "",
//	    "lever": "125",
//	    "tickSz": "0.1",
//	    "lotSz": "1",
//	    "minSz": "1",
//	    "state": "live"
//	}
//
// Contract instruments leave baseCcy/quoteCcy empty and carry the pair
// in the underlying instead.
func (c *Client) parseMarket(row any) core.Market {
	id := safe.String(row, "instId")
	instType := safe.StringLower(row, "instType")
	marketType := core.MarketType(instType)
	if instType == "futures" {
		marketType = core.MarketFuture
	}
	contract := marketType == core.MarketSwap || marketType == core.MarketFuture || marketType == core.MarketOption
	baseID := safe.String(row, "baseCcy")
	quoteID := safe.String(row, "quoteCcy")
	settleID := safe.String(row, "settleCcy")
	if underlying := safe.String(row, "uly"); underlying != "" && contract {
		parts := strings.Split(underlying, "-")
		if len(parts) == 2 {
			baseID, quoteID = parts[0], parts[1]
		}
	}
	base := c.CurrencyCode(baseID)
	quote := c.CurrencyCode(quoteID)
	settle := ""
	if contract {
		settle = c.CurrencyCode(settleID)
	}
	symbol := exchange.BuildSymbol(base, quote, settle)
	expiry := safe.Integer(row, "expTime")
	strike := ""
	optionType := ""
	switch marketType {
	case core.MarketFuture:
		symbol += "-" + yymmdd(expiry)
	case core.MarketOption:
		strike = safe.String(row, "stk")
		optionType = safe.String(row, "optType")
		symbol += "-" + yymmdd(expiry) + "-" + strike + "-" + optionType
		if optionType == "P" {
			optionType = "put"
		} else {
			optionType = "call"
		}
	}
	tickSize := safe.String(row, "tickSz")
	maxLeverage := precise.StringMax(safe.String(row, "lever", "1"), "1")
	market := core.Market{
		ID:       id,
		Symbol:   symbol,
		Base:     base,
		Quote:    quote,
		Settle:   settle,
		BaseID:   baseID,
		QuoteID:  quoteID,
		SettleID: settleID,

		Type:     marketType,
		Contract: contract,
		Linear:   contract && quoteID == settleID,
		Inverse:  contract && baseID == settleID,

		Expiry:     expiry,
		Strike:     strike,
		OptionType: optionType,

		Active:   safe.String(row, "state") == "live",
		TakerFee: c.TakerFee(),
		MakerFee: c.MakerFee(),
		Precision: core.MarketPrecision{
			Amount: safe.String(row, "lotSz"),
			Price:  tickSize,
		},
		Limits: core.MarketLimits{
			Amount:   core.MinMax{Min: safe.String(row, "minSz")},
			Price:    core.MinMax{Min: tickSize},
			Leverage: core.MinMax{Min: "1", Max: maxLeverage},
		},
		Info: row,
	}
	if contract {
		market.ContractSize = safe.String(row, "ctVal")
	}
	return market
}

// parseCurrencies groups the per-chain rows of /api/v5/asset/currencies
// into one currency with a network map. Each row describes a single
// rail:
//
//	{
//	    "ccy": "USDT",
//	    "chain": "USDT-ERC20",
//	    "name": "Tether",
//	    "canDep": true,
//	    "canWd": true,
//	    "minWd": "2",
//	    "maxWd": "4000000",
//	    "minFee": "3.2",
//	    "wdTickSz": "6"
//	}
func (c *Client) parseCurrencies(rows []any) []core.Currency {
	byCode := map[string]*core.Currency{}
	var order []string
	for _, row := range rows {
		id := safe.String(row, "ccy")
		code := c.CurrencyCode(id)
		currency, ok := byCode[code]
		if !ok {
			currency = &core.Currency{
				ID:       id,
				Code:     code,
				Name:     safe.String(row, "name"),
				Networks: map[string]core.Network{},
				Info:     []any{},
			}
			byCode[code] = currency
			order = append(order, code)
		}
		chain := safe.String(row, "chain")
		networkID := strings.TrimPrefix(chain, id+"-")
		network := core.Network{
			ID:        networkID,
			Network:   c.NetworkCode(networkID),
			Deposit:   safe.Bool(row, "canDep"),
			Withdraw:  safe.Bool(row, "canWd"),
			Fee:       safe.String(row, "minFee"),
			Precision: exchange.PrecisionFromPlaces(safe.String(row, "wdTickSz")),
			Limits: core.TransferLimits{
				Withdraw: core.MinMax{
					Min: safe.String(row, "minWd"),
					Max: safe.String(row, "maxWd"),
				},
			},
			Info: row,
		}
		network.Active = exchange.NetworkActive(network.Deposit, network.Withdraw)
		currency.Networks[network.Network] = network
		currency.Deposit = currency.Deposit || network.Deposit
		currency.Withdraw = currency.Withdraw || network.Withdraw
		currency.Info = append(currency.Info.([]any), row)
		if currency.Fee == "" {
			currency.Fee = network.Fee
			currency.Precision = network.Precision
			currency.Limits = network.Limits
		}
	}
	currencies := make([]core.Currency, 0, len(order))
	for _, code := range order {
		currency := byCode[code]
		currency.Active = exchange.NetworkActive(currency.Deposit, currency.Withdraw)
		currencies = append(currencies, *currency)
	}
	return currencies
}

// parseTicker normalizes /api/v5/market/ticker:
//
//	{
//	    "instId": "ETH-BTC",
//	    "last": "0.07319",
//	    "askPx": "0.07322",
//	    "askSz": "4.2",
//	    "bidPx": "0.0732",
//	    "bidSz": "6.050058",
//	    "open24h": "0.07801",
//	    "high24h": "0.07975",
//	    "low24h": "0.06019",
//	    "volCcy24h": "11788.887619",
//	    "vol24h": "167493.829229",
//	    "ts": "1621440583784"
//	}
func (c *Client) parseTicker(row any, market *core.Market) core.Ticker {
	last := safe.String(row, "last")
	ticker := core.Ticker{
		Symbol:     c.SafeSymbol(safe.String(row, "instId"), market, "-"),
		Timestamp:  safe.Integer(row, "ts"),
		Bid:        safe.String(row, "bidPx"),
		BidVolume:  safe.String(row, "bidSz"),
		Ask:        safe.String(row, "askPx"),
		AskVolume:  safe.String(row, "askSz"),
		High:       safe.String(row, "high24h"),
		Low:        safe.String(row, "low24h"),
		Open:       safe.String(row, "open24h"),
		Last:       last,
		Close:      last,
		BaseVolume: safe.String(row, "vol24h"),
		Info:       row,
	}
	// volCcy24h is quote volume only for spot pairs; on contracts it
	// is denominated in the contract currency.
	if market == nil || !market.Contract {
		ticker.QuoteVolume = safe.String(row, "volCcy24h")
	}
	exchange.FinalizeTicker(&ticker)
	return ticker
}

// parseBalances normalizes the trading-account balance envelope:
//
//	{
//	    "uTime": "1621556915931",
//	    "details": [
//	        {"ccy": "BTC", "availBal": "0.5", "frozenBal": "0.1", "eq": "0.6"}
//	    ]
//	}
func (c *Client) parseBalances(row any) core.Balances {
	balances := core.Balances{
		Timestamp:  safe.Integer(row, "uTime"),
		Currencies: map[string]core.Balance{},
		Info:       row,
	}
	for _, entry := range safe.List(row, "details") {
		code := c.CurrencyCode(safe.String(entry, "ccy"))
		balances.Currencies[code] = exchange.AssembleBalance(
			safe.String(entry, "availBal"),
			safe.String(entry, "frozenBal"),
			safe.String(entry, "eq"),
		)
	}
	return balances
}

// parseOrder normalizes order payloads from the trade endpoints:
//
//	{
//	    "instId": "BTC-USDT",
//	    "ordId": "312269865356374016",
//	    "clOrdId": "oktswap6",
//	    "px": "20000",
//	    "sz": "0.1",
//	    "accFillSz": "0.05",
//	    "avgPx": "19999.5",
//	    "state": "partially_filled",
//	    "side": "buy",
//	    "ordType": "limit",
//	    "fee": "-0.00005",
//	    "feeCcy": "BTC",
//	    "cTime": "1621910749815",
//	    "uTime": "1621910810825"
//	}
//
// The fee field is signed from the account's perspective so a charge
// arrives negative.
func (c *Client) parseOrder(row any, market *core.Market) core.Order {
	ordType := safe.StringLower(row, "ordType")
	order := core.Order{
		ID:                 safe.String(row, "ordId"),
		ClientOrderID:      safe.String(row, "clOrdId"),
		Symbol:             c.SafeSymbol(safe.String(row, "instId"), market, "-"),
		Type:               core.OrderType(ordType),
		Side:               core.Side(safe.StringLower(row, "side")),
		PostOnly:           ordType == "post_only",
		Price:              safe.String(row, "px"),
		Amount:             safe.String(row, "sz"),
		Filled:             safe.String(row, "accFillSz"),
		Average:            safe.String(row, "avgPx"),
		Status:             core.ParseOrderStatus(safe.String(row, "state"), orderStatuses),
		Timestamp:          safe.Integer(row, "cTime"),
		LastTradeTimestamp: safe.Integer2(row, "fillTime", "uTime"),
		Info:               row,
	}
	if fee := safe.String(row, "fee"); fee != "" {
		order.Fee = core.Fee{
			Currency: c.CurrencyCode(safe.String(row, "feeCcy")),
			Cost:     precise.StringNeg(fee),
		}
	}
	exchange.FinalizeOrder(&order)
	return order
}

// parseTrade normalizes /api/v5/trade/fills:
//
//	{
//	    "instId": "ETH-USDT",
//	    "tradeId": "107601752",
//	    "ordId": "312269865356374016",
//	    "fillPx": "2654.98",
//	    "fillSz": "0.007533",
//	    "side": "buy",
//	    "execType": "T",
//	    "fee": "-0.0000754",
//	    "feeCcy": "ETH",
//	    "ts": "1621927314985"
//	}
func (c *Client) parseTrade(row any, market *core.Market) core.Trade {
	takerOrMaker := ""
	switch safe.String(row, "execType") {
	case "T":
		takerOrMaker = "taker"
	case "M":
		takerOrMaker = "maker"
	}
	trade := core.Trade{
		ID:           safe.String(row, "tradeId"),
		OrderID:      safe.String(row, "ordId"),
		Symbol:       c.SafeSymbol(safe.String(row, "instId"), market, "-"),
		Side:         core.Side(safe.StringLower(row, "side")),
		TakerOrMaker: takerOrMaker,
		Price:        safe.String2(row, "fillPx", "px"),
		Amount:       safe.String2(row, "fillSz", "sz"),
		Timestamp:    safe.Integer(row, "ts"),
		Info:         row,
	}
	if fee := safe.String(row, "fee"); fee != "" {
		trade.Fee = core.Fee{
			Currency: c.CurrencyCode(safe.String(row, "feeCcy")),
			Cost:     precise.StringNeg(fee),
		}
	}
	exchange.FinalizeTrade(&trade)
	return trade
}

// parseTransaction normalizes deposit and withdrawal history rows:
//
//	{
//	    "ccy": "BTC",
//	    "chain": "BTC-Bitcoin",
//	    "amt": "0.1",
//	    "from": "",
//	    "to": "1AbcD...",
//	    "txId": "b16f9da...",
//	    "ts": "1597026383085",
//	    "state": "2",
//	    "depId": "4703879"
//	}
func (c *Client) parseTransaction(row any, txType core.TransactionType) core.Transaction {
	statuses := depositStatuses
	idKey := "depId"
	if txType == core.Withdrawal {
		statuses = withdrawalStatuses
		idKey = "wdId"
	}
	id := safe.String(row, "ccy")
	code := c.CurrencyCode(id)
	chain := safe.String(row, "chain")
	tx := core.Transaction{
		ID:          safe.String(row, idKey),
		TxID:        safe.String(row, "txId"),
		Type:        txType,
		Currency:    code,
		Network:     c.NetworkCode(strings.TrimPrefix(chain, id+"-")),
		Amount:      safe.String(row, "amt"),
		AddressFrom: safe.String(row, "from"),
		AddressTo:   safe.String(row, "to"),
		Status:      core.ParseTransactionStatus(safe.String(row, "state"), statuses),
		Timestamp:   safe.Integer(row, "ts"),
		Info:        row,
	}
	tx.Address = tx.AddressTo
	if fee := safe.String(row, "fee"); fee != "" {
		tx.Fee = core.Fee{Currency: code, Cost: fee}
	}
	return tx
}

// parsePosition normalizes /api/v5/account/positions:
//
//	{
//	    "instId": "ETH-USDT-SWAP",
//	    "posSide": "long",
//	    "pos": "1",
//	    "avgPx": "2566.31",
//	    "markPx": "2567.4",
//	    "notionalUsd": "341.51",
//	    "lever": "10",
//	    "upl": "0.0108",
//	    "liqPx": "2352.84",
//	    "margin": "0.0003",
//	    "mgnMode": "isolated",
//	    "uTime": "1619507761462"
//	}
func (c *Client) parsePosition(row any, market *core.Market) core.Position {
	side := safe.String(row, "posSide")
	contracts := safe.String(row, "pos")
	if side == "net" || side == "" {
		// One way mode reports direction through the sign of pos.
		if precise.StringLt(contracts, "0") {
			side = "short"
			contracts = precise.StringAbs(contracts)
		} else {
			side = "long"
		}
	}
	resolved := c.SafeMarket(safe.String(row, "instId"), market, "-")
	position := core.Position{
		Symbol:           resolved.Symbol,
		Side:             side,
		Contracts:        contracts,
		ContractSize:     resolved.ContractSize,
		EntryPrice:       safe.String(row, "avgPx"),
		MarkPrice:        safe.String(row, "markPx"),
		Notional:         safe.String(row, "notionalUsd"),
		Leverage:         safe.String(row, "lever"),
		UnrealizedPnl:    safe.String(row, "upl"),
		LiquidationPrice: safe.String(row, "liqPx"),
		Collateral:       safe.String(row, "margin"),
		MarginMode:       safe.String(row, "mgnMode"),
		Timestamp:        safe.Integer(row, "uTime"),
		Info:             row,
	}
	return position
}

// parseFundingRate normalizes /api/v5/public/funding-rate:
//
//	{
//	    "fundingRate": "0.00027815",
//	    "fundingTime": "1634256000000",
//	    "instId": "BTC-USD-SWAP",
//	    "nextFundingRate": "0.00017",
//	    "nextFundingTime": "1634284800000"
//	}
func (c *Client) parseFundingRate(row any, market *core.Market) core.FundingRate {
	return core.FundingRate{
		Symbol:               c.SafeSymbol(safe.String(row, "instId"), market, "-"),
		FundingRate:          safe.String(row, "fundingRate"),
		FundingTimestamp:     safe.Integer(row, "fundingTime"),
		NextFundingRate:      safe.String(row, "nextFundingRate"),
		NextFundingTimestamp: safe.Integer(row, "nextFundingTime"),
		Timestamp:            safe.Integer(row, "ts"),
		Info:                 row,
	}
}
