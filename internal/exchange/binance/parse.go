package binance

import (
	"trade-connect/internal/core"
	"trade-connect/internal/exchange"
	"trade-connect/internal/safe"
)

// parseMarket normalizes one entry of /api/v3/exchangeInfo "symbols":
//
//	{
//	    "symbol": "BTCUSDT",
//	    "status": "TRADING",
//	    "baseAsset": "BTC",
//	    "quoteAsset": "USDT",
//	    "filters": [
//	        {"filterType": "PRICE_FILTER", "tickSize": "0.01000000", ...},
//	        {"filterType": "LOT_SIZE", "stepSize": "0.00001000", "minQty": "0.00001000", "maxQty": "9000.00000000"},
//	        {"filterType": "NOTIONAL", "minNotional": "5.00000000"}
//	    ]
//	}
func (c *Client) parseMarket(row any) core.Market {
	id := safe.String(row, "symbol")
	baseID := safe.String(row, "baseAsset")
	quoteID := safe.String(row, "quoteAsset")
	base := c.CurrencyCode(baseID)
	quote := c.CurrencyCode(quoteID)
	market := core.Market{
		ID:       id,
		Symbol:   exchange.BuildSymbol(base, quote, ""),
		Base:     base,
		Quote:    quote,
		BaseID:   baseID,
		QuoteID:  quoteID,
		Type:     core.MarketSpot,
		Active:   safe.String(row, "status") == "TRADING",
		TakerFee: c.TakerFee(),
		MakerFee: c.MakerFee(),
		Info:     row,
	}
	for _, filter := range safe.List(row, "filters") {
		switch safe.String(filter, "filterType") {
		case "PRICE_FILTER":
			market.Precision.Price = safe.String(filter, "tickSize")
			market.Limits.Price = core.MinMax{
				Min: safe.String(filter, "minPrice"),
				Max: safe.String(filter, "maxPrice"),
			}
		case "LOT_SIZE":
			market.Precision.Amount = safe.String(filter, "stepSize")
			market.Limits.Amount = core.MinMax{
				Min: safe.String(filter, "minQty"),
				Max: safe.String(filter, "maxQty"),
			}
		case "NOTIONAL", "MIN_NOTIONAL":
			market.Limits.Cost.Min = safe.String(filter, "minNotional")
			if max := safe.String(filter, "maxNotional"); max != "" {
				market.Limits.Cost.Max = max
			}
		}
	}
	return market
}

// parseCurrency normalizes one entry of /sapi/v1/capital/config/getall:
//
//	{
//	    "coin": "BTC",
//	    "name": "Bitcoin",
//	    "depositAllEnable": true,
//	    "withdrawAllEnable": true,
//	    "networkList": [
//	        {"network": "BTC", "depositEnable": true, "withdrawEnable": true,
//	         "withdrawFee": "0.0002", "withdrawMin": "0.001", "withdrawMax": "750",
//	         "withdrawIntegerMultiple": "0.00000001"}
//	    ]
//	}
func (c *Client) parseCurrency(row any) core.Currency {
	id := safe.String(row, "coin")
	currency := core.Currency{
		ID:       id,
		Code:     c.CurrencyCode(id),
		Name:     safe.String(row, "name"),
		Deposit:  safe.Bool(row, "depositAllEnable"),
		Withdraw: safe.Bool(row, "withdrawAllEnable"),
		Networks: map[string]core.Network{},
		Info:     row,
	}
	currency.Active = exchange.NetworkActive(currency.Deposit, currency.Withdraw)
	for _, raw := range safe.List(row, "networkList") {
		networkID := safe.String(raw, "network")
		network := core.Network{
			ID:        networkID,
			Network:   c.NetworkCode(networkID),
			Deposit:   safe.Bool(raw, "depositEnable"),
			Withdraw:  safe.Bool(raw, "withdrawEnable"),
			Fee:       safe.String(raw, "withdrawFee"),
			Precision: safe.String(raw, "withdrawIntegerMultiple"),
			Limits: core.TransferLimits{
				Withdraw: core.MinMax{
					Min: safe.String(raw, "withdrawMin"),
					Max: safe.String(raw, "withdrawMax"),
				},
			},
			Info: raw,
		}
		network.Active = exchange.NetworkActive(network.Deposit, network.Withdraw)
		currency.Networks[network.Network] = network
		if currency.Fee == "" || safe.Bool(raw, "isDefault") {
			currency.Fee = network.Fee
			currency.Precision = network.Precision
			currency.Limits = network.Limits
		}
	}
	return currency
}

// parseTicker normalizes /api/v3/ticker/24hr:
//
//	{
//	    "symbol": "ETHBTC",
//	    "priceChange": "0.00013300",
//	    "priceChangePercent": "0.537",
//	    "weightedAvgPrice": "0.02492020",
//	    "prevClosePrice": "0.02476800",
//	    "lastPrice": "0.02490100",
//	    "bidPrice": "0.02490000",
//	    "askPrice": "0.02490100",
//	    "openPrice": "0.02476800",
//	    "highPrice": "0.02537000",
//	    "lowPrice": "0.02450000",
//	    "volume": "91892.32300000",
//	    "quoteVolume": "2290.05923890",
//	    "closeTime": 1618964487839
//	}
func (c *Client) parseTicker(row any, market *core.Market) core.Ticker {
	ticker := core.Ticker{
		Symbol:        c.SafeSymbol(safe.String(row, "symbol"), market, ""),
		Timestamp:     safe.Integer(row, "closeTime"),
		Bid:           safe.String(row, "bidPrice"),
		BidVolume:     safe.String(row, "bidQty"),
		Ask:           safe.String(row, "askPrice"),
		AskVolume:     safe.String(row, "askQty"),
		High:          safe.String(row, "highPrice"),
		Low:           safe.String(row, "lowPrice"),
		Open:          safe.String(row, "openPrice"),
		Last:          safe.String(row, "lastPrice"),
		PreviousClose: safe.String(row, "prevClosePrice"),
		VWAP:          safe.String(row, "weightedAvgPrice"),
		BaseVolume:    safe.String(row, "volume"),
		QuoteVolume:   safe.String(row, "quoteVolume"),
		Info:          row,
	}
	exchange.FinalizeTicker(&ticker)
	return ticker
}

// parseBalances normalizes /api/v3/account:
//
//	{
//	    "updateTime": 123456789,
//	    "balances": [
//	        {"asset": "BTC", "free": "4723846.89208129", "locked": "0.00000000"}
//	    ]
//	}
func (c *Client) parseBalances(row any) core.Balances {
	balances := core.Balances{
		Timestamp:  safe.Integer(row, "updateTime"),
		Currencies: map[string]core.Balance{},
		Info:       row,
	}
	for _, entry := range safe.List(row, "balances") {
		code := c.CurrencyCode(safe.String(entry, "asset"))
		balances.Currencies[code] = exchange.AssembleBalance(
			safe.String(entry, "free"),
			safe.String(entry, "locked"),
			"",
		)
	}
	return balances
}

// parseOrder normalizes order payloads from /api/v3/order and
// /api/v3/openOrders:
//
//	{
//	    "symbol": "LTCBTC",
//	    "orderId": 1,
//	    "clientOrderId": "myOrder1",
//	    "price": "0.1",
//	    "origQty": "1.0",
//	    "executedQty": "0.0",
//	    "cummulativeQuoteQty": "0.0",
//	    "status": "NEW",
//	    "timeInForce": "GTC",
//	    "type": "LIMIT",
//	    "side": "BUY",
//	    "time": 1499827319559,
//	    "updateTime": 1499827319559
//	}
func (c *Client) parseOrder(row any, market *core.Market) core.Order {
	timestamp := safe.IntegerN(row, []any{"time", "transactTime", "workingTime"})
	order := core.Order{
		ID:                 safe.String(row, "orderId"),
		ClientOrderID:      safe.String2(row, "clientOrderId", "origClientOrderId"),
		Symbol:             c.SafeSymbol(safe.String(row, "symbol"), market, ""),
		Type:               core.OrderType(safe.StringLower(row, "type")),
		Side:               core.Side(safe.StringLower(row, "side")),
		TimeInForce:        safe.String(row, "timeInForce"),
		Price:              safe.String(row, "price"),
		Amount:             safe.String(row, "origQty"),
		Filled:             safe.String(row, "executedQty"),
		Cost:               safe.String(row, "cummulativeQuoteQty"),
		Status:             core.ParseOrderStatus(safe.String(row, "status"), orderStatuses),
		Timestamp:          timestamp,
		LastTradeTimestamp: safe.Integer(row, "updateTime"),
		Info:               row,
	}
	exchange.FinalizeOrder(&order)
	return order
}

// parseTrade normalizes /api/v3/myTrades:
//
//	{
//	    "symbol": "BNBBTC",
//	    "id": 28457,
//	    "orderId": 100234,
//	    "price": "4.00000100",
//	    "qty": "12.00000000",
//	    "quoteQty": "48.000012",
//	    "commission": "10.10000000",
//	    "commissionAsset": "BNB",
//	    "time": 1499865549590,
//	    "isBuyer": true,
//	    "isMaker": false
//	}
func (c *Client) parseTrade(row any, market *core.Market) core.Trade {
	side := core.Sell
	if safe.Bool(row, "isBuyer") {
		side = core.Buy
	}
	takerOrMaker := "taker"
	if safe.Bool(row, "isMaker") {
		takerOrMaker = "maker"
	}
	trade := core.Trade{
		ID:           safe.String(row, "id"),
		OrderID:      safe.String(row, "orderId"),
		Symbol:       c.SafeSymbol(safe.String(row, "symbol"), market, ""),
		Side:         side,
		TakerOrMaker: takerOrMaker,
		Price:        safe.String(row, "price"),
		Amount:       safe.String(row, "qty"),
		Cost:         safe.String(row, "quoteQty"),
		Timestamp:    safe.Integer(row, "time"),
		Info:         row,
	}
	if commission := safe.String(row, "commission"); commission != "" {
		trade.Fee = core.Fee{
			Currency: c.CurrencyCode(safe.String(row, "commissionAsset")),
			Cost:     commission,
		}
	}
	exchange.FinalizeTrade(&trade)
	return trade
}

// parseTransaction normalizes deposit rows from
// /sapi/v1/capital/deposit/hisrec and withdrawal rows from
// /sapi/v1/capital/withdraw/history:
//
//	{
//	    "id": "769800519366885376",
//	    "amount": "0.001",
//	    "coin": "BNB",
//	    "network": "BNB",
//	    "status": 0,
//	    "address": "bnb136ns6lfw4zs5hg4n85vdthaad7hq5m4gtkgf23",
//	    "addressTag": "101764890",
//	    "txId": "98A3EA560C6B3336D348B6C83F0F95ECE4F1F5919E94BD006E5BF3BF264FACFC",
//	    "insertTime": 1661493146000,
//	    "transactionFee": "0.000004"
//	}
func (c *Client) parseTransaction(row any, txType core.TransactionType) core.Transaction {
	statuses := depositStatuses
	if txType == core.Withdrawal {
		statuses = withdrawalStatuses
	}
	code := c.CurrencyCode(safe.String(row, "coin"))
	tx := core.Transaction{
		ID:        safe.String(row, "id"),
		TxID:      safe.String(row, "txId"),
		Type:      txType,
		Currency:  code,
		Network:   c.NetworkCode(safe.String(row, "network")),
		Amount:    safe.String(row, "amount"),
		Address:   safe.String(row, "address"),
		Tag:       safe.String(row, "addressTag"),
		Status:    core.ParseTransactionStatus(safe.String(row, "status"), statuses),
		Timestamp: safe.Integer2(row, "insertTime", "applyTime"),
		Updated:   safe.Integer(row, "completeTime"),
		Info:      row,
	}
	tx.AddressTo = tx.Address
	tx.TagTo = tx.Tag
	if fee := safe.String(row, "transactionFee"); fee != "" {
		tx.Fee = core.Fee{Currency: code, Cost: fee}
	}
	return tx
}
