package core

import (
	"fmt"

	"trade-connect/internal/precise"
)

// ApplyPrecision clamps an order's price and amount to the market's
// tick sizes and checks the trading limits. This is the single
// controlled rounding step between vendor decimal strings and an
// outgoing request; everything upstream stays exact.
func ApplyPrecision(market *Market, order Order) (Order, error) {
	if market == nil {
		return order, fmt.Errorf("%w: market", ErrArgumentsRequired)
	}
	if order.Amount == "" || !precise.StringGt(order.Amount, "0") {
		return order, fmt.Errorf("%w: amount must be positive", ErrInvalidOrder)
	}
	order.Amount = RoundToTick(order.Amount, market.Precision.Amount)
	if !precise.StringGt(order.Amount, "0") {
		return order, fmt.Errorf("%w: amount rounds to zero", ErrInvalidOrder)
	}
	if min := market.Limits.Amount.Min; min != "" && precise.StringLt(order.Amount, min) {
		return order, fmt.Errorf("%w: amount %s below minimum %s", ErrInvalidOrder, order.Amount, min)
	}
	if max := market.Limits.Amount.Max; max != "" && precise.StringGt(order.Amount, max) {
		return order, fmt.Errorf("%w: amount %s above maximum %s", ErrInvalidOrder, order.Amount, max)
	}
	if order.Type == MarketOrder {
		return order, nil
	}
	if order.Price == "" || !precise.StringGt(order.Price, "0") {
		return order, fmt.Errorf("%w: limit order requires a positive price", ErrInvalidOrder)
	}
	order.Price = RoundToTick(order.Price, market.Precision.Price)
	if !precise.StringGt(order.Price, "0") {
		return order, fmt.Errorf("%w: price rounds to zero", ErrInvalidOrder)
	}
	cost := precise.StringMul(order.Price, order.Amount)
	if min := market.Limits.Cost.Min; min != "" && precise.StringLt(cost, min) {
		return order, fmt.Errorf("%w: cost %s below minimum %s", ErrInvalidOrder, cost, min)
	}
	return order, nil
}

// RoundToTick rounds value down to a multiple of tick. An absent tick
// leaves the value untouched.
func RoundToTick(value, tick string) string {
	if value == "" || tick == "" || !precise.StringGt(tick, "0") {
		return value
	}
	v := precise.MustParse(value)
	step := precise.MustParse(tick)
	return v.Div(step).Floor().Mul(step).String()
}
