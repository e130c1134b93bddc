package exchange

import (
	"fmt"

	"trade-connect/internal/core"
)

// Cost is the declarative rate-limit weight of one endpoint, in
// abstract limiter units. NoSymbol applies when the request omits the
// symbol filter (full-universe scans are priced higher). ByLimit is a
// breakpoint table keyed by the requested page limit: the smallest
// breakpoint >= the requested limit wins.
type Cost struct {
	Base     int
	NoSymbol int
	ByLimit  [][2]int
}

// ResolveCost computes the cost of a specific call from its
// parameters. Pure: no I/O, no side effects; the result feeds an
// external token-bucket limiter. Requesting a page limit above the
// largest breakpoint is a caller error so an endpoint is never
// silently under-costed.
func ResolveCost(cost Cost, params map[string]any) (int, error) {
	base := cost.Base
	if base <= 0 {
		base = 1
	}
	if cost.NoSymbol > 0 {
		if _, ok := params["symbol"]; !ok {
			return cost.NoSymbol, nil
		}
	}
	if len(cost.ByLimit) > 0 {
		limit, ok := intParam(params, "limit")
		if ok {
			for _, entry := range cost.ByLimit {
				if limit <= entry[0] {
					return entry[1], nil
				}
			}
			largest := cost.ByLimit[len(cost.ByLimit)-1][0]
			return 0, fmt.Errorf("%w: limit %d exceeds largest supported page size %d", core.ErrBadRequest, limit, largest)
		}
	}
	return base, nil
}

func intParam(params map[string]any, key string) (int, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
