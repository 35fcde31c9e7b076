package gateway

import "time"

// Freshness tiers. Live scores go stale in seconds; a league table or a
// currency sheet barely moves within the hour.
const (
	TTLLive  = 5 * time.Second
	TTLToday = 60 * time.Second
	TTLSlow  = 30 * time.Minute
	TTLRates = time.Hour
)

// Hints describes the volatility of a request. Adapters fill it from
// their own parameters; the policy itself knows nothing about domains.
type Hints struct {
	// Live is set when the caller asked for in-progress data.
	Live bool
	// Date is the requested date, if the request is date-scoped.
	Date time.Time
	// Slow forces the long tier for data known not to change intraday
	// (exchange rates in this product).
	Slow bool
}

// TTLFor maps volatility hints to a freshness duration. Evaluated once at
// cache-miss time; a fresh entry is never re-policied.
func TTLFor(h Hints, now time.Time) time.Duration {
	switch {
	case h.Live:
		return TTLLive
	case h.Slow:
		return TTLRates
	case !h.Date.IsZero() && sameDay(h.Date, now):
		return TTLToday
	default:
		return TTLSlow
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
