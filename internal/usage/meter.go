// internal/usage/meter.go
package usage

import (
	"math"
	"sync"
	"time"

	"github.com/user/orderdesk/internal/types"
)

// Rates holds the per-unit pricing constants used for cost estimation.
// They come from configuration, not hard-coded policy.
type Rates struct {
	ExternalPerMinuteUSD float64
	TokensPerThousandUSD float64
	USDToINR             float64
}

// Meter accumulates process-wide usage counters: external-call seconds,
// model token counts, and daily session/order tallies. Counters only grow;
// the sole reset is a process restart. All methods are safe for concurrent
// use.
type Meter struct {
	mu              sync.Mutex
	externalSeconds float64
	tokensIn        int
	tokensOut       int
	sessionsToday   int
	ordersToday     int
	startTime       time.Time
	rates           Rates
}

// NewMeter creates a Meter with the given pricing rates, anchored at the
// current time for uptime reporting.
func NewMeter(rates Rates) *Meter {
	return &Meter{
		startTime: time.Now(),
		rates:     rates,
	}
}

// RecordExternalCall adds seconds of billed external-call usage.
func (m *Meter) RecordExternalCall(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.externalSeconds += seconds
}

// RecordModelUsage adds input and output token counts from one model call.
func (m *Meter) RecordModelUsage(tokensIn, tokensOut int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokensIn += tokensIn
	m.tokensOut += tokensOut
}

// RecordSession marks that at least one session was served today. This keeps
// the historical floor-of-one behavior rather than counting unique sessions.
func (m *Meter) RecordSession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessionsToday < 1 {
		m.sessionsToday = 1
	}
}

// RecordOrder counts one persisted order.
func (m *Meter) RecordOrder() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ordersToday++
}

// Snapshot returns the current counters with derived cost and uptime
// figures. It has no side effects.
func (m *Meter) Snapshot() types.UsageStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	externalCost := m.externalSeconds / 60 * m.rates.ExternalPerMinuteUSD
	tokenCost := float64(m.tokensIn+m.tokensOut) / 1000 * m.rates.TokensPerThousandUSD
	totalUSD := externalCost + tokenCost

	return types.UsageStats{
		ExternalMinutes:  round(m.externalSeconds/60, 2),
		TokensIn:         m.tokensIn,
		TokensOut:        m.tokensOut,
		EstimatedCostUSD: round(totalUSD, 4),
		EstimatedCostINR: round(totalUSD*m.rates.USDToINR, 2),
		SessionsToday:    m.sessionsToday,
		OrdersToday:      m.ordersToday,
		UptimeMinutes:    round(time.Since(m.startTime).Minutes(), 1),
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
