// internal/types/models.go
package types

// OrderStatus is the conversation state reported with every assistant reply.
type OrderStatus string

const (
	StatusTakingOrder OrderStatus = "taking_order"
	StatusConfirming  OrderStatus = "confirming"
	StatusComplete    OrderStatus = "complete"
)

// Valid reports whether s is one of the defined order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusTakingOrder, StatusConfirming, StatusComplete:
		return true
	}
	return false
}

// CartLine is a single item in a cart or order.
// LineTotal is expected to equal Quantity * UnitPrice.
type CartLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// ConversationTurn is one inbound customer message plus the client-held cart.
// It is never persisted.
type ConversationTurn struct {
	SessionID   string     `json:"session_id"`
	Message     string     `json:"message"`
	CurrentCart []CartLine `json:"current_cart"`
}

// AssistantReply is the structured response produced for each turn.
// It is immutable once returned; fallback replies use the same shape.
type AssistantReply struct {
	Speech       string      `json:"speech"`
	ItemsAdded   []CartLine  `json:"items_added"`
	ItemsRemoved []CartLine  `json:"items_removed"`
	Suggestions  []string    `json:"suggestions"`
	OrderStatus  OrderStatus `json:"order_status"`
	Total        float64     `json:"total"`
}

// Order is a completed cart submitted for persistence. The server assigns
// Timestamp at save time; Status defaults to "pending".
type Order struct {
	SessionID string     `json:"session_id"`
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	Timestamp string     `json:"timestamp"`
	Status    string     `json:"status"`
}

// UsageStats is a point-in-time snapshot of process-wide usage counters.
type UsageStats struct {
	ExternalMinutes  float64 `json:"external_minutes"`
	TokensIn         int     `json:"tokens_in"`
	TokensOut        int     `json:"tokens_out"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	EstimatedCostINR float64 `json:"estimated_cost_inr"`
	SessionsToday    int     `json:"sessions_today"`
	OrdersToday      int     `json:"orders_today"`
	UptimeMinutes    float64 `json:"uptime_minutes"`
}
