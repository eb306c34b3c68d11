// internal/telegram/cart.go
package telegram

import (
	"sync"

	"github.com/user/orderdesk/internal/types"
)

// cartState holds each chat's in-flight cart. Telegram clients cannot keep
// cart state themselves the way the web frontend does, so the adapter owns
// it. Carts live only in memory; an unfinished order does not survive a
// restart.
type cartState struct {
	mu    sync.Mutex
	carts map[int64][]types.CartLine
}

func newCartState() *cartState {
	return &cartState{carts: make(map[int64][]types.CartLine)}
}

func (c *cartState) get(chatID int64) []types.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart := c.carts[chatID]
	out := make([]types.CartLine, len(cart))
	copy(out, cart)
	return out
}

func (c *cartState) set(chatID int64, cart []types.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.carts[chatID] = cart
}

func (c *cartState) clear(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.carts, chatID)
}

// applyReply merges a reply's deltas into the cart: removed items are
// dropped by name, added items merge into existing lines by name with
// their line totals recomputed.
func applyReply(cart []types.CartLine, reply types.AssistantReply) []types.CartLine {
	next := make([]types.CartLine, 0, len(cart)+len(reply.ItemsAdded))

	removed := make(map[string]bool, len(reply.ItemsRemoved))
	for _, item := range reply.ItemsRemoved {
		removed[item.Name] = true
	}
	for _, line := range cart {
		if !removed[line.Name] {
			next = append(next, line)
		}
	}

	for _, item := range reply.ItemsAdded {
		merged := false
		for i := range next {
			if next[i].Name == item.Name {
				next[i].Quantity += item.Quantity
				next[i].LineTotal = float64(next[i].Quantity) * next[i].UnitPrice
				merged = true
				break
			}
		}
		if !merged {
			next = append(next, item)
		}
	}
	return next
}

// cartTotal sums the line totals.
func cartTotal(cart []types.CartLine) float64 {
	var total float64
	for _, line := range cart {
		total += line.LineTotal
	}
	return total
}
