// internal/interpreter/decode.go
package interpreter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/orderdesk/internal/types"
)

// decodeReply coerces the model's free text into a validated AssistantReply.
// It strips a surrounding markdown code fence (with optional language tag),
// parses the remainder as JSON, applies documented defaults for absent
// fields, and rejects order_status values outside the defined enum.
func decodeReply(text string) (types.AssistantReply, error) {
	text = stripFence(text)

	// Defaults for fields the model may omit.
	reply := types.AssistantReply{OrderStatus: types.StatusTakingOrder}
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return types.AssistantReply{}, fmt.Errorf("parse reply: %w", err)
	}

	if !reply.OrderStatus.Valid() {
		return types.AssistantReply{}, fmt.Errorf("invalid order_status %q", reply.OrderStatus)
	}
	if reply.Total < 0 {
		return types.AssistantReply{}, fmt.Errorf("negative total %v", reply.Total)
	}

	if reply.ItemsAdded == nil {
		reply.ItemsAdded = []types.CartLine{}
	}
	if reply.ItemsRemoved == nil {
		reply.ItemsRemoved = []types.CartLine{}
	}
	if reply.Suggestions == nil {
		reply.Suggestions = []string{}
	}
	return reply, nil
}

// stripFence removes a surrounding markdown code fence and the language tag
// following the opening fence, if present. Text with no opening fence is
// returned untouched, even if it ends in backticks.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
