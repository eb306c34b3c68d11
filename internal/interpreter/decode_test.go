// internal/interpreter/decode_test.go
package interpreter

import (
	"testing"

	"github.com/user/orderdesk/internal/types"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"unclosed fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"trailing backticks without opening fence", "{\"a\":1}\n```", "{\"a\":1}\n```"},
		{"backticks inside bare text", "use ``` carefully", "use ``` carefully"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFence(tt.in); got != tt.want {
				t.Errorf("stripFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeReplyValid(t *testing.T) {
	reply, err := decodeReply(`{
		"speech": "Ji, ek samosa.",
		"items_added": [{"name": "Samosa", "quantity": 1, "unit_price": 15, "line_total": 15}],
		"order_status": "confirming",
		"total": 15
	}`)
	if err != nil {
		t.Fatal(err)
	}
	if reply.OrderStatus != types.StatusConfirming {
		t.Errorf("expected confirming, got %s", reply.OrderStatus)
	}
	if reply.ItemsRemoved == nil || reply.Suggestions == nil {
		t.Error("absent list fields must default to empty, not nil")
	}
}

func TestDecodeReplyInvalidStatus(t *testing.T) {
	if _, err := decodeReply(`{"speech": "ok", "order_status": "shipped"}`); err == nil {
		t.Fatal("expected error for out-of-enum status")
	}
}

func TestDecodeReplyInvalidJSON(t *testing.T) {
	if _, err := decodeReply("not json at all"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
