// internal/interpreter/interpreter.go
package interpreter

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/orderdesk/internal/menu"
	"github.com/user/orderdesk/internal/ratelimit"
	"github.com/user/orderdesk/internal/tokens"
	"github.com/user/orderdesk/internal/types"
	"github.com/user/orderdesk/internal/usage"
	"github.com/user/orderdesk/pkg/llm"
)

// ModelDependency is the rate limiter key for the language model backend.
const ModelDependency = "model"

// Fixed fallback speeches. Each failure class gets distinct text so the
// failure mode is recognizable from transcripts alone.
const (
	busySpeech   = "Thoda ruko, bahut busy hai abhi. Ek minute mein baat karte hain."
	repeatSpeech = "Ji, aapne kya kaha? Zara phir se boliye."
	errorSpeech  = "Maaf kijiye, kuch gadbad ho gayi. Phir se try kijiye."
)

// Interpreter turns a customer utterance into a validated AssistantReply.
// Every failure path resolves to a well-formed fallback reply; Interpret
// never returns an error and makes at most one model call per invocation.
type Interpreter struct {
	provider  llm.Provider
	limiter   *ratelimit.Limiter
	meter     *usage.Meter
	estimator *tokens.Estimator
	menu      *menu.Provider
	shopName  string
}

// New creates an Interpreter wired to its collaborators.
func New(provider llm.Provider, limiter *ratelimit.Limiter, meter *usage.Meter, estimator *tokens.Estimator, catalog *menu.Provider, shopName string) *Interpreter {
	return &Interpreter{
		provider:  provider,
		limiter:   limiter,
		meter:     meter,
		estimator: estimator,
		menu:      catalog,
		shopName:  shopName,
	}
}

// Interpret processes one conversation turn. The caller-supplied cart is
// never modified here; replies carry deltas for the caller to apply.
func (it *Interpreter) Interpret(ctx context.Context, sessionID, message string, currentCart []types.CartLine) types.AssistantReply {
	turnID := types.NewTurnID()

	if !it.limiter.Allow(ModelDependency) {
		slog.Info("model call rejected by rate limiter",
			"turn_id", string(turnID), "session_id", sessionID)
		return fallback(busySpeech)
	}
	it.limiter.Record(ModelDependency)

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt(it.shopName, it.menu.Text())},
		{Role: "user", Content: userPrompt(message, currentCart)},
	}

	start := time.Now()
	resp, err := it.provider.Complete(ctx, messages)
	if err != nil {
		slog.Error("model call failed",
			"turn_id", string(turnID), "session_id", sessionID, "error", err)
		return fallback(errorSpeech)
	}
	it.meter.RecordExternalCall(time.Since(start).Seconds())
	it.recordTokens(message, resp)

	reply, err := decodeReply(resp.Content)
	if err != nil {
		slog.Warn("model reply failed validation",
			"turn_id", string(turnID), "session_id", sessionID, "error", err)
		return fallback(repeatSpeech)
	}
	return reply
}

// recordTokens prefers the provider's own usage numbers and falls back to a
// local estimate when the API omits them.
func (it *Interpreter) recordTokens(message string, resp *llm.Response) {
	in, out := resp.Usage.InputTokens, resp.Usage.OutputTokens
	if in == 0 && out == 0 {
		in = it.estimator.Count(message)
		out = it.estimator.Count(resp.Content)
	}
	it.meter.RecordModelUsage(in, out)
}

// AbortedReply is the fallback for turns that never reached the model, for
// example when the caller abandoned the request before processing began.
func AbortedReply() types.AssistantReply {
	return fallback(errorSpeech)
}

// fallback builds a well-formed reply carrying only the given speech.
// Deltas are empty and the status stays at taking_order so the caller's
// cart is left untouched.
func fallback(speech string) types.AssistantReply {
	return types.AssistantReply{
		Speech:       speech,
		ItemsAdded:   []types.CartLine{},
		ItemsRemoved: []types.CartLine{},
		Suggestions:  []string{},
		OrderStatus:  types.StatusTakingOrder,
		Total:        0,
	}
}
