package gateway

import (
	"context"
	"log/slog"

	"golang.org/x/sync/semaphore"

	"github.com/user/orderdesk/internal/interpreter"
	"github.com/user/orderdesk/internal/types"
	"github.com/user/orderdesk/internal/usage"
)

// Gateway is the thin per-turn orchestrator: it bumps the session counter,
// caps how many model calls run at once, and delegates to the interpreter.
// It holds no state of its own beyond the concurrency semaphore; turns from
// different sessions run fully in parallel up to that cap.
type Gateway struct {
	interp *interpreter.Interpreter
	meter  *usage.Meter
	sem    *semaphore.Weighted
}

// New creates a Gateway allowing up to maxConcurrent simultaneous turns.
func New(interp *interpreter.Interpreter, meter *usage.Meter, maxConcurrent int64) *Gateway {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Gateway{
		interp: interp,
		meter:  meter,
		sem:    semaphore.NewWeighted(maxConcurrent),
	}
}

// ProcessTurn handles one inbound conversation turn and always resolves to
// a well-formed reply, even when the caller's context is already cancelled.
func (g *Gateway) ProcessTurn(ctx context.Context, turn types.ConversationTurn) types.AssistantReply {
	g.meter.RecordSession()

	if err := g.sem.Acquire(ctx, 1); err != nil {
		slog.Warn("turn abandoned before processing",
			"session_id", turn.SessionID, "error", err)
		return interpreter.AbortedReply()
	}
	defer g.sem.Release(1)

	return g.interp.Interpret(ctx, turn.SessionID, turn.Message, turn.CurrentCart)
}
