// internal/telegram/adapter.go
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/orderdesk/internal/menu"
	"github.com/user/orderdesk/internal/orderstore"
	"github.com/user/orderdesk/internal/types"
)

// TurnProcessor handles one inbound conversation turn.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, turn types.ConversationTurn) types.AssistantReply
}

// Adapter bridges Telegram chats to the order-taking gateway. Each chat is
// one session; the adapter keeps the chat's cart, applies reply deltas, and
// persists the order when the conversation reaches the complete status.
type Adapter struct {
	bot     *tgbotapi.BotAPI
	gateway TurnProcessor
	store   *orderstore.Store
	menu    *menu.Provider
	carts   *cartState
}

// New creates a Telegram adapter.
func New(token string, gw TurnProcessor, store *orderstore.Store, catalog *menu.Provider) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{
		bot:     bot,
		gateway: gw,
		store:   store,
		menu:    catalog,
		carts:   newCartState(),
	}, nil
}

// Start begins long-polling for Telegram updates until ctx is cancelled.
func (a *Adapter) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			a.handleMessage(ctx, update.Message)
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return
		}
	}
}

func (a *Adapter) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		a.handleCommand(msg)
		return
	}

	chatID := msg.Chat.ID
	cart := a.carts.get(chatID)

	reply := a.gateway.ProcessTurn(ctx, types.ConversationTurn{
		SessionID:   sessionID(chatID),
		Message:     msg.Text,
		CurrentCart: cart,
	})

	cart = applyReply(cart, reply)
	a.carts.set(chatID, cart)

	a.send(chatID, reply.Speech)
	if len(reply.Suggestions) > 0 {
		a.send(chatID, "Aur try kijiye: "+strings.Join(reply.Suggestions, ", "))
	}

	if reply.OrderStatus == types.StatusComplete {
		a.completeOrder(chatID, cart)
	}
}

// completeOrder persists the finished cart and resets the chat's state.
func (a *Adapter) completeOrder(chatID int64, cart []types.CartLine) {
	if len(cart) == 0 {
		return
	}
	order := types.Order{
		SessionID: sessionID(chatID),
		Items:     cart,
		Total:     cartTotal(cart),
		Timestamp: time.Now().Format(time.RFC3339),
		Status:    "pending",
	}
	id, err := a.store.Save(order)
	if err != nil {
		slog.Error("telegram order save failed", "chat_id", chatID, "error", err)
		a.send(chatID, "Order save nahi ho paya, phir se try kijiye.")
		return
	}
	a.carts.clear(chatID)
	slog.Info("telegram order saved", "chat_id", chatID, "record_id", id, "total", order.Total)
	a.send(chatID, fmt.Sprintf("Shukriya! Order confirm ho gaya. Total: %.0f rupaye.", order.Total))
}

func (a *Adapter) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		a.send(chatID, "Namaste! Main KAI hoon. Kya loge aap? /menu se menu dekh sakte hain.")
	case "menu":
		a.send(chatID, a.menu.Text())
	case "cancel":
		a.carts.clear(chatID)
		a.send(chatID, "Theek hai, order cancel kar diya. Naya order shuru kijiye.")
	default:
		a.send(chatID, "Ye command nahi samjha. Available: /start, /menu, /cancel")
	}
}

const maxTelegramMessage = 4096

func (a *Adapter) send(chatID int64, text string) {
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		if _, err := a.bot.Send(msg); err != nil {
			slog.Error("telegram send failed", "chat_id", chatID, "error", err)
		}
	}
}

// splitMessage breaks text into chunks under Telegram's message size limit.
func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > maxTelegramMessage {
		parts = append(parts, text[:maxTelegramMessage])
		text = text[maxTelegramMessage:]
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

func sessionID(chatID int64) string {
	return "tg-" + strconv.FormatInt(chatID, 10)
}
