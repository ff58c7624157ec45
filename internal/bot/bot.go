package bot

import (
	"context"
	"fmt"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/valet-org/valet/internal/assistant"
	"github.com/valet-org/valet/internal/logger"
	"github.com/valet-org/valet/internal/stringutil"
)

const pollTimeoutSeconds = 30

// API is the subset of the Telegram client the bot relies on.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	StopReceivingUpdates()
}

var _ API = (*tgbotapi.BotAPI)(nil)

// Bot consumes Telegram updates over long polling and relays each message
// through the assistant gateway. Updates are handled sequentially,
// start-to-finish, with blocking calls.
type Bot struct {
	api     API
	gateway *assistant.Gateway
}

// New authenticates against the Telegram API with the given token.
func New(token string, gateway *assistant.Gateway) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot: failed to authenticate: %w", err)
	}
	return &Bot{api: api, gateway: gateway}, nil
}

// NewWithAPI creates a Bot over a pre-built API client. Used in tests.
func NewWithAPI(api API, gateway *assistant.Gateway) *Bot {
	return &Bot{api: api, gateway: gateway}
}

// Run consumes the update channel until the context is cancelled or
// StopReceivingUpdates closes the channel.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)
	logger.Info(ctx, "Telegram polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				logger.Info(ctx, "Telegram polling stopped")
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Signal stops the polling loop. Satisfies the command signal listener.
func (b *Bot) Signal(ctx context.Context, sig os.Signal) {
	logger.Info(ctx, "Stopping Telegram polling", "signal", sig.String())
	b.api.StopReceivingUpdates()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	ctx = logger.WithValues(ctx, "reqId", newRequestID(), "chat", msg.Chat.ID)
	logger.Debug(ctx, "Update received", "text", stringutil.TruncString(msg.Text, 64))

	switch msg.Command() {
	case "start", "help":
		b.reply(ctx, msg.Chat.ID, helpText(), true)
	case "status":
		b.handleStatus(ctx, msg.Chat.ID)
	case "models":
		b.handleModels(ctx, msg.Chat.ID)
	case "model":
		b.handleModel(ctx, msg.Chat.ID, strings.TrimSpace(msg.CommandArguments()))
	case "memory":
		b.handleMemory(ctx, msg.Chat.ID)
	case "forget":
		b.handleForget(ctx, msg.Chat.ID)
	case "":
		b.reply(ctx, msg.Chat.ID, b.gateway.Dispatch(ctx, msg.Text), false)
	default:
		logger.Debug(ctx, "Unknown command ignored", "command", msg.Command())
	}
}

func (b *Bot) handleStatus(ctx context.Context, chatID int64) {
	ready := b.gateway.CheckAvailability(ctx)
	if ready {
		if err := b.gateway.RefreshModels(ctx); err != nil {
			logger.Warn(ctx, "Could not refresh models", "err", err)
		}
	}

	mark := "✅"
	if !ready {
		mark = "❌"
	}
	active := b.gateway.ActiveModel()
	if active == "" {
		active = "None"
	}

	text := fmt.Sprintf(
		"🔎 **Status**\nOllama: %s\nModels: %d\nActive: %s\nMemories: %d",
		mark, len(b.gateway.Models()), active, b.gateway.MemoryCount(),
	)
	b.reply(ctx, chatID, text, true)
}

func (b *Bot) handleModels(ctx context.Context, chatID int64) {
	if err := b.gateway.RefreshModels(ctx); err != nil {
		logger.Warn(ctx, "Could not refresh models", "err", err)
		b.reply(ctx, chatID, "❌ Could not list models.", false)
		return
	}

	models := b.gateway.Models()
	if len(models) == 0 {
		b.reply(ctx, chatID, "No models installed.", false)
		return
	}

	inUse := b.gateway.ModelInUse()
	var sb strings.Builder
	sb.WriteString("🤖 Models:\n")
	for _, name := range models {
		sb.WriteString("• " + name)
		if name == inUse {
			sb.WriteString(" ← in use")
		}
		sb.WriteString("\n")
	}
	b.reply(ctx, chatID, strings.TrimRight(sb.String(), "\n"), false)
}

func (b *Bot) handleModel(ctx context.Context, chatID int64, name string) {
	if name == "" {
		b.reply(ctx, chatID, "Usage: /model <name>", false)
		return
	}
	if b.gateway.SetPreferredModel(name) {
		b.reply(ctx, chatID, fmt.Sprintf("✅ Model set to %s.", name), false)
		return
	}

	active := b.gateway.ActiveModel()
	if active == "" {
		active = "None"
	}
	b.reply(ctx, chatID, fmt.Sprintf("⚠ %s is not installed; falling back to %s.", name, active), false)
}

func (b *Bot) handleMemory(ctx context.Context, chatID int64) {
	if b.gateway.MemoryCount() == 0 {
		b.reply(ctx, chatID, "🧠 Nothing remembered yet.", false)
		return
	}
	b.reply(ctx, chatID, "🧠 Memories:\n\n"+b.gateway.Memories(), false)
}

func (b *Bot) handleForget(ctx context.Context, chatID int64) {
	if err := b.gateway.ClearMemory(ctx); err != nil {
		logger.Error(ctx, "Could not wipe memory", "err", err)
		b.reply(ctx, chatID, "❌ Could not wipe memory.", false)
		return
	}
	b.reply(ctx, chatID, "🧠 Memory wiped clean.", false)
}

// reply sends one text message. Send failures are logged, never fatal.
func (b *Bot) reply(ctx context.Context, chatID int64, text string, markdown bool) {
	m := tgbotapi.NewMessage(chatID, text)
	if markdown {
		m.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := b.api.Send(m); err != nil {
		logger.Error(ctx, "Failed to send reply", "err", err)
	}
}

func helpText() string {
	return "🤖 **Valet at your service**\n\n" +
		"Commands:\n" +
		"• `/status` – Check bot + model state\n" +
		"• `/models` – List models\n" +
		"• `/model <name>` – Change model\n" +
		"• `/memory` – View memories\n" +
		"• `/forget` – Erase all memories\n\n" +
		"Say *remember this: ...* to store facts."
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
