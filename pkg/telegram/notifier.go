package telegram

import (
	"context"
	"strconv"

	"stock-strategy/config"
	"stock-strategy/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Notifier pushes alert messages to a single configured chat, paced by a
// global rate limiter so bursts of signals never trip the Bot API limits.
type Notifier struct {
	cfg           *config.TelegramConfig
	log           *logger.Logger
	bot           *telebot.Bot
	globalLimiter *rate.Limiter
}

func NewNotifier(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *Notifier {
	return &Notifier{
		cfg:           cfg,
		log:           log,
		bot:           bot,
		globalLimiter: rate.NewLimiter(rate.Limit(cfg.MaxRequestPerSecond), cfg.MaxRequestPerSecond),
	}
}

// Enabled reports whether a bot and destination chat are configured.
func (n *Notifier) Enabled() bool {
	return n.bot != nil && n.cfg.ChatID != ""
}

// SendMessage delivers a Markdown message to the configured chat.
func (n *Notifier) SendMessage(ctx context.Context, message string) error {
	if !n.Enabled() {
		return nil
	}

	if err := n.globalLimiter.Wait(ctx); err != nil {
		return err
	}

	chatID, err := strconv.ParseInt(n.cfg.ChatID, 10, 64)
	if err != nil {
		return err
	}

	_, err = n.bot.Send(&telebot.Chat{ID: chatID}, message, telebot.ModeMarkdown)
	if err != nil {
		n.log.ErrorContext(ctx, "Failed to send telegram message", logger.ErrorField(err))
		return err
	}
	return nil
}
