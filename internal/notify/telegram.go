package notify

import (
	"context"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// TelegramNotifier posts staff notifications (lead-time exceptions, sweep
// alerts) to a configured chat. Delivery is best effort: a failed send is
// logged and dropped, never surfaced to the booking flow.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier returns nil (notifications disabled) when no token or
// chat is configured.
func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}

	b, err := bot.New(token)
	if err != nil {
		return nil, err
	}

	return &TelegramNotifier{
		bot:    b,
		chatID: chatID,
		logger: logger,
	}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, message string) {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   message,
	})
	if err != nil {
		n.logger.Warn("Failed to send staff notification", zap.Error(err))
	}
}
