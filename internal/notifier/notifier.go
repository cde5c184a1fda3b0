package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habit-reminder/internal/logger"
)

// Notifier доставляет текстовое сообщение в чат пользователя
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Telegram отправляет сообщения через Telegram Bot API
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger logger.Logger
}

// NewTelegram создает клиента Bot API. Пустой endpoint означает api.telegram.org
func NewTelegram(token, endpoint string, log logger.Logger) (*Telegram, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log.Infof("Authorized on account %s", api.Self.UserName)

	return &Telegram{
		api:    api,
		logger: log,
	}, nil
}

func (t *Telegram) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	t.logger.Debugf("Sending reminder to chat %d", chatID)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	t.logger.Debugf("Successfully sent reminder to chat %d", chatID)

	return nil
}
