package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/ports"
)

// Notifier mirrors progress messages into a Telegram chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier authenticates the bot against apiEndpoint (tgbotapi.APIEndpoint when empty).
func NewNotifier(botToken, chatID, apiEndpoint string) (*Notifier, error) {
	if botToken == "" || chatID == "" {
		return nil, fmt.Errorf("telegram notifier misconfigured")
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("telegram chat id %q: %w", chatID, err)
	}
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(botToken, apiEndpoint, &http.Client{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}

	return &Notifier{bot: bot, chatID: id}, nil
}

// Post sends a message, or edits an earlier one when ReplaceID names it.
// Telegram has no expiring messages, so ExpiresIn is ignored.
func (n *Notifier) Post(ctx context.Context, msg domain.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var chattable tgbotapi.Chattable = tgbotapi.NewMessage(n.chatID, msg.Body)
	if msg.ReplaceID != "" {
		messageID, err := strconv.Atoi(msg.ReplaceID)
		if err != nil {
			return "", fmt.Errorf("telegram message id %q: %w", msg.ReplaceID, err)
		}
		chattable = tgbotapi.NewEditMessageText(n.chatID, messageID, msg.Body)
	}

	sent, err := n.bot.Send(chattable)
	if err != nil {
		return "", fmt.Errorf("telegram send: %w", err)
	}

	if msg.ReplaceID != "" {
		return msg.ReplaceID, nil
	}
	return strconv.Itoa(sent.MessageID), nil
}
