// Package notify tells users about chat messages that arrived while they were
// not connected to the room.
package notify

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"aurachat/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const previewLen = 80

// Notifier is implemented by every offline notification channel.
type Notifier interface {
	MessageWhileAway(ctx context.Context, msg *models.Message) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) MessageWhileAway(context.Context, *models.Message) error { return nil }

// UserFinder loads users by id.
type UserFinder interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// Sender is the subset of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends a short preview to the receiver's linked Telegram chat.
type Telegram struct {
	bot   Sender
	users UserFinder
	log   logrus.FieldLogger
}

// NewTelegram connects to the Bot API with token.
func NewTelegram(token string, users UserFinder, log logrus.FieldLogger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	log.WithField("bot", bot.Self.UserName).Info("telegram notifier authorized")
	return NewTelegramWithSender(bot, users, log), nil
}

func NewTelegramWithSender(bot Sender, users UserFinder, log logrus.FieldLogger) *Telegram {
	return &Telegram{bot: bot, users: users, log: log}
}

// MessageWhileAway notifies msg's receiver. Receivers without a linked chat are skipped.
func (t *Telegram) MessageWhileAway(ctx context.Context, msg *models.Message) error {
	receiver, err := t.users.GetUserByID(ctx, msg.ReceiverID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if receiver.TelegramChatID == nil {
		return nil
	}

	from := msg.SenderID
	if sender, err := t.users.GetUserByID(ctx, msg.SenderID); err == nil {
		from = sender.Username
	}

	text := fmt.Sprintf("New message from %s: %s", from, preview(msg.Body))
	if _, err := t.bot.Send(tgbotapi.NewMessage(*receiver.TelegramChatID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	t.log.WithFields(logrus.Fields{"receiver_id": msg.ReceiverID, "message_id": msg.ID}).Debug("offline notification sent")
	return nil
}

func preview(body string) string {
	if utf8.RuneCountInString(body) <= previewLen {
		return body
	}
	runes := []rune(body)
	return string(runes[:previewLen]) + "…"
}
