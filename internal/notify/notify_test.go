package notify_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"aurachat/backend/internal/logger"
	"aurachat/backend/internal/models"
	"aurachat/backend/internal/notify"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestTelegram_MessageWhileAway(t *testing.T) {
	chatID := int64(4242)
	users := new(mockUsers)
	users.On("GetUserByID", "bob").Return(&models.User{ID: "bob", Username: "bob", TelegramChatID: &chatID}, nil)
	users.On("GetUserByID", "alice").Return(&models.User{ID: "alice", Username: "alice_w"}, nil)

	sender := new(mockSender)
	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == chatID && msg.Text == "New message from alice_w: "+strings.Repeat("x", 80)+"…"
	})).Return(nil)

	n := notify.NewTelegramWithSender(sender, users, logger.Discard())
	err := n.MessageWhileAway(context.Background(), &models.Message{SenderID: "alice", ReceiverID: "bob", Body: strings.Repeat("x", 100)})

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestTelegram_SkipsUnlinkedReceivers(t *testing.T) {
	users := new(mockUsers)
	users.On("GetUserByID", "bob").Return(&models.User{ID: "bob"}, nil)
	users.On("GetUserByID", "ghost").Return(nil, gorm.ErrRecordNotFound)
	sender := new(mockSender)

	n := notify.NewTelegramWithSender(sender, users, logger.Discard())

	assert.NoError(t, n.MessageWhileAway(context.Background(), &models.Message{SenderID: "a", ReceiverID: "bob", Body: "hi"}))
	assert.NoError(t, n.MessageWhileAway(context.Background(), &models.Message{SenderID: "a", ReceiverID: "ghost", Body: "hi"}))
	sender.AssertNotCalled(t, "Send", mock.Anything)
}

func TestTelegram_SendFailure(t *testing.T) {
	chatID := int64(1)
	users := new(mockUsers)
	users.On("GetUserByID", "bob").Return(&models.User{ID: "bob", TelegramChatID: &chatID}, nil)
	users.On("GetUserByID", "a").Return(nil, errors.New("db down"))
	sender := new(mockSender)
	sender.On("Send", mock.Anything).Return(errors.New("429 too many requests"))

	n := notify.NewTelegramWithSender(sender, users, logger.Discard())
	err := n.MessageWhileAway(context.Background(), &models.Message{SenderID: "a", ReceiverID: "bob", Body: "hi"})

	assert.ErrorContains(t, err, "telegram send")
}
