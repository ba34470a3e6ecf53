package telegram

import (
	"context"

	"gopkg.in/telebot.v3"
)

// Client sends messages to Telegram chats. Application code depends on this
// interface rather than on *telebot.Bot.
type Client interface {
	SendMessage(ctx context.Context, chatID int64, text string, options *telebot.SendOptions) error
}
