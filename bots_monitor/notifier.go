package bots_monitor

// Telegram delivery channel for boost alerts.

import (
	"context"
	"fmt"

	"github.com/algoclient/dexscreener-boost-scrapper/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier delivers a rendered alert to the chat channel.
type Notifier interface {
	Send(ctx context.Context, text string, enableLinkPreview bool) error
}

// TelegramNotifier sends Markdown messages to a single chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier authorizes the bot and resolves the target chat.
func NewTelegramNotifier(token, chatID string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}

	log.LogSuccess("Telegram bot authorized", zap.String("username", bot.Self.UserName))

	return &TelegramNotifier{
		bot:    bot,
		chatID: parseChatID(chatID),
	}, nil
}

// Send delivers one message with Markdown formatting. The Telegram API call
// itself is not cancellable, but a cancelled ctx short-circuits the send.
func (n *TelegramNotifier) Send(ctx context.Context, text string, enableLinkPreview bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = !enableLinkPreview

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// parseChatID parses a chat ID from its string form
// (group chat IDs in Telegram are negative, e.g. -1003190218710).
func parseChatID(chatIDStr string) int64 {
	var chatID int64
	fmt.Sscanf(chatIDStr, "%d", &chatID)
	return chatID
}
