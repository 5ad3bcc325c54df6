package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/ottaga/pkg/domain"
	"github.com/dskvich/ottaga/pkg/logger"
	"github.com/dskvich/ottaga/pkg/render"
)

const deliveryFailedMessage = "Sorry, the reply could not be delivered. Please try again."

type client struct {
	bot       *tgbotapi.BotAPI
	updatesCh tgbotapi.UpdatesChannel
}

func NewClient(token string) (*client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot api instance: %w", err)
	}

	slog.Info("authorized on telegram", "account", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	return &client{
		bot:       bot,
		updatesCh: bot.GetUpdatesChan(u),
	}, nil
}

func (c *client) GetUpdates() tgbotapi.UpdatesChannel {
	return c.updatesCh
}

func (c *client) StopUpdates() {
	c.bot.StopReceivingUpdates()
}

// SendResponse delivers a reply as HTML. When Telegram rejects the markup the
// text is resent as is.
func (c *client) SendResponse(ctx context.Context, response *domain.Response) {
	text := response.Text
	if response.Err != nil {
		slog.ErrorContext(ctx, "sending error response", "chatID", response.ChatID, logger.Err(response.Err))
		text = "Sorry, something went wrong. Please try again."
	}

	msg := tgbotapi.NewMessage(response.ChatID, render.ToHTML(text))
	msg.ParseMode = tgbotapi.ModeHTML

	_, err := c.bot.Send(msg)
	if err == nil {
		return
	}
	slog.WarnContext(ctx, "sending html message, retrying as plain text", logger.Err(err))

	if _, err := c.bot.Send(tgbotapi.NewMessage(response.ChatID, text)); err != nil {
		slog.ErrorContext(ctx, "sending message", "chatID", response.ChatID, logger.Err(err))
		if _, err := c.bot.Send(tgbotapi.NewMessage(response.ChatID, deliveryFailedMessage)); err != nil {
			slog.ErrorContext(ctx, "sending failure notification", logger.Err(err))
		}
	}
}

func (c *client) StartTyping(ctx context.Context, chatID int64) {
	if _, err := c.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		slog.WarnContext(ctx, "sending typing action", logger.Err(err))
	}
}
