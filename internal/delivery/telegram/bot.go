package telegram

import (
	"context"
	"errors"
	"fmt"

	"healthmon-backend/config"
	"healthmon-backend/internal/usecase"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

var ErrNotConfigured = errors.New("telegram bot token is not configured")

const pollTimeoutSeconds = 60

// Bot long-polls Telegram and forwards updates to the CommandHandler.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *CommandHandler
	log     *logrus.Logger
}

func NewBot(cfg config.TelegramConfig, handler *CommandHandler, log *logrus.Logger) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, ErrNotConfigured
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	api.Debug = cfg.Debug

	log.Infof("Telegram bot authorized as @%s", api.Self.UserName)

	return &Bot{api: api, handler: handler, log: log}, nil
}

// Run processes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("Telegram bot polling for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("Telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var reply *usecase.Reply
	if msg.IsCommand() {
		b.log.Infof("Command /%s from chat %d", msg.Command(), chatID)
		reply = b.handler.HandleCommand(ctx, chatID, msg.Command(), msg.CommandArguments())
	} else if msg.Text != "" {
		reply = b.handler.HandleText(ctx, chatID, msg.Text)
	}

	b.send(chatID, reply)
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.Warnf("Failed to answer callback: %+v", err)
	}
	if query.Message == nil {
		return
	}

	chatID := query.Message.Chat.ID
	reply := b.handler.HandleCallback(ctx, chatID, query.Data)
	if reply == nil {
		return
	}

	// The pressed keyboard is spent once the conversation moves on.
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, query.Message.MessageID)); err != nil {
		b.log.Warnf("Failed to delete keyboard message: %+v", err)
	}

	b.send(chatID, reply)
}

func (b *Bot) send(chatID int64, reply *usecase.Reply) {
	if reply == nil || reply.Text == "" {
		return
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Options) > 0 {
		msg.ReplyMarkup = keyboard(reply.Options)
	}

	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorf("Failed to send message to chat %d: %+v", chatID, err)
	}
}

// keyboard lays options out one button per row.
func keyboard(options []usecase.Option) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, o := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(o.Label, o.Data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
