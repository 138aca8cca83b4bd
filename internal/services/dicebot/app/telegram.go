package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/louisbranch/dicebot/internal/platform/timeouts"
)

// TelegramConfig configures the Telegram Bot API transport.
type TelegramConfig struct {
	Token string
	// Endpoint overrides tgbotapi.APIEndpoint; it takes the token and method.
	Endpoint string
	// Client overrides the default HTTP client.
	Client *http.Client
}

// Telegram is a long-polling Transport backed by the Telegram Bot API.
type Telegram struct {
	bot      *tgbotapi.BotAPI
	stopOnce sync.Once
}

// NewTelegram authenticates token against the Bot API.
func NewTelegram(cfg TelegramConfig) (*Telegram, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("telegram token is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: timeouts.UpdatePoll + timeouts.Send}
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

// Username returns the authenticated bot username.
func (t *Telegram) Username() string {
	return t.bot.Self.UserName
}

// Updates implements Transport.
func (t *Telegram) Updates(ctx context.Context) <-chan Message {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(timeouts.UpdatePoll.Seconds())
	updates := t.bot.GetUpdatesChan(cfg)

	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				msg, ok := messageFromUpdate(update)
				if !ok {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					t.Stop()
					return
				}
			}
		}
	}()
	return out
}

// Send implements Transport.
func (t *Telegram) Send(_ context.Context, reply Reply) error {
	msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyToMessageID = reply.ReplyTo
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// SetCommands implements Transport.
func (t *Telegram) SetCommands(_ context.Context, commands []Command) error {
	botCommands := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, command := range commands {
		botCommands = append(botCommands, tgbotapi.BotCommand{
			Command:     command.Name,
			Description: command.Description,
		})
	}
	if _, err := t.bot.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
		return fmt.Errorf("set telegram commands: %w", err)
	}
	return nil
}

// Stop implements Transport. Calling it more than once is safe.
func (t *Telegram) Stop() {
	t.stopOnce.Do(t.bot.StopReceivingUpdates)
}

func messageFromUpdate(update tgbotapi.Update) (Message, bool) {
	m := update.Message
	if m == nil || m.Chat == nil {
		return Message{}, false
	}
	msg := Message{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Private:   m.Chat.IsPrivate(),
		Text:      m.Text,
	}
	if m.IsCommand() {
		msg.Command = strings.ToLower(m.Command())
		msg.Args = m.CommandArguments()
	}
	return msg, true
}
