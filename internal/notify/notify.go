package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/slack-go/slack"

	"github.com/harunnryd/tsukai/internal/config"
)

// Notifier delivers the outcome of a scheduled run to one destination.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
	Name() string
}

// Console writes notifications to stdout; the default when nothing else
// is configured.
type Console struct{}

func (Console) Name() string { return "console" }

func (Console) Notify(_ context.Context, title, body string) error {
	_, err := fmt.Fprintf(os.Stdout, "[%s]\n%s\n", title, body)
	return err
}

// Slack posts notifications to a fixed channel. Send-only: no event
// subscription, no socket mode.
type Slack struct {
	client  *slack.Client
	channel string
}

func NewSlack(token, channel string) (*Slack, error) {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(channel) == "" {
		return nil, fmt.Errorf("slack notifier requires token and channel")
	}
	return &Slack{client: slack.New(token), channel: channel}, nil
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Notify(ctx context.Context, title, body string) error {
	text := fmt.Sprintf("*%s*\n%s", title, body)
	_, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	return nil
}

// Telegram sends notifications to a fixed chat. Send-only: no update
// polling.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if strings.TrimSpace(token) == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram notifier requires token and chat_id")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Notify(_ context.Context, title, body string) error {
	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("%s\n\n%s", title, body))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Build resolves a named notifier from config. Unknown or unconfigured
// names fall back to console with a warning.
func Build(name string, cfg config.NotifyConfig) Notifier {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "console":
		return Console{}
	case "slack":
		n, err := NewSlack(cfg.Slack.Token, cfg.Slack.Channel)
		if err != nil {
			slog.Warn("Slack notifier unavailable, using console", "error", err)
			return Console{}
		}
		return n
	case "telegram":
		n, err := NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			slog.Warn("Telegram notifier unavailable, using console", "error", err)
			return Console{}
		}
		return n
	default:
		slog.Warn("Unknown notifier, using console", "name", name)
		return Console{}
	}
}
