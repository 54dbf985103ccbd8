package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"blog_publisher/internal/config"
	"blog_publisher/internal/domain"
)

const (
	greeting = "Welcome! Use /latest to get the latest article."

	helpText = "Available commands:\n" +
		"/start - Welcome message\n" +
		"/help - List of commands\n" +
		"/latest - Get the latest article\n" +
		"/subscribe - Subscribe to blog updates"

	errorReply = "An error occurred. Please try again later."
)

// Bot serves the blog's Telegram command surface. It is constructed
// explicitly and owns no global state.
type Bot struct {
	api    *tgbotapi.BotAPI
	client *apiClient
	logger *slog.Logger
}

func New(cfg config.TelegramConfig, subscription config.SubscriptionConfig, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:    api,
		client: newAPIClient(cfg.APIBaseURL, subscription),
		logger: logger.With("component", "bot"),
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("bot authorized", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return errors.New("updates channel closed")
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	command := message.Command()

	b.logger.Debug("command received", "chat_id", chatID, "command", command)

	switch command {
	case "start":
		b.reply(chatID, greeting)
	case "help":
		b.reply(chatID, helpText)
	case "latest":
		b.handleLatest(ctx, chatID)
	case "subscribe":
		b.handleSubscribe(ctx, chatID)
	default:
		b.reply(chatID, "Unknown command. Use /help to see what I can do.")
	}
}

func (b *Bot) handleLatest(ctx context.Context, chatID int64) {
	article, err := b.client.LatestArticle(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		b.reply(chatID, "Couldn't get a fresh article.")
		return
	}
	if err != nil {
		b.logger.Error("failed to fetch latest article", "error", err)
		b.reply(chatID, errorReply)
		return
	}

	b.reply(chatID, fmt.Sprintf("Recent article:\n\n%s\n\n%s", article.Title, article.Content))
}

func (b *Bot) handleSubscribe(ctx context.Context, chatID int64) {
	created, err := b.client.Subscribe(ctx, chatID)
	if err != nil {
		b.logger.Error("failed to subscribe", "chat_id", chatID, "error", err)
		b.reply(chatID, errorReply)
		return
	}

	if created {
		b.reply(chatID, "You have successfully subscribed to the blog updates.")
		return
	}
	b.reply(chatID, "You have already subscribed to the blog updates.")
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("failed to send reply", "chat_id", chatID, "error", err)
	}
}
