package notifier

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramMessenger implements service.Messenger over the Telegram Bot API.
type TelegramMessenger struct {
	api *tgbotapi.BotAPI
}

func NewTelegramMessenger(token string) (*TelegramMessenger, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramMessenger{api: api}, nil
}

func (m *TelegramMessenger) Send(chatID int64, text string) error {
	_, err := m.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
