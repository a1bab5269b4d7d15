package notify

import (
	"KolDesk/internal/config"
	"fmt"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

// Telegram forwards alert texts to the admin chat. It satisfies the
// logger's Notifier contract.
type Telegram struct {
	bot     *gotgbot.Bot
	adminId int64
	prefix  string
}

func NewTelegram(conf *config.Config) (*Telegram, error) {
	if !conf.Telegram.Enabled || conf.Telegram.ApiKey == "" {
		return nil, nil
	}

	bot, err := gotgbot.NewBot(conf.Telegram.ApiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}

	return &Telegram{
		bot:     bot,
		adminId: conf.Telegram.AdminId,
		prefix:  conf.Telegram.BotName,
	}, nil
}

func (t *Telegram) Notify(text string) error {
	if t == nil || t.adminId == 0 {
		return nil
	}
	_, err := t.bot.SendMessage(t.adminId, t.prefix+"\n"+text, nil)
	return err
}
