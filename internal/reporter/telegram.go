// Pushes run status and fresh jobs to a Telegram chat, so a headless
// deployment still tells someone what it found.

package reporter

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kangichu/autojob/internal/models"
)

type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramReporter{bot: bot, chatID: chatID}, nil
}

func (t *TelegramReporter) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(t.chatID, "ℹ️ "+message)
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendJob(job models.JobRecord) error {
	text := fmt.Sprintf(
		"🔥 <b>%s</b>\n"+
			"🏢 %s\n"+
			"📍 %s\n"+
			"💰 %s\n"+
			"📧 %s\n"+
			"🔗 <a href=\"%s\">View Job</a>",
		job.Title,
		job.Company,
		job.Location,
		job.Salary,
		job.Email,
		job.URL,
	)
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendError(errReq error) error {
	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("⚠️ <b>AutoJob Error</b>:\n%v", errReq))
	msg.ParseMode = "HTML"
	_, err := t.bot.Send(msg)
	return err
}
