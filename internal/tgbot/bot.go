package tgbot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/EgorLis/Clashwatcher/internal/monitor"
	"github.com/EgorLis/Clashwatcher/internal/roster"
)

// MembersLimit — максимум строк в ответе /members, чтобы не упереться
// в лимит длины телеграм-сообщения.
const MembersLimit = 200

// BotAPI — узкий срез *tgbotapi.BotAPI: ровно то, что нужно боту.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// StateReader — read-only доступ к состоянию монитора для команд.
type StateReader interface {
	Snapshot() roster.Roster
	Size() int
	Interval() time.Duration
}

// Bot — телеграм-бот: уведомления + команды в одном чате.
type Bot struct {
	api     BotAPI
	chatID  int64
	clanTag string // без '#', только для текста сообщений
	state   StateReader
	log     *zap.Logger
}

func New(api BotAPI, chatID int64, clanTag string, log *zap.Logger) *Bot {
	return &Bot{
		api:     api,
		chatID:  chatID,
		clanTag: clanTag,
		log:     log,
	}
}

// SetState подключает источник состояния для /status и /members.
func (b *Bot) SetState(state StateReader) {
	b.state = state
}

// Notify реализует monitor.Notifier: одно сообщение на одно событие.
func (b *Bot) Notify(ev monitor.Event) error {
	var text string
	switch ev.Kind {
	case monitor.Join:
		text = fmt.Sprintf("🟢 *JOINED:* %s (`%s`)\nClan: #%s", ev.Name, ev.Tag, b.clanTag)
	case monitor.Leave:
		text = fmt.Sprintf("🔴 *LEFT:* %s (`%s`)\nClan: #%s", ev.Name, ev.Tag, b.clanTag)
	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
	return b.send(text)
}

func (b *Bot) send(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("telegram send failed", zap.Error(err))
		return err
	}
	return nil
}
