package tgbot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/EgorLis/Clashwatcher/internal/roster"
)

// Run крутит long polling и отвечает на команды. Блокируется до отмены ctx.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("telegram command loop started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("telegram command loop stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(upd)
		}
	}
}

func (b *Bot) handleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil || !upd.Message.IsCommand() {
		return
	}
	// отвечаем только в настроенном чате
	if upd.Message.Chat == nil || upd.Message.Chat.ID != b.chatID {
		return
	}

	cmd := upd.Message.Command()
	b.log.Info("command received", zap.String("command", cmd))

	switch cmd {
	case "start":
		_ = b.send("🤖 CoC Tracker Bot running. I will notify this chat about joins/leaves.")
	case "status":
		_ = b.send(b.statusText())
	case "members":
		_ = b.send(b.membersText())
	}
}

// statusText — сводка по состоянию монитора на момент вызова.
func (b *Bot) statusText() string {
	return fmt.Sprintf("Monitoring clan: #%s\nMembers stored: %d\nPoll interval: %ds",
		b.clanTag, b.state.Size(), int(b.state.Interval().Seconds()))
}

// membersText — список участников по имени, не больше MembersLimit строк.
func (b *Bot) membersText() string {
	snap := b.state.Snapshot()
	if len(snap) == 0 {
		return "No member data yet — try again in a minute."
	}
	members := roster.SortedByName(snap, MembersLimit)
	lines := make([]string, 0, len(members))
	for _, m := range members {
		lines = append(lines, fmt.Sprintf("%s — `%s`", m.Name, m.Tag))
	}
	return "Clan members:\n\n" + strings.Join(lines, "\n")
}
