package tgbot

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EgorLis/Clashwatcher/internal/monitor"
	"github.com/EgorLis/Clashwatcher/internal/roster"
)

// fakeAPI записывает отправленные сообщения; может отдавать ошибку.
type fakeAPI struct {
	sent    []tgbotapi.MessageConfig
	sendErr error
	stopped bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable type")
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (f *fakeAPI) StopReceivingUpdates() { f.stopped = true }

type fakeState struct {
	snap     roster.Roster
	interval time.Duration
}

func (s *fakeState) Snapshot() roster.Roster { return roster.Clone(s.snap) }
func (s *fakeState) Size() int               { return len(s.snap) }
func (s *fakeState) Interval() time.Duration { return s.interval }

func newTestBot(api *fakeAPI, state *fakeState) *Bot {
	b := New(api, 42, "CLAN", zap.NewNop())
	if state != nil {
		b.SetState(state)
	}
	return b
}

func TestNotifyJoin(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, nil)

	err := b.Notify(monitor.Event{Kind: monitor.Join, Tag: "#C", Name: "Cara"})
	require.NoError(t, err)
	require.Len(t, api.sent, 1)

	msg := api.sent[0]
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.Equal(t, "🟢 *JOINED:* Cara (`#C`)\nClan: #CLAN", msg.Text)
}

func TestNotifyLeave(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, nil)

	err := b.Notify(monitor.Event{Kind: monitor.Leave, Tag: "#A", Name: "Alice"})
	require.NoError(t, err)
	require.Len(t, api.sent, 1)
	assert.Equal(t, "🔴 *LEFT:* Alice (`#A`)\nClan: #CLAN", api.sent[0].Text)
}

func TestNotifyDispatchError(t *testing.T) {
	api := &fakeAPI{sendErr: errors.New("telegram down")}
	b := newTestBot(api, nil)

	err := b.Notify(monitor.Event{Kind: monitor.Join, Tag: "#C", Name: "Cara"})
	assert.Error(t, err)
	// попытка отправки всё же была
	assert.Len(t, api.sent, 1)
}

func TestStatusText(t *testing.T) {
	state := &fakeState{
		snap:     roster.Roster{"#A": "Alice", "#B": "Bob"},
		interval: 60 * time.Second,
	}
	b := newTestBot(&fakeAPI{}, state)

	got := b.statusText()
	assert.Equal(t, "Monitoring clan: #CLAN\nMembers stored: 2\nPoll interval: 60s", got)
}

func TestMembersTextEmpty(t *testing.T) {
	b := newTestBot(&fakeAPI{}, &fakeState{snap: roster.Roster{}})
	assert.Equal(t, "No member data yet — try again in a minute.", b.membersText())
}

func TestMembersTextSorted(t *testing.T) {
	state := &fakeState{snap: roster.Roster{
		"#3": "Cara",
		"#1": "Alice",
		"#2": "Bob",
	}}
	b := newTestBot(&fakeAPI{}, state)

	got := b.membersText()
	want := "Clan members:\n\n" +
		"Alice — `#1`\n" +
		"Bob — `#2`\n" +
		"Cara — `#3`"
	assert.Equal(t, want, got)
}

func TestMembersTextTruncates(t *testing.T) {
	snap := roster.Roster{}
	for i := 0; i < MembersLimit+50; i++ {
		snap[fmt.Sprintf("#%04d", i)] = fmt.Sprintf("player%04d", i)
	}
	b := newTestBot(&fakeAPI{}, &fakeState{snap: snap})

	got := b.membersText()
	lines := strings.Split(strings.TrimPrefix(got, "Clan members:\n\n"), "\n")
	assert.Len(t, lines, MembersLimit)
}

func TestHandleUpdateIgnoresForeignChat(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, &fakeState{})

	b.handleUpdate(commandUpdate(99, "/status"))
	assert.Empty(t, api.sent, "commands from other chats must be ignored")
}

func TestHandleUpdateIgnoresPlainText(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, &fakeState{})

	upd := commandUpdate(42, "hello there")
	upd.Message.Entities = nil
	b.handleUpdate(upd)
	assert.Empty(t, api.sent)
}

func TestHandleUpdateCommands(t *testing.T) {
	state := &fakeState{
		snap:     roster.Roster{"#A": "Alice"},
		interval: 30 * time.Second,
	}

	tests := []struct {
		command string
		want    string
	}{
		{"/start", "🤖 CoC Tracker Bot running. I will notify this chat about joins/leaves."},
		{"/status", "Monitoring clan: #CLAN\nMembers stored: 1\nPoll interval: 30s"},
		{"/members", "Clan members:\n\nAlice — `#A`"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			api := &fakeAPI{}
			b := newTestBot(api, state)

			b.handleUpdate(commandUpdate(42, tt.command))
			require.Len(t, api.sent, 1)
			assert.Equal(t, tt.want, api.sent[0].Text)
		})
	}
}

// commandUpdate собирает Update с командой в нужном чате.
func commandUpdate(chatID int64, text string) tgbotapi.Update {
	entities := []tgbotapi.MessageEntity{}
	if strings.HasPrefix(text, "/") {
		cmd := strings.Fields(text)[0]
		entities = append(entities, tgbotapi.MessageEntity{
			Type:   "bot_command",
			Offset: 0,
			Length: len(cmd),
		})
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: chatID},
			Entities: entities,
		},
	}
}
