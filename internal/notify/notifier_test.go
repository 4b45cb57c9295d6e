package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeBot struct {
	mu    sync.Mutex
	texts []string
	chat  int64
	block chan struct{}
	err   error
}

func (b *fakeBot) Send(c tgbot.Chattable) (tgbot.Message, error) {
	if b.block != nil {
		<-b.block
	}
	m := c.(tgbot.MessageConfig)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.texts = append(b.texts, m.Text)
	b.chat = m.ChatID
	return tgbot.Message{}, b.err
}

func (b *fakeBot) sent() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.texts...)
}

func TestTelegramDeliversInOrder(t *testing.T) {
	bot := &fakeBot{}
	tg := newTelegram(bot, 42, zap.NewNop(), 8)
	tg.Start()

	tg.SendService(context.Background(), "[%s] %s", "BTCUSDT", "BUY")
	tg.SendService(context.Background(), "second")

	require.NoError(t, tg.Stop(context.Background()))
	assert.Equal(t, []string{"[BTCUSDT] BUY", "second"}, bot.sent())
	assert.Equal(t, int64(42), bot.chat)
}

func TestTelegramDropsWhenFull(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	bot := &fakeBot{}
	tg := newTelegram(bot, 1, zap.New(core), 1)

	// not started: the first message fills the queue
	tg.SendService(context.Background(), "one")
	tg.SendService(context.Background(), "two")

	assert.Equal(t, 1, logs.FilterMessage("telegram queue full, message dropped").Len())

	tg.Start()
	require.NoError(t, tg.Stop(context.Background()))
	assert.Equal(t, []string{"one"}, bot.sent())
}

func TestTelegramSendAfterStopIsIgnored(t *testing.T) {
	bot := &fakeBot{}
	tg := newTelegram(bot, 1, zap.NewNop(), 4)
	tg.Start()
	require.NoError(t, tg.Stop(context.Background()))
	require.NoError(t, tg.Stop(context.Background()))

	tg.SendService(context.Background(), "late")
	assert.Empty(t, bot.sent())
}

func TestTelegramStopHonoursContext(t *testing.T) {
	bot := &fakeBot{block: make(chan struct{})}
	defer close(bot.block)

	tg := newTelegram(bot, 1, zap.NewNop(), 4)
	tg.Start()
	tg.SendService(context.Background(), "stuck")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tg.Stop(ctx), context.DeadlineExceeded)
}

func TestTelegramLogsSendErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	bot := &fakeBot{err: errors.New("forbidden")}
	tg := newTelegram(bot, 1, zap.New(core), 4)
	tg.Start()

	tg.SendService(context.Background(), "x")
	require.NoError(t, tg.Stop(context.Background()))

	assert.Equal(t, 1, logs.FilterMessage("telegram send failed").Len())
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	NewLog(zap.New(core)).SendService(context.Background(), "order %d", 7)

	entries := logs.FilterMessage("service notification").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "order 7", entries[0].ContextMap()["text"])
}
