package notify

import (
	"context"
	"fmt"
	"sync"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultQueue = 64

type sender interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
}

// CommandFunc answers a chat command with the reply text.
type CommandFunc func(ctx context.Context) string

// Telegram delivers service messages to one chat from a background goroutine,
// so callers never wait on the Bot API. Messages that do not fit the queue are
// dropped.
type Telegram struct {
	log    *zap.Logger
	bot    sender
	api    *tgbot.BotAPI // nil disables command polling
	chatID int64

	handlers map[string]CommandFunc
	cancel   context.CancelFunc

	queue chan string
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewTelegram(token string, chatID int64, log *zap.Logger) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram bot init")
	}
	t := newTelegram(b, chatID, log, defaultQueue)
	t.api = b
	return t, nil
}

func newTelegram(bot sender, chatID int64, log *zap.Logger, queue int) *Telegram {
	if log == nil {
		log = zap.NewNop()
	}
	if queue <= 0 {
		queue = 1
	}
	return &Telegram{
		log:      log,
		bot:      bot,
		chatID:   chatID,
		queue:    make(chan string, queue),
		handlers: make(map[string]CommandFunc),
	}
}

// Handle registers a reply for /command. Call before Start.
func (t *Telegram) Handle(command string, fn CommandFunc) {
	t.handlers[command] = fn
}

func (t *Telegram) Start() {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for msg := range t.queue {
			if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
				t.log.Warn("telegram send failed", zap.Error(err))
			}
		}
	}()

	if t.api == nil || len(t.handlers) == 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}
	updates := t.api.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				t.handleUpdate(ctx, upd)
			}
		}
	}()
}

// handleUpdate answers commands from the configured chat only.
func (t *Telegram) handleUpdate(ctx context.Context, upd tgbot.Update) {
	m := upd.Message
	if m == nil || m.Chat == nil || m.Chat.ID != t.chatID || !m.IsCommand() {
		return
	}
	fn, ok := t.handlers[m.Command()]
	if !ok {
		t.SendService(ctx, "unknown command /%s", m.Command())
		return
	}
	t.SendService(ctx, "%s", fn(ctx))
}

// Stop stops accepting messages and waits for the queue to drain or ctx to end.
func (t *Telegram) Stop(ctx context.Context) error {
	if t.cancel != nil {
		t.cancel()
		t.api.StopReceivingUpdates()
	}

	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.queue)
	}
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Telegram) SendService(_ context.Context, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.queue <- msg:
	default:
		t.log.Warn("telegram queue full, message dropped", zap.String("text", msg))
	}
}

// Log writes service messages to the logger when Telegram is not configured.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log { return &Log{log: log} }

func (l *Log) SendService(_ context.Context, format string, args ...any) {
	l.log.Info("service notification", zap.String("text", fmt.Sprintf(format, args...)))
}
