package app

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"gk_notification_bot/internal/domain/daily"
	"gk_notification_bot/internal/domain/notification"
	"gk_notification_bot/internal/domain/subscriber"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func testSelector() *daily.Selector {
	quiz := make([]daily.QuizItem, 21)
	for i := range quiz {
		quiz[i] = daily.QuizItem{Question: "Q" + string(rune('a'+i)), Answer: "A" + string(rune('a'+i)), Category: "Test"}
	}
	ca := []string{"n0", "n1", "n2", "n3", "n4", "n5", "n6"}
	sel, err := daily.NewSelector(quiz, ca)
	if err != nil {
		panic(err)
	}
	return sel
}

// fakeClock is advanced only by its waiter.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waits = append(c.waits, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
	return nil
}

// recordingNotifier remembers what it displayed; failOn makes chosen tags fail.
type recordingNotifier struct {
	mu     sync.Mutex
	shown  []notification.Notification
	failOn map[string]bool
	onShow func()
}

func (n *recordingNotifier) Display(_ context.Context, note notification.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.onShow != nil {
		n.onShow()
	}
	if n.failOn[note.Tag] {
		return errors.New("permission revoked")
	}
	n.shown = append(n.shown, note)
	return nil
}

func (n *recordingNotifier) Shown() []notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Notification(nil), n.shown...)
}

// stubMarkers lets a test script the marker store's answers.
type stubMarkers struct {
	exists    bool
	existsErr error
	marked    bool
	markErr   error
	markCalls int
}

func (s *stubMarkers) Exists(context.Context, string) (bool, error) {
	return s.exists, s.existsErr
}

func (s *stubMarkers) MarkIfAbsent(context.Context, string) (bool, error) {
	s.markCalls++
	return s.marked, s.markErr
}

// memSubscribers is an in-memory subscriber.Repository.
type memSubscribers struct {
	mu      sync.Mutex
	nextID  int64
	byChat  map[int64]*subscriber.Subscriber
	listErr error
}

func newMemSubscribers(chats ...int64) *memSubscribers {
	r := &memSubscribers{byChat: map[int64]*subscriber.Subscriber{}}
	for _, c := range chats {
		_ = r.Create(context.Background(), &subscriber.Subscriber{ChatID: c, FirstName: "S", IsActive: true})
	}
	return r
}

func (r *memSubscribers) Create(_ context.Context, s *subscriber.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byChat[s.ChatID]; ok {
		return subscriber.ErrDuplicateChatID
	}
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.byChat[s.ChatID] = &cp
	return nil
}

func (r *memSubscribers) GetByID(_ context.Context, id int64) (*subscriber.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byChat {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, subscriber.ErrNotFound
}

func (r *memSubscribers) GetByChatID(_ context.Context, chatID int64) (*subscriber.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byChat[chatID]
	if !ok {
		return nil, subscriber.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSubscribers) Update(_ context.Context, s *subscriber.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byChat[s.ChatID]; !ok {
		return subscriber.ErrNotFound
	}
	cp := *s
	r.byChat[s.ChatID] = &cp
	return nil
}

func (r *memSubscribers) ListActive(ctx context.Context) ([]*subscriber.Subscriber, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	active := all[:0]
	for _, s := range all {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active, nil
}

func (r *memSubscribers) ListAll(context.Context) ([]*subscriber.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*subscriber.Subscriber, 0, len(r.byChat))
	for _, s := range r.byChat {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type sentMessage struct {
	chatID int64
	text   string
	opts   *telebot.SendOptions
}

// fakeTelegram records messages and fails for chosen chats.
type fakeTelegram struct {
	mu     sync.Mutex
	sent   []sentMessage
	failOn map[int64]error
}

func (f *fakeTelegram) SendMessage(_ context.Context, chatID int64, text string, opts *telebot.SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[chatID]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, opts: opts})
	return nil
}
