package telegram

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"gk_notification_bot/internal/app"
)

const (
	defaultDispatchTimeout = 2 * time.Minute

	msgNotAuthorized = "Error: you are not allowed to run this command."
	msgInternalError = "Something went wrong, please try again later."
)

// Handlers serves the bot's commands and callbacks.
type Handlers struct {
	ctx             context.Context
	subscribers     *app.SubscriberService
	content         *app.ContentService
	dispatcher      app.Dispatcher
	dispatchTimeout time.Duration
	logger          *logrus.Entry
}

func NewHandlers(
	ctx context.Context,
	subscribers *app.SubscriberService,
	content *app.ContentService,
	dispatcher app.Dispatcher,
	dispatchTimeout time.Duration,
	logger *logrus.Entry,
) *Handlers {
	if dispatchTimeout <= 0 {
		dispatchTimeout = defaultDispatchTimeout
	}
	return &Handlers{
		ctx:             ctx,
		subscribers:     subscribers,
		content:         content,
		dispatcher:      dispatcher,
		dispatchTimeout: dispatchTimeout,
		logger:          logger,
	}
}

// Register attaches every handler to b.
func (h *Handlers) Register(b *telebot.Bot) {
	b.Handle("/start", h.OnStart)
	b.Handle("/stop", h.OnStop)
	b.Handle("/today", h.OnToday)
	b.Handle("/help", h.OnHelp)

	b.Handle("/add_subscriber", h.OnAddSubscriber)
	b.Handle("/remove_subscriber", h.OnRemoveSubscriber)
	b.Handle("/list_subscribers", h.OnListSubscribers)
	b.Handle("/dispatch_now", h.OnDispatchNow)

	b.Handle(&telebot.Btn{Unique: app.AnswerButtonUnique}, h.OnShowAnswer)
}

func (h *Handlers) handlerLogger(name string, c telebot.Context) *logrus.Entry {
	fields := logrus.Fields{"handler": name}
	if s := c.Sender(); s != nil {
		fields["sender_id"] = s.ID
	}
	return h.logger.WithFields(fields)
}
