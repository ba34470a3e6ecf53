package telegram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"gk_notification_bot/internal/app"
)

// OnStart subscribes the current chat to the daily notifications.
func (h *Handlers) OnStart(c telebot.Context) error {
	logCtx := h.handlerLogger("/start", c)
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	firstName, lastName := chat.FirstName, chat.LastName
	if firstName == "" {
		firstName = chat.Title
	}
	if firstName == "" && c.Sender() != nil {
		firstName = c.Sender().FirstName
	}

	sub, err := h.subscribers.Subscribe(h.ctx, chat.ID, firstName, lastName)
	switch {
	case errors.Is(err, app.ErrAlreadySubscribed):
		logCtx.Info("Chat already subscribed")
		return c.Send("You are already subscribed. Use /today to see today's questions.")
	case err != nil:
		logCtx.WithError(err).Error("Failed to subscribe chat")
		return c.Send(msgInternalError)
	}

	logCtx.WithField("subscriber_id", sub.ID).Info("Chat subscribed")
	return c.Send(fmt.Sprintf("Hello, %s! You will get two GK questions and one current affairs update every day. Use /today to see today's set now.", sub.DisplayName()))
}

// OnStop unsubscribes the current chat.
func (h *Handlers) OnStop(c telebot.Context) error {
	logCtx := h.handlerLogger("/stop", c)
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	_, err := h.subscribers.Unsubscribe(h.ctx, chat.ID)
	switch {
	case errors.Is(err, app.ErrNotSubscribed):
		return c.Send("You are not subscribed. Send /start to subscribe.")
	case err != nil:
		logCtx.WithError(err).Error("Failed to unsubscribe chat")
		return c.Send(msgInternalError)
	}
	logCtx.Info("Chat unsubscribed")
	return c.Send("Unsubscribed. Send /start any time to come back.")
}

// OnToday sends today's notifications to the requesting chat only.
func (h *Handlers) OnToday(c telebot.Context) error {
	today, _ := h.content.Today()
	notes := h.content.Notifications(today)
	h.handlerLogger("/today", c).WithFields(logrus.Fields{"date": today.Format("2006-01-02"), "items": len(notes)}).Info("Sending today's content")

	for _, n := range notes {
		if err := c.Send(app.FormatNotification(n), app.SendOptions(n)); err != nil {
			return err
		}
	}
	return nil
}

// OnHelp lists the commands available to the sender.
func (h *Handlers) OnHelp(c telebot.Context) error {
	var help strings.Builder
	help.WriteString("Daily GK bot commands:\n\n")
	help.WriteString("/start - subscribe to the daily questions\n")
	help.WriteString("/stop - unsubscribe\n")
	help.WriteString("/today - show today's questions now\n")
	help.WriteString("/help - show this message\n")

	if c.Sender() != nil && h.subscribers.IsAdmin(c.Sender().ID) {
		help.WriteString("\nAdmin commands:\n\n")
		help.WriteString("/add_subscriber <ChatID> <FirstName> [LastName]\n")
		help.WriteString("/remove_subscriber <ChatID>\n")
		help.WriteString("/list_subscribers [active|all]\n")
		help.WriteString("/dispatch_now - run today's dispatch if it has not run yet\n")
	}
	return c.Send(help.String())
}
