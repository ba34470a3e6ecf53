package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"gk_notification_bot/internal/app"
	"gk_notification_bot/internal/domain/notification"
	"gk_notification_bot/internal/domain/subscriber"
)

func (h *Handlers) isAdmin(c telebot.Context) bool {
	return c.Sender() != nil && h.subscribers.IsAdmin(c.Sender().ID)
}

// OnAddSubscriber handles /add_subscriber <ChatID> <FirstName> [LastName].
func (h *Handlers) OnAddSubscriber(c telebot.Context) error {
	handlerLogger := h.handlerLogger("/add_subscriber", c)
	handlerLogger.Info("Command received")

	if !h.isAdmin(c) {
		handlerLogger.Warn("Unauthorized access attempt")
		return c.Send(msgNotAuthorized)
	}

	args := c.Args()
	if len(args) < 2 || len(args) > 3 {
		handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
		return c.Send("Invalid format. Use: /add_subscriber <ChatID> <FirstName> [LastName]")
	}

	chatID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Send("Error: the chat ID must be a number.")
	}
	firstName := strings.TrimSpace(args[1])
	if firstName == "" {
		return c.Send("Error: the first name cannot be empty.")
	}
	var lastName string
	if len(args) == 3 {
		lastName = args[2]
	}

	handlerLogger = handlerLogger.WithField("chat_id", chatID)
	created, err := h.subscribers.AddSubscriber(h.ctx, c.Sender().ID, chatID, firstName, lastName)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAdminNotAuthorized):
			return c.Send(msgNotAuthorized)
		case errors.Is(err, app.ErrSubscriberAlreadyExists):
			handlerLogger.Warn("Subscriber already exists")
			return c.Send(fmt.Sprintf("Error: chat %d is already registered.", chatID))
		default:
			handlerLogger.WithError(err).Error("Failed to add subscriber")
			return c.Send(msgInternalError)
		}
	}

	handlerLogger.WithField("subscriber_id", created.ID).Info("Subscriber added")
	return c.Send(fmt.Sprintf("Subscriber %s (chat %d) added.", created.DisplayName(), created.ChatID))
}

// OnRemoveSubscriber handles /remove_subscriber <ChatID>.
func (h *Handlers) OnRemoveSubscriber(c telebot.Context) error {
	handlerLogger := h.handlerLogger("/remove_subscriber", c)
	handlerLogger.Info("Command received")

	if !h.isAdmin(c) {
		handlerLogger.Warn("Unauthorized access attempt")
		return c.Send(msgNotAuthorized)
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Send("Invalid format. Use: /remove_subscriber <ChatID>")
	}
	chatID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Send("Error: the chat ID must be a number.")
	}

	handlerLogger = handlerLogger.WithField("chat_id", chatID)
	removed, err := h.subscribers.RemoveSubscriber(h.ctx, c.Sender().ID, chatID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAdminNotAuthorized):
			return c.Send(msgNotAuthorized)
		case errors.Is(err, subscriber.ErrNotFound):
			return c.Send(fmt.Sprintf("No subscriber with chat ID %d.", chatID))
		case errors.Is(err, app.ErrSubscriberAlreadyInactive):
			return c.Send(fmt.Sprintf("Subscriber %s (chat %d) is already inactive.", removed.DisplayName(), chatID))
		default:
			handlerLogger.WithError(err).Error("Failed to remove subscriber")
			return c.Send(msgInternalError)
		}
	}

	handlerLogger.WithField("subscriber_id", removed.ID).Info("Subscriber deactivated")
	return c.Send(fmt.Sprintf("Subscriber %s (chat %d) deactivated.", removed.DisplayName(), removed.ChatID))
}

// OnListSubscribers handles /list_subscribers [active|all].
func (h *Handlers) OnListSubscribers(c telebot.Context) error {
	handlerLogger := h.handlerLogger("/list_subscribers", c)
	if !h.isAdmin(c) {
		handlerLogger.Warn("Unauthorized access attempt")
		return c.Send(msgNotAuthorized)
	}

	listType := "active"
	if args := c.Args(); len(args) > 0 {
		listType = strings.ToLower(args[0])
	}
	if listType != "active" && listType != "all" {
		return c.Send("Invalid argument. Use 'active' or 'all'.")
	}

	subs, err := h.subscribers.ListSubscribers(h.ctx, c.Sender().ID, listType == "all")
	if err != nil {
		handlerLogger.WithError(err).Error("Failed to list subscribers")
		return c.Send(msgInternalError)
	}
	if len(subs) == 0 {
		return c.Send("No subscribers found.")
	}

	var response strings.Builder
	fmt.Fprintf(&response, "Subscribers (%s): %d\n", listType, len(subs))
	for _, s := range subs {
		status := "inactive"
		if s.IsActive {
			status = "active"
		}
		fmt.Fprintf(&response, "ID: %d, chat: %d, name: %s, status: %s\n", s.ID, s.ChatID, s.DisplayName(), status)
	}
	return c.Send(response.String())
}

// OnDispatchNow runs today's cycle on demand. The marker still applies, so a day
// that was already dispatched is not sent twice.
func (h *Handlers) OnDispatchNow(c telebot.Context) error {
	handlerLogger := h.handlerLogger("/dispatch_now", c)
	if !h.isAdmin(c) {
		handlerLogger.Warn("Unauthorized access attempt")
		return c.Send(msgNotAuthorized)
	}

	ctx, cancel := context.WithTimeout(h.ctx, h.dispatchTimeout)
	defer cancel()

	cycle, err := h.dispatcher.Dispatch(ctx, notification.TriggerManual)
	if err != nil {
		handlerLogger.WithError(err).Error("Manual dispatch failed")
		if cycle == nil {
			return c.Send(msgInternalError)
		}
	}
	handlerLogger.WithFields(logrus.Fields{"outcome": cycle.Outcome, "run_id": cycle.RunID}).Info("Manual dispatch finished")
	return c.Send(describeCycle(cycle, err))
}

func describeCycle(cycle *notification.Cycle, err error) string {
	switch cycle.Outcome {
	case notification.OutcomeDispatched:
		msg := fmt.Sprintf("Dispatched %s: %d sent, %d failed.", cycle.Date, cycle.Sent, cycle.Failed)
		if err != nil {
			msg += " The cycle was interrupted."
		}
		return msg
	case notification.OutcomeAlreadyNotified:
		return fmt.Sprintf("Notifications for %s were already sent.", cycle.Date)
	case notification.OutcomeLostRace:
		return fmt.Sprintf("Another instance is dispatching %s.", cycle.Date)
	default:
		return fmt.Sprintf("Dispatch for %s aborted: the marker store is unavailable.", cycle.Date)
	}
}
