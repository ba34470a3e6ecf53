package telegram

import (
	"fmt"

	"gopkg.in/telebot.v3"
)

// Telegram truncates callback answers above this length.
const maxCallbackText = 200

// OnShowAnswer reveals the answer behind a notification's inline button.
func (h *Handlers) OnShowAnswer(c telebot.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	logCtx := h.handlerLogger("show_answer", c).WithField("tag", cb.Data)

	data, err := h.content.RevealAnswer(cb.Data)
	if err != nil {
		logCtx.WithError(err).Warn("Cannot resolve answer for callback")
		return c.Respond(&telebot.CallbackResponse{Text: "This question is no longer available."})
	}

	logCtx.Debug("Answer revealed")
	return c.Respond(&telebot.CallbackResponse{
		Text:      truncate(fmt.Sprintf("Answer: %s", data.Answer), maxCallbackText),
		ShowAlert: true,
	})
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
