package app

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"gk_notification_bot/internal/domain/daily"
	"gk_notification_bot/internal/domain/notification"
	"gk_notification_bot/internal/domain/subscriber"
	domainTelegram "gk_notification_bot/internal/domain/telegram"
)

// AnswerButtonUnique identifies the inline "Show answer" button. Its payload is the
// notification tag.
const AnswerButtonUnique = "gk_answer"

// BroadcastNotifier displays notifications by messaging every active subscriber.
type BroadcastNotifier struct {
	subscribers subscriber.Repository
	client      domainTelegram.Client
	logger      *logrus.Entry
}

func NewBroadcastNotifier(subs subscriber.Repository, client domainTelegram.Client, logger *logrus.Entry) *BroadcastNotifier {
	return &BroadcastNotifier{subscribers: subs, client: client, logger: logger}
}

// Display sends n to every active subscriber. A failed recipient does not stop the
// others; all failures are returned joined.
func (b *BroadcastNotifier) Display(ctx context.Context, n notification.Notification) error {
	subs, err := b.subscribers.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active subscribers: %w", err)
	}
	if len(subs) == 0 {
		b.logger.WithField("tag", n.Tag).Info("No active subscribers, nothing to send")
		return nil
	}

	text := FormatNotification(n)
	opts := SendOptions(n)

	var errs []error
	for _, s := range subs {
		if err := b.client.SendMessage(ctx, s.ChatID, text, opts); err != nil {
			b.logger.WithError(err).WithFields(logrus.Fields{
				"chat_id": s.ChatID,
				"tag":     n.Tag,
			}).Warn("Failed to send notification to subscriber")
			errs = append(errs, fmt.Errorf("chat %d: %w", s.ChatID, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notification %q failed for %d of %d subscribers: %w", n.Tag, len(errs), len(subs), errors.Join(errs...))
	}
	return nil
}

// FormatNotification renders n as Telegram HTML.
func FormatNotification(n notification.Notification) string {
	var sb strings.Builder
	sb.WriteString("<b>")
	sb.WriteString(html.EscapeString(n.Title))
	sb.WriteString("</b>")
	if n.Body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(html.EscapeString(n.Body))
	}
	return sb.String()
}

// SendOptions returns the options n is sent with: HTML, plus the reveal button when
// there is an answer to reveal.
func SendOptions(n notification.Notification) *telebot.SendOptions {
	opts := &telebot.SendOptions{ParseMode: telebot.ModeHTML}
	if n.Tag != "" && n.Data.Category != daily.CurrentAffairsCategory {
		opts.ReplyMarkup = AnswerMarkup(n.Tag)
	}
	return opts
}

// AnswerMarkup builds the inline keyboard carrying the reveal button for tag.
func AnswerMarkup(tag string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	btn := markup.Data("Show answer", AnswerButtonUnique, tag)
	markup.Inline(markup.Row(btn))
	return markup
}
