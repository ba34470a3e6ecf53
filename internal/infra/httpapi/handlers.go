package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"gk_notification_bot/internal/app"
	"gk_notification_bot/internal/domain/daily"
	"gk_notification_bot/internal/domain/notification"
)

// maxPushBody bounds the payload of POST /push.
const maxPushBody = 64 << 10

type handlers struct {
	content         *app.ContentService
	dispatcher      app.Dispatcher
	notifier        app.Notifier
	logger          *logrus.Entry
	dispatchTimeout time.Duration
}

type dailyResponse struct {
	Date     string           `json:"date"`
	DayIndex int              `json:"day_index"`
	Plan     daily.DayPlan    `json:"plan"`
	Items    []daily.QuizItem `json:"items"`
}

type notificationsResponse struct {
	Date          string                      `json:"date"`
	MarkerKey     string                      `json:"marker_key"`
	Notifications []notification.Notification `json:"notifications"`
}

type dispatchResponse struct {
	*notification.Cycle
	Error string `json:"error,omitempty"`
}

type pushRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *handlers) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// dateParam reads ?date=YYYY-MM-DD, defaulting to the current UTC date.
func (h *handlers) dateParam(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("date")
	if raw == "" {
		today, _ := h.content.Today()
		return today, nil
	}
	date, err := daily.ParseDateKey(raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return date, nil
}

func (h *handlers) daily(c echo.Context) error {
	date, err := h.dateParam(c)
	if err != nil {
		return err
	}
	plan := h.content.Plan(date)
	return c.JSON(http.StatusOK, dailyResponse{
		Date:     daily.DateKey(date),
		DayIndex: plan.DayIndex,
		Plan:     plan,
		Items:    h.content.ForDate(date),
	})
}

func (h *handlers) notifications(c echo.Context) error {
	date, err := h.dateParam(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notificationsResponse{
		Date:          daily.DateKey(date),
		MarkerKey:     notification.MarkerKey(date),
		Notifications: h.content.Notifications(date),
	})
}

func (h *handlers) dispatch(c echo.Context) error {
	return h.runCycle(c, notification.TriggerManual)
}

// push handles a host push event. Without a payload it behaves like a wake-up and
// runs the daily cycle; with one it broadcasts the payload as is.
func (h *handlers) push(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPushBody+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
	}
	if len(body) > maxPushBody {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "payload too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return h.runCycle(c, notification.TriggerPush)
	}

	var req pushRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	if err := h.notifier.Display(c.Request().Context(), notification.Notification{Title: req.Title, Body: req.Body}); err != nil {
		h.logger.WithError(err).Error("Failed to broadcast push payload")
		return echo.NewHTTPError(http.StatusBadGateway, "broadcast failed")
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "broadcast"})
}

// runCycle is detached from the request; only dispatchTimeout bounds the cycle.
func (h *handlers) runCycle(c echo.Context, trigger notification.Trigger) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), h.dispatchTimeout)
	defer cancel()

	cycle, err := h.dispatcher.Dispatch(ctx, trigger)
	if cycle == nil {
		h.logger.WithError(err).Error("Dispatch returned no cycle")
		return echo.NewHTTPError(http.StatusInternalServerError, "dispatch failed")
	}

	resp := dispatchResponse{Cycle: cycle}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		if cycle.Outcome == notification.OutcomeAborted {
			status = http.StatusServiceUnavailable
		}
	}
	return c.JSON(status, resp)
}
