package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gk_notification_bot/internal/app"
	"gk_notification_bot/internal/domain/content"
	"gk_notification_bot/internal/domain/notification"
	"gk_notification_bot/internal/infra/markerstore"
)

type stubDispatcher struct {
	cycle    *notification.Cycle
	err      error
	triggers []notification.Trigger
}

func (d *stubDispatcher) Dispatch(_ context.Context, trigger notification.Trigger) (*notification.Cycle, error) {
	d.triggers = append(d.triggers, trigger)
	if d.cycle != nil {
		d.cycle.Trigger = trigger
	}
	return d.cycle, d.err
}

type stubNotifier struct {
	shown []notification.Notification
	err   error
}

func (n *stubNotifier) Display(_ context.Context, note notification.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.shown = append(n.shown, note)
	return nil
}

func newTestServer(t *testing.T, token string) (*Server, *stubDispatcher, *stubNotifier) {
	t.Helper()
	sel, err := content.NewSelector()
	require.NoError(t, err)

	l := logrus.New()
	l.SetOutput(io.Discard)

	disp := &stubDispatcher{cycle: &notification.Cycle{Date: "2025-06-01", Outcome: notification.OutcomeDispatched, Sent: 3}}
	notifier := &stubNotifier{}
	srv := NewServer(Deps{
		Content:    app.NewContentService(sel, func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }),
		Dispatcher: disp,
		Notifier:   notifier,
		Logger:     logrus.NewEntry(l),
		APIToken:   token,
	})
	return srv, disp, notifier
}

func do(t *testing.T, srv *Server, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t, "")
	rec := do(t, srv, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDaily_DefaultsToToday(t *testing.T) {
	srv, _, _ := newTestServer(t, "")
	rec := do(t, srv, http.MethodGet, "/api/v1/daily", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dailyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-06-01", resp.Date)
	assert.Equal(t, 151, resp.DayIndex)
	assert.Len(t, resp.Items, 3)
	assert.Equal(t, "Current Affairs", resp.Items[2].Category)
}

func TestDaily_ExplicitDate(t *testing.T) {
	srv, _, _ := newTestServer(t, "")
	rec := do(t, srv, http.MethodGet, "/api/v1/daily?date=2025-01-10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dailyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 9, resp.DayIndex)
	assert.Equal(t, 1, resp.Plan.CurrentAffairs.Epoch)
	assert.Equal(t, uint32(2246890409), resp.Plan.CurrentAffairs.Seed)

	bad := do(t, srv, http.MethodGet, "/api/v1/daily?date=10-01-2025", "", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestNotifications(t *testing.T) {
	srv, _, _ := newTestServer(t, "")
	rec := do(t, srv, http.MethodGet, "/api/v1/notifications?date=2025-06-01", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp notificationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "gk_notified_2025-06-01", resp.MarkerKey)
	require.Len(t, resp.Notifications, 3)
	assert.Equal(t, "gk-3-2025-06-01", resp.Notifications[2].Tag)
}

func TestDispatch(t *testing.T) {
	srv, disp, _ := newTestServer(t, "")
	rec := do(t, srv, http.MethodPost, "/api/v1/dispatch", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []notification.Trigger{notification.TriggerManual}, disp.triggers)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "dispatched", body["outcome"])
	assert.NotContains(t, body, "error")
}

func TestDispatch_AbortedIsUnavailable(t *testing.T) {
	srv, disp, _ := newTestServer(t, "")
	disp.cycle.Outcome = notification.OutcomeAborted
	disp.err = errors.New("redis: connection refused")

	rec := do(t, srv, http.MethodPost, "/api/v1/dispatch", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestPush_EmptyBodyRunsCycle(t *testing.T) {
	srv, disp, notifier := newTestServer(t, "")
	rec := do(t, srv, http.MethodPost, "/api/v1/push", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []notification.Trigger{notification.TriggerPush}, disp.triggers)
	assert.Empty(t, notifier.shown)
}

func TestPush_PayloadIsBroadcast(t *testing.T) {
	srv, disp, notifier := newTestServer(t, "")
	rec := do(t, srv, http.MethodPost, "/api/v1/push", `{"title":"Quiz night","body":"Starts at 8"}`, map[string]string{"Content-Type": "application/json"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, disp.triggers)
	require.Len(t, notifier.shown, 1)
	assert.Equal(t, "Quiz night", notifier.shown[0].Title)
	assert.Empty(t, notifier.shown[0].Tag)

	bad := do(t, srv, http.MethodPost, "/api/v1/push", `{"body":"no title"}`, nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	garbage := do(t, srv, http.MethodPost, "/api/v1/push", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, garbage.Code)
}

func TestPush_BroadcastFailure(t *testing.T) {
	srv, _, notifier := newTestServer(t, "")
	notifier.err = errors.New("telegram down")
	rec := do(t, srv, http.MethodPost, "/api/v1/push", `{"title":"x"}`, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestBearerAuth(t *testing.T) {
	srv, disp, _ := newTestServer(t, "s3cret")

	missing := do(t, srv, http.MethodPost, "/api/v1/dispatch", "", nil)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)

	wrong := do(t, srv, http.MethodPost, "/api/v1/dispatch", "", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusForbidden, wrong.Code)
	assert.Empty(t, disp.triggers)

	ok := do(t, srv, http.MethodPost, "/api/v1/dispatch", "", map[string]string{"Authorization": "Bearer s3cret"})
	assert.Equal(t, http.StatusOK, ok.Code)

	// reads stay open
	read := do(t, srv, http.MethodGet, "/api/v1/daily", "", nil)
	assert.Equal(t, http.StatusOK, read.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t, "")
	rec := do(t, srv, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// cancellingNotifier cancels the request context after the first notification.
type cancellingNotifier struct {
	cancel      context.CancelFunc
	shown       []notification.Notification
	hadDeadline bool
}

func (n *cancellingNotifier) Display(ctx context.Context, note notification.Notification) error {
	_, n.hadDeadline = ctx.Deadline()
	n.shown = append(n.shown, note)
	n.cancel()
	return nil
}

func TestDispatch_ClientDisconnectDoesNotCutDayShort(t *testing.T) {
	sel, err := content.NewSelector()
	require.NoError(t, err)
	l := logrus.New()
	l.SetOutput(io.Discard)

	now := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	contentService := app.NewContentService(sel, now)
	store := markerstore.NewMemoryStore()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dispatch", nil)
	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	req = req.WithContext(ctx)

	notifier := &cancellingNotifier{cancel: cancel}
	dispatcher := app.NewDailyDispatcher(contentService, store, notifier, logrus.NewEntry(l),
		app.WithClock(now),
		app.WithWaiter(func(ctx context.Context, _ time.Duration) error { return ctx.Err() }),
	)
	srv := NewServer(Deps{
		Content:         contentService,
		Dispatcher:      dispatcher,
		Notifier:        notifier,
		Logger:          logrus.NewEntry(l),
		DispatchTimeout: time.Minute,
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, notifier.shown, 3)
	assert.True(t, notifier.hadDeadline)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "dispatched", body["outcome"])
	assert.EqualValues(t, 3, body["sent"])
	assert.NotContains(t, body, "error")

	exists, err := store.Exists(context.Background(), "gk_notified_2025-06-01")
	require.NoError(t, err)
	assert.True(t, exists)
}
