package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gk_notification_bot/internal/domain/content"
	"gk_notification_bot/internal/domain/daily"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts := &options{now: func() time.Time { return time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC) }}
	root := newRootCmd(opts, "test")
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestToday_JSON(t *testing.T) {
	out, err := execute(t, "today", "--json")
	require.NoError(t, err)

	var got todayOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "2025-06-01", got.Date)
	assert.Equal(t, 151, got.DayIndex)

	sel, err := content.NewSelector()
	require.NoError(t, err)
	assert.Equal(t, sel.ForDay(151), got.Items)
}

func TestToday_Text(t *testing.T) {
	out, err := execute(t, "today", "--date", "2025-01-01")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "2025-01-01 (day 0)", lines[0])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "3. [Current Affairs] "))
	assert.Contains(t, out, "   Answer: ")
}

func TestToday_InvalidDate(t *testing.T) {
	_, err := execute(t, "today", "--date", "01/06/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestSchedule(t *testing.T) {
	out, err := execute(t, "schedule", "--from", "2024-12-30", "--days", "4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "DATE"))
	assert.True(t, strings.HasPrefix(lines[1], "2024-12-30  -2 "))
	assert.True(t, strings.HasPrefix(lines[4], "2025-01-02  1 "))

	_, err = execute(t, "schedule", "--days", "0")
	assert.Error(t, err)
}

func TestPlan(t *testing.T) {
	out, err := execute(t, "plan", "--date", "2025-01-10")
	require.NoError(t, err)

	assert.Contains(t, out, "day index:  9\n")
	assert.Contains(t, out, "marker key: gk_notified_2025-01-10\n")
	// current affairs: 7 items a day at a time, day 9 is epoch 1 offset 2
	assert.Contains(t, out, "current affairs:\n  pool size:  7\n  epoch days: 7\n  epoch:      1\n  offset:     2\n  seed:       2246890409\n")
}

func TestMarkerKey(t *testing.T) {
	out, err := execute(t, "marker-key")
	require.NoError(t, err)
	assert.Equal(t, "gk_notified_2025-06-01\n", out)

	out, err = execute(t, "marker-key", "--date", "2025-12-31")
	require.NoError(t, err)
	assert.Equal(t, "gk_notified_2025-12-31\n", out)
}

func TestPoolsFile(t *testing.T) {
	doc := `quiz:
  - {question: "Q1", answer: "A1", category: "Geo"}
  - {question: "Q2", answer: "A2"}
  - {question: "Q3", answer: "A3"}
  - {question: "Q4", answer: "A4"}
current_affairs:
  - "Only headline"
`
	path := filepath.Join(t.TempDir(), "pools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := execute(t, "--pools", path, "today", "--json", "--date", "2025-03-01")
	require.NoError(t, err)

	var got todayOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Items, 3)
	assert.Equal(t, daily.CurrentAffairsCategory, got.Items[2].Category)
	assert.Equal(t, "Only headline", got.Items[2].Answer)

	_, err = execute(t, "--pools", filepath.Join(t.TempDir(), "missing.yaml"), "today")
	assert.Error(t, err)
}
