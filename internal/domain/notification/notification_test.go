package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gk_notification_bot/internal/domain/daily"
)

func TestMarkerKey(t *testing.T) {
	d := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "gk_notified_2025-06-01", MarkerKey(d))

	// late evening in a positive offset is still the previous UTC day
	ist := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, "gk_notified_2025-06-01", MarkerKey(time.Date(2025, 6, 2, 2, 0, 0, 0, ist)))
}

func TestBuild(t *testing.T) {
	d := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	items := []daily.QuizItem{
		{Question: "q1", Answer: "a1", Category: "Science"},
		{Question: "q2", Answer: "a2", Category: "History"},
		{Question: daily.CurrentAffairsQuestion, Answer: "news", Category: daily.CurrentAffairsCategory},
	}
	got := Build(d, items)
	require.Len(t, got, 3)
	assert.Equal(t, "GK 1/3 · Science", got[0].Title)
	assert.Equal(t, "q1", got[0].Body)
	assert.Equal(t, "gk-1-2025-06-01", got[0].Tag)
	assert.Equal(t, Data{Category: "History", Question: "q2", Answer: "a2"}, got[1].Data)
	assert.Equal(t, "gk-3-2025-06-01", got[2].Tag)
	assert.Equal(t, "news", got[2].Data.Answer)
	assert.Equal(t, "news", got[2].Body, "current affairs headline is shown directly")
}

func TestTagsAreUniqueAcrossDaysAndItems(t *testing.T) {
	seen := map[string]bool{}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 30; day++ {
		for n := 1; n <= 3; n++ {
			tag := Tag(n, start.AddDate(0, 0, day))
			require.False(t, seen[tag], tag)
			seen[tag] = true
		}
	}
}

func TestParseTag(t *testing.T) {
	n, d, err := ParseTag("gk-2-2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "2025-06-01", d.Format("2006-01-02"))

	for _, bad := range []string{"", "x-1-2025-06-01", "gk-0-2025-06-01", "gk-a-2025-06-01", "gk-1-June", "gk-1"} {
		_, _, err := ParseTag(bad)
		assert.Error(t, err, bad)
	}
}

func TestStateTransitions(t *testing.T) {
	assert.True(t, StateIdle.CanTransition(StateChecking))
	assert.True(t, StateChecking.CanTransition(StateDone))
	assert.True(t, StateChecking.CanTransition(StateDispatching))
	assert.True(t, StateDispatching.CanTransition(StateDone))
	assert.False(t, StateIdle.CanTransition(StateDispatching))
	assert.False(t, StateDone.CanTransition(StateChecking))
	assert.Equal(t, "dispatching", StateDispatching.String())
}
