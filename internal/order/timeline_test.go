package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickcart/internal/model"
)

func countFlags(steps []Step) (completed, current int) {
	for _, s := range steps {
		if s.Completed {
			completed++
		}
		if s.Current {
			current++
		}
	}
	return completed, current
}

func TestProjectTimeline_Monotonic(t *testing.T) {
	for i, s := range Sequence {
		t.Run(string(s), func(t *testing.T) {
			tl := ProjectTimeline(string(s), nil)
			require.Len(t, tl.Steps, len(Sequence))

			for j, step := range tl.Steps {
				assert.Equal(t, j <= i, step.Completed, "step %s", step.Key)
				assert.Equal(t, j == i, step.Current, "step %s", step.Key)
			}

			completed, current := countFlags(tl.Steps)
			assert.Equal(t, i+1, completed)
			assert.Equal(t, 1, current)
		})
	}
}

func TestProjectTimeline_CaseInsensitive(t *testing.T) {
	tl := ProjectTimeline("PREPARING", nil)
	assert.True(t, tl.Steps[2].Current)
}

func TestProjectTimeline_Cancelled(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tl := ProjectTimeline("cancelled", []model.StatusRecord{
		{Status: "pending", Timestamp: at.Add(-time.Hour)},
		{Status: "Cancelled", Timestamp: at, Notes: "customer request"},
	})

	assert.True(t, tl.Cancelled)
	require.Len(t, tl.Steps, 1)
	assert.Equal(t, Cancelled, tl.Steps[0].Key)
	assert.Equal(t, "Cancelled", tl.Steps[0].Label)
	for _, s := range tl.Steps {
		assert.False(t, s.Completed)
	}
	require.NotNil(t, tl.Steps[0].Timestamp)
	assert.Equal(t, at, *tl.Steps[0].Timestamp)
	require.NotNil(t, tl.Steps[0].Notes)
	assert.Equal(t, "customer request", *tl.Steps[0].Notes)
}

func TestProjectTimeline_UnknownStatus(t *testing.T) {
	var tl Timeline
	assert.NotPanics(t, func() { tl = ProjectTimeline("archived", []model.StatusRecord{}) })

	completed, current := countFlags(tl.Steps)
	assert.Zero(t, completed)
	assert.Zero(t, current)
	assert.False(t, tl.Cancelled)
	assert.Zero(t, tl.Progress)
}

func TestProjectTimeline_MatchesHistoryByKey(t *testing.T) {
	t1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(30 * time.Minute)
	t3 := t1.Add(45 * time.Minute)

	// Desordenado y con un estado repetido
	history := []model.StatusRecord{
		{Status: "confirmed", Timestamp: t3, Notes: "re-confirmed"},
		{Status: "pending", Timestamp: t1},
		{Status: "confirmed", Timestamp: t2, Notes: "first"},
	}

	tl := ProjectTimeline("confirmed", history)

	require.NotNil(t, tl.Steps[0].Timestamp)
	assert.Equal(t, t1, *tl.Steps[0].Timestamp)
	assert.Nil(t, tl.Steps[0].Notes)

	require.NotNil(t, tl.Steps[1].Timestamp)
	assert.Equal(t, t3, *tl.Steps[1].Timestamp)
	assert.Equal(t, "re-confirmed", *tl.Steps[1].Notes)

	assert.Nil(t, tl.Steps[2].Timestamp)
	assert.Equal(t, 40, tl.Progress)
}

func TestProjectTimeline_Deterministic(t *testing.T) {
	history := []model.StatusRecord{{Status: "pending", Timestamp: time.Unix(100, 0)}}
	assert.Equal(t, ProjectTimeline("pending", history), ProjectTimeline("pending", history))
}
