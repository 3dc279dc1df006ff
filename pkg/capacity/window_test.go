package capacity

import (
	"testing"
	"time"

	"erp-featurestore-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func closedFact(project uuid.UUID, start time.Time, d time.Duration, breakMinutes int) *entity.TimeFact {
	end := start.Add(d)
	return &entity.TimeFact{ProjectId: &project, Start: start, End: &end, BreakMinutes: breakMinutes}
}

func TestElapsedMinutes(t *testing.T) {
	start := fixedNow.Add(-5 * time.Hour)

	tests := []struct {
		name         string
		end          time.Time
		breakMinutes int
		want         int64
	}{
		{name: "whole hours", end: start.Add(2 * time.Hour), want: 120},
		{name: "partial minute floors", end: start.Add(90*time.Second + 999*time.Millisecond), want: 1},
		{name: "break is subtracted", end: start.Add(3 * time.Hour), breakMinutes: 30, want: 150},
		{name: "break longer than interval clamps to zero", end: start.Add(10 * time.Minute), breakMinutes: 45, want: 0},
		{name: "end before start clamps to zero", end: start.Add(-time.Hour), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ElapsedMinutes(start, tt.end, tt.breakMinutes); got != tt.want {
				t.Errorf("ElapsedMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAggregateWindowBoundaries(t *testing.T) {
	project := uuid.New()
	w := NewWindows(fixedNow)

	t.Run("short window start is inclusive", func(t *testing.T) {
		facts := []*entity.TimeFact{closedFact(project, w.ShortStart, time.Hour, 0)}
		b := Aggregate(facts, []uuid.UUID{project}, w)[project]
		assert.Equal(t, 1, b.Entries7d)
		assert.Equal(t, 1.0, b.Hours7d())
	})

	t.Run("one millisecond before short window is excluded", func(t *testing.T) {
		facts := []*entity.TimeFact{closedFact(project, w.ShortStart.Add(-time.Millisecond), time.Hour, 0)}
		b := Aggregate(facts, []uuid.UUID{project}, w)[project]
		assert.Equal(t, 0, b.Entries7d)
		assert.Equal(t, 0.0, b.Hours7d())
		assert.Equal(t, 1, b.Entries30d)
	})

	t.Run("long window start is inclusive", func(t *testing.T) {
		facts := []*entity.TimeFact{closedFact(project, w.LongStart, time.Hour, 0)}
		b := Aggregate(facts, []uuid.UUID{project}, w)[project]
		assert.Equal(t, 1, b.Entries30d)
		assert.Equal(t, 1.0, b.Hours30d())
	})

	t.Run("one millisecond before long window is excluded", func(t *testing.T) {
		facts := []*entity.TimeFact{closedFact(project, w.LongStart.Add(-time.Millisecond), time.Hour, 0)}
		b := Aggregate(facts, []uuid.UUID{project}, w)[project]
		assert.Equal(t, 0, b.Entries30d)
		assert.Equal(t, 0.0, b.Hours30d())
	})
}

func TestAggregateOverlapAndExclusions(t *testing.T) {
	project := uuid.New()
	other := uuid.New()
	w := NewWindows(fixedNow)

	openFact := &entity.TimeFact{ProjectId: &project, Start: fixedNow.Add(-time.Hour)}
	noProject := closedFact(project, fixedNow.Add(-2*time.Hour), time.Hour, 0)
	noProject.ProjectId = nil

	facts := []*entity.TimeFact{
		closedFact(project, fixedNow.Add(-24*time.Hour), 2*time.Hour, 0),
		openFact,
		noProject,
		closedFact(other, fixedNow.Add(-24*time.Hour), 8*time.Hour, 0),
		nil,
	}

	buckets := Aggregate(facts, []uuid.UUID{project}, w)

	assert.Len(t, buckets, 1, "untracked projects get no bucket")
	b := buckets[project]
	assert.Equal(t, 2.0, b.Hours7d())
	assert.Equal(t, 2.0, b.Hours30d())
	assert.Equal(t, 1, b.Entries7d)
	assert.Equal(t, 1, b.Entries30d)
}

func TestAggregateTrackedProjectWithoutFactsGetsZeroBucket(t *testing.T) {
	project := uuid.New()
	buckets := Aggregate(nil, []uuid.UUID{project}, NewWindows(fixedNow))

	b, ok := buckets[project]
	assert.True(t, ok)
	assert.Equal(t, Bucket{}, *b)
}

func TestAggregateScenario(t *testing.T) {
	project := uuid.New()
	w := NewWindows(fixedNow)

	facts := []*entity.TimeFact{
		closedFact(project, fixedNow.Add(-1*24*time.Hour), 3*time.Hour, 0),
		closedFact(project, fixedNow.Add(-2*24*time.Hour), 3*time.Hour+30*time.Minute, 30),
		closedFact(project, fixedNow.Add(-3*24*time.Hour), 4*time.Hour, 0),
		closedFact(project, fixedNow.Add(-10*24*time.Hour), 5*time.Hour, 0),
	}

	b := Aggregate(facts, []uuid.UUID{project}, w)[project]
	assert.Equal(t, 10.0, b.Hours7d())
	assert.Equal(t, 3, b.Entries7d)
	assert.Equal(t, 15.0, b.Hours30d())
	assert.Equal(t, 4, b.Entries30d)
}

func TestRoundHours(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 1.0 / 3, want: 0.33},
		{in: 2.0 / 3, want: 0.67},
		{in: 0.125, want: 0.13},
		{in: 7.999, want: 8},
		{in: -1.005, want: -1},
	}
	for _, tt := range tests {
		if got := RoundHours(tt.in); got != tt.want {
			t.Errorf("RoundHours(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
