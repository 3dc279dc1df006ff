// Package capacity computes rolling-window time totals per project.
package capacity

import (
	"math"
	"time"

	"erp-featurestore-be/internal/entity"

	"github.com/google/uuid"
)

const (
	ShortWindowDays = 7
	LongWindowDays  = 30

	day = 24 * time.Hour
)

// Windows holds the look-back boundaries of one run. Both starts are inclusive.
type Windows struct {
	Now        time.Time
	ShortStart time.Time
	LongStart  time.Time
}

func NewWindows(now time.Time) Windows {
	return Windows{
		Now:        now,
		ShortStart: now.Add(-ShortWindowDays * day),
		LongStart:  now.Add(-LongWindowDays * day),
	}
}

// Bucket accumulates worked minutes. The 7-day and 30-day windows overlap, so a recent
// entry is counted in both.
type Bucket struct {
	Minutes7d  int64
	Minutes30d int64
	Entries7d  int
	Entries30d int
}

func (b *Bucket) Hours7d() float64 {
	return RoundHours(float64(b.Minutes7d) / 60)
}

func (b *Bucket) Hours30d() float64 {
	return RoundHours(float64(b.Minutes30d) / 60)
}

// ElapsedMinutes returns whole worked minutes of an interval: floor of the elapsed
// milliseconds in minutes, minus the break, never below zero.
func ElapsedMinutes(start, end time.Time, breakMinutes int) int64 {
	elapsedMs := end.Sub(start).Milliseconds()
	minutes := int64(math.Floor(float64(elapsedMs)/60000)) - int64(breakMinutes)
	if minutes < 0 {
		return 0
	}
	return minutes
}

// Aggregate folds closed time facts of tracked projects into per-project buckets.
// Every tracked project gets a bucket, even an empty one. Facts without an end, without
// a project or for an untracked project are ignored.
func Aggregate(facts []*entity.TimeFact, tracked []uuid.UUID, w Windows) map[uuid.UUID]*Bucket {
	buckets := make(map[uuid.UUID]*Bucket, len(tracked))
	for _, id := range tracked {
		buckets[id] = &Bucket{}
	}

	for _, fact := range facts {
		if fact == nil || fact.ProjectId == nil || fact.End == nil {
			continue
		}
		bucket, ok := buckets[*fact.ProjectId]
		if !ok {
			continue
		}

		minutes := ElapsedMinutes(fact.Start, *fact.End, fact.BreakMinutes)
		if !fact.Start.Before(w.ShortStart) {
			bucket.Minutes7d += minutes
			bucket.Entries7d++
		}
		if !fact.Start.Before(w.LongStart) {
			bucket.Minutes30d += minutes
			bucket.Entries30d++
		}
	}

	return buckets
}

// RoundHours rounds half away from zero to 2 decimals. Non-finite input becomes 0.
func RoundHours(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Round(x*100) / 100
}
