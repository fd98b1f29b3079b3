package dispatch

import (
	"math"
	"time"
)

// Level is an order's urgency class.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
	LevelUrgent Level = "urgent"
)

// Waiting-time thresholds in minutes; each bound is the first minute of the next level.
const (
	mediumAfterMinutes = 10
	highAfterMinutes   = 20
	urgentAfterMinutes = 30
)

// Priority is the urgency of an order at a given instant.
type Priority struct {
	Level          Level `json:"level"`
	WaitingMinutes int   `json:"waiting_minutes"`
}

// ClassifyPriority classifies an order created at createdAt as seen at now.
// Waiting time is floored to whole minutes; a createdAt in the future counts as zero.
func ClassifyPriority(createdAt, now time.Time) Priority {
	waiting := int(math.Floor(now.Sub(createdAt).Minutes()))
	if waiting < 0 {
		waiting = 0
	}
	return Priority{Level: levelFor(waiting), WaitingMinutes: waiting}
}

func levelFor(waitingMinutes int) Level {
	switch {
	case waitingMinutes < mediumAfterMinutes:
		return LevelLow
	case waitingMinutes < highAfterMinutes:
		return LevelMedium
	case waitingMinutes < urgentAfterMinutes:
		return LevelHigh
	default:
		return LevelUrgent
	}
}
