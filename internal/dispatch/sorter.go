package dispatch

import (
	"sort"
	"time"

	"droneDispatch/models"
)

// QueuedOrder is an order together with its priority at scheduling time.
type QueuedOrder struct {
	Order    models.Order `json:"order"`
	Priority Priority     `json:"priority"`
}

// SortByUrgency returns a new slice with urgent orders ahead of all others and, within
// each of the two groups, the longest-waiting orders first. An urgent order always
// outranks a non-urgent one regardless of waiting time. Ties keep input order.
func SortByUrgency(orders []models.Order, now time.Time) []models.Order {
	queued := Prioritize(orders, now)
	out := make([]models.Order, len(queued))
	for i, q := range queued {
		out[i] = q.Order
	}
	return out
}

// Prioritize is SortByUrgency that also reports each order's priority.
func Prioritize(orders []models.Order, now time.Time) []QueuedOrder {
	queued := make([]QueuedOrder, len(orders))
	for i, o := range orders {
		queued[i] = QueuedOrder{Order: o, Priority: ClassifyPriority(o.CreatedAt, now)}
	}
	sort.SliceStable(queued, func(i, j int) bool {
		ui := queued[i].Priority.Level == LevelUrgent
		uj := queued[j].Priority.Level == LevelUrgent
		if ui != uj {
			return ui
		}
		// Earlier creation means longer waiting.
		return queued[i].Order.CreatedAt.Before(queued[j].Order.CreatedAt)
	})
	return queued
}
