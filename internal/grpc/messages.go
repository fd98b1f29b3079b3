package grpcserver

import (
	"time"

	"droneDispatch/internal/dispatch"
	"droneDispatch/internal/dispatcher"
)

type RecommendDroneRequest struct {
	OrderID string `json:"order_id"`
}

// Candidate is one ranked drone in a recommendation.
type Candidate struct {
	DroneID    string             `json:"drone_id"`
	Code       string             `json:"code"`
	Score      float64            `json:"score"`
	DistanceKm float64            `json:"distance_km"`
	ETAMinutes int                `json:"eta_minutes"`
	Breakdown  dispatch.Breakdown `json:"breakdown"`
}

type RecommendDroneResponse struct {
	OrderID    string            `json:"order_id"`
	Priority   dispatch.Priority `json:"priority"`
	Candidates []Candidate       `json:"candidates"`
}

type DispatchOrderRequest struct {
	OrderID string `json:"order_id"`
}

type DispatchOrderResponse struct {
	OrderID    string  `json:"order_id"`
	Assigned   bool    `json:"assigned"`
	DroneID    string  `json:"drone_id,omitempty"`
	Score      float64 `json:"score,omitempty"`
	ETAMinutes int     `json:"eta_minutes,omitempty"`
	DistanceKm float64 `json:"distance_km,omitempty"`
	Attempts   int     `json:"attempts"`
}

// ListQueueRequest limits the returned entries; Limit 0 returns the whole queue.
type ListQueueRequest struct {
	Limit int `json:"limit"`
}

type QueueEntry struct {
	OrderID      string            `json:"order_id"`
	RestaurantID string            `json:"restaurant_id"`
	CreatedAt    time.Time         `json:"created_at"`
	Priority     dispatch.Priority `json:"priority"`
}

type ListQueueResponse struct {
	Depth   int          `json:"depth"`
	Entries []QueueEntry `json:"entries"`
}

type RunDispatchPassRequest struct{}

type RunDispatchPassResponse struct {
	Report dispatcher.PassReport `json:"report"`
}

func toRecommendResponse(r *dispatcher.Recommendation) *RecommendDroneResponse {
	out := &RecommendDroneResponse{
		OrderID:    r.Order.ID,
		Priority:   r.Priority,
		Candidates: make([]Candidate, 0, len(r.Candidates)),
	}
	for _, c := range r.Candidates {
		out.Candidates = append(out.Candidates, Candidate{
			DroneID:    c.Drone.ID,
			Code:       c.Drone.Code,
			Score:      c.Score,
			DistanceKm: c.DistanceKm,
			ETAMinutes: c.ETAMinutes,
			Breakdown:  c.Breakdown,
		})
	}
	return out
}

func toDispatchResponse(r *dispatcher.Result) *DispatchOrderResponse {
	return &DispatchOrderResponse{
		OrderID:    r.OrderID,
		Assigned:   r.Assigned,
		DroneID:    r.DroneID,
		Score:      r.Score,
		ETAMinutes: r.ETAMinutes,
		DistanceKm: r.DistanceKm,
		Attempts:   r.Attempts,
	}
}

func toQueueResponse(queue []dispatch.QueuedOrder, limit int) *ListQueueResponse {
	out := &ListQueueResponse{Depth: len(queue), Entries: []QueueEntry{}}
	for i, q := range queue {
		if limit > 0 && i >= limit {
			break
		}
		out.Entries = append(out.Entries, QueueEntry{
			OrderID:      q.Order.ID,
			RestaurantID: q.Order.RestaurantID,
			CreatedAt:    q.Order.CreatedAt,
			Priority:     q.Priority,
		})
	}
	return out
}
