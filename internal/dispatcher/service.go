// Package dispatcher runs the drone selection engine against stored orders and fleet
// state, commits assignments and drives orders to completion.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"droneDispatch/internal/apperr"
	"droneDispatch/internal/dispatch"
	"droneDispatch/internal/geo"
	"droneDispatch/internal/logx"
	"droneDispatch/internal/metrics"
	"droneDispatch/models"
)

// Stores bundles the persistence the dispatcher works against.
type Stores struct {
	Drones      DroneStore
	Orders      OrderStore
	Restaurants RestaurantStore
	Dispatch    Assigner
}

// Service coordinates dispatch decisions and the order lifecycle.
type Service struct {
	drones      DroneStore
	orders      OrderStore
	restaurants RestaurantStore
	assigner    Assigner

	publisher Publisher
	metrics   Metrics
	logger    logx.Logger
	now       func() time.Time

	operationTimeout time.Duration
	maxAttempts      int
}

// Option customises a Service.
type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithLogger(l logx.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOperationTimeout bounds every store round trip made by one operation.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.operationTimeout = d
		}
	}
}

// WithMaxAssignAttempts sets how many times DispatchOrder re-selects after losing a drone
// to a concurrent dispatch.
func WithMaxAssignAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewService creates and configures a dispatcher Service.
func NewService(st Stores, opts ...Option) *Service {
	s := &Service{
		drones:           st.Drones,
		orders:           st.Orders,
		restaurants:      st.Restaurants,
		assigner:         st.Dispatch,
		publisher:        nopPublisher{},
		metrics:          nopMetrics{},
		logger:           logx.Nop(),
		now:              time.Now,
		operationTimeout: 3 * time.Second,
		maxAttempts:      3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Result is the outcome of dispatching one order. Assigned is false when no drone was
// eligible; the order then stays pending for a later pass.
type Result struct {
	OrderID    string              `json:"order_id"`
	Assigned   bool                `json:"assigned"`
	DroneID    string              `json:"drone_id,omitempty"`
	Score      float64             `json:"score,omitempty"`
	ETAMinutes int                 `json:"eta_minutes,omitempty"`
	DistanceKm float64             `json:"distance_km,omitempty"`
	Breakdown  *dispatch.Breakdown `json:"breakdown,omitempty"`
	Attempts   int                 `json:"attempts"`
}

// Recommendation lists every eligible drone for an order, best first.
type Recommendation struct {
	Order      models.Order          `json:"order"`
	Restaurant models.Restaurant     `json:"restaurant"`
	Priority   dispatch.Priority     `json:"priority"`
	Candidates []dispatch.DroneScore `json:"candidates"`
}

// Best returns the top candidate, nil when there is none.
func (r *Recommendation) Best() *dispatch.DroneScore {
	if r == nil || len(r.Candidates) == 0 {
		return nil
	}
	return &r.Candidates[0]
}

// PassReport summarises one DispatchPending run.
type PassReport struct {
	Considered int `json:"considered"`
	Assigned   int `json:"assigned"`
	Waiting    int `json:"waiting"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Accepted creation times for incoming orders, relative to the service clock.
const (
	MaxClockSkew = time.Minute
	MaxOrderAge  = 24 * time.Hour
)

// PlaceOrder validates and stores a new pending order. A zero CreatedAt is stamped with
// the current time; otherwise it must lie within [now-MaxOrderAge, now+MaxClockSkew].
// Placing an order whose id already exists returns apperr.ErrConflict.
func (s *Service) PlaceOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	if o == nil {
		return nil, fmt.Errorf("order is nil: %w", apperr.ErrInvalid)
	}
	o.Status = models.OrderStatusPending
	o.AssignedDroneID, o.AssignedAt = nil, nil
	now := s.now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.CreatedAt.After(now.Add(MaxClockSkew)) {
		return nil, fmt.Errorf("order: created_at %s is in the future: %w", o.CreatedAt.Format(time.RFC3339), apperr.ErrInvalid)
	}
	if o.CreatedAt.Before(now.Add(-MaxOrderAge)) {
		return nil, fmt.Errorf("order: created_at %s is older than %s: %w", o.CreatedAt.Format(time.RFC3339), MaxOrderAge, apperr.ErrInvalid)
	}
	if strings.TrimSpace(o.RestaurantID) == "" {
		return nil, fmt.Errorf("order: empty restaurant id: %w", apperr.ErrInvalid)
	}
	if !o.Delivery().Valid() {
		return nil, fmt.Errorf("order: delivery point out of range: %w", apperr.ErrInvalid)
	}
	if o.Total.IsNegative() {
		return nil, fmt.Errorf("order: negative total: %w", apperr.ErrInvalid)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rest, err := s.restaurants.GetByID(ctx, o.RestaurantID)
	if err != nil {
		return nil, err
	}
	if rest == nil {
		return nil, fmt.Errorf("restaurant %s unknown: %w", o.RestaurantID, apperr.ErrInvalid)
	}
	return s.orders.Create(ctx, o)
}

// GetOrder returns an order or apperr.ErrNotFound.
func (s *Service) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	return o, nil
}

// Queue returns the pending orders in dispatch order: urgent first, then longest waiting.
func (s *Service) Queue(ctx context.Context) ([]dispatch.QueuedOrder, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	pending, err := s.orders.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.QueueDepth(len(pending))
	return dispatch.Prioritize(pending, s.now()), nil
}

// Recommend ranks the available drones for an order without assigning anything.
func (s *Service) Recommend(ctx context.Context, orderID string) (*Recommendation, error) {
	order, rest, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	pool, err := s.pool(ctx)
	if err != nil {
		return nil, err
	}
	ranked, err := dispatch.Rank(*order, pool, rest.Location())
	if err != nil {
		return nil, err
	}
	if ranked == nil {
		ranked = []dispatch.DroneScore{}
	}
	return &Recommendation{
		Order:      *order,
		Restaurant: *rest,
		Priority:   dispatch.ClassifyPriority(order.CreatedAt, s.now()),
		Candidates: ranked,
	}, nil
}

// DispatchOrder selects the best drone for a pending order and commits the assignment.
// When another dispatch claims the chosen drone first, the pool is re-read and selection
// repeats, up to the configured number of attempts.
func (s *Service) DispatchOrder(ctx context.Context, orderID string) (*Result, error) {
	order, rest, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.Status, apperr.ErrConflict)
	}

	log := s.logger.With(logx.OrderID(orderID))
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		pool, err := s.pool(ctx)
		if err != nil {
			s.metrics.Decision(metrics.OutcomeError)
			return nil, err
		}
		start := time.Now()
		best, err := dispatch.SelectBest(*order, pool, rest.Location())
		s.metrics.Selection(time.Since(start))
		if err != nil {
			s.metrics.Decision(metrics.OutcomeError)
			log.Error("drone selection failed", logx.String("event", "dispatch_error"), logx.Err(err))
			return nil, err
		}
		if best == nil {
			s.metrics.Decision(metrics.OutcomeNoCandidate)
			log.Info("no eligible drone", logx.String("event", "dispatch_waiting"), logx.Int("pool", len(pool)))
			return &Result{OrderID: orderID, Attempts: attempt}, nil
		}

		at := s.now().UTC()
		err = s.assign(ctx, orderID, best.Drone.ID, at)
		if errors.Is(err, apperr.ErrConflict) {
			current, lerr := s.GetOrder(ctx, orderID)
			if lerr != nil {
				return nil, lerr
			}
			if current.Status != models.OrderStatusPending {
				s.metrics.Decision(metrics.OutcomeConflict)
				return nil, fmt.Errorf("order %s is %s: %w", orderID, current.Status, apperr.ErrConflict)
			}
			s.metrics.Retry()
			log.Warn("drone taken concurrently, reselecting",
				logx.DroneID(best.Drone.ID), logx.Int("attempt", attempt))
			continue
		}
		if err != nil {
			s.metrics.Decision(metrics.OutcomeError)
			return nil, err
		}

		s.metrics.Decision(metrics.OutcomeAssigned)
		breakdown := best.Breakdown
		res := &Result{
			OrderID:    orderID,
			Assigned:   true,
			DroneID:    best.Drone.ID,
			Score:      best.Score,
			ETAMinutes: best.ETAMinutes,
			DistanceKm: best.DistanceKm,
			Breakdown:  &breakdown,
			Attempts:   attempt,
		}
		log.Info("drone assigned",
			logx.String("event", "dispatch_assigned"),
			logx.DroneID(res.DroneID),
			logx.Float64("score", res.Score),
			logx.Int("eta_min", res.ETAMinutes),
			logx.Float64("distance_km", res.DistanceKm),
		)
		s.publish(ctx, Assignment{
			OrderID:      orderID,
			DroneID:      res.DroneID,
			RestaurantID: rest.ID,
			Score:        res.Score,
			ETAMinutes:   res.ETAMinutes,
			DistanceKm:   res.DistanceKm,
			AssignedAt:   at,
		})
		return res, nil
	}

	s.metrics.Decision(metrics.OutcomeConflict)
	return nil, fmt.Errorf("order %s: no drone could be claimed after %d attempts: %w", orderID, s.maxAttempts, apperr.ErrConflict)
}

// DispatchPending runs one scheduling pass over the queue in urgency order. Orders that
// cannot be dispatched are counted and the pass continues; only context cancellation
// stops it early.
func (s *Service) DispatchPending(ctx context.Context) (PassReport, error) {
	var rep PassReport
	queue, err := s.Queue(ctx)
	if err != nil {
		return rep, err
	}
	for _, q := range queue {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Considered++
		res, err := s.DispatchOrder(ctx, q.Order.ID)
		switch {
		case err == nil && res.Assigned:
			rep.Assigned++
		case err == nil:
			rep.Waiting++
		case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrNotFound):
			rep.Skipped++
		case ctx.Err() != nil:
			return rep, ctx.Err()
		default:
			rep.Failed++
			s.logger.Error("dispatch failed", logx.OrderID(q.Order.ID), logx.Err(err))
		}
	}
	if rep.Considered > 0 {
		s.logger.Info("dispatch pass finished",
			logx.String("event", "dispatch_pass"),
			logx.Int("considered", rep.Considered),
			logx.Int("assigned", rep.Assigned),
			logx.Int("waiting", rep.Waiting),
			logx.Int("skipped", rep.Skipped),
			logx.Int("failed", rep.Failed),
		)
	}
	return rep, nil
}

// Complete closes an assigned order as delivered or failed and frees its drone. A delivery
// is only accepted when the drone's last reported position, if any, is within
// geo.ArrivalRadiusKm of the delivery point.
func (s *Service) Complete(ctx context.Context, orderID string, delivered bool) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusAssigned {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.Status, apperr.ErrConflict)
	}
	status := models.OrderStatusFailed
	if delivered {
		status = models.OrderStatusDelivered
		if err := s.checkArrival(ctx, order); err != nil {
			return nil, err
		}
	}
	return s.release(ctx, order, status)
}

// Cancel cancels a pending or assigned order and frees its drone.
func (s *Service) Cancel(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.Status, apperr.ErrConflict)
	}
	return s.release(ctx, order, models.OrderStatusCancelled)
}

// HandleOrderPlaced stores the order from a checkout event, unless already known, and
// dispatches it. Redelivered events for orders that moved on are ignored.
func (s *Service) HandleOrderPlaced(ctx context.Context, e OrderPlaced) error {
	if strings.TrimSpace(e.OrderID) == "" {
		return fmt.Errorf("order placed event without order id: %w", apperr.ErrInvalid)
	}
	existing, err := s.orders.GetByID(ctx, e.OrderID)
	if err != nil {
		return err
	}
	if existing == nil {
		_, err := s.PlaceOrder(ctx, &models.Order{
			ID:                e.OrderID,
			RestaurantID:      e.RestaurantID,
			DeliveryLatitude:  e.DeliveryLatitude,
			DeliveryLongitude: e.DeliveryLongitude,
			Total:             e.Total,
			CreatedAt:         e.CreatedAt,
		})
		if err != nil && !errors.Is(err, apperr.ErrConflict) {
			return err
		}
	} else if existing.Status != models.OrderStatusPending {
		return nil
	}

	_, err = s.DispatchOrder(ctx, e.OrderID)
	if errors.Is(err, apperr.ErrConflict) {
		return nil
	}
	return err
}

func (s *Service) load(ctx context.Context, orderID string) (*models.Order, *models.Restaurant, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	rest, err := s.restaurants.GetByID(ctx, order.RestaurantID)
	if err != nil {
		return nil, nil, err
	}
	if rest == nil {
		return nil, nil, fmt.Errorf("restaurant %s of order %s: %w", order.RestaurantID, orderID, apperr.ErrNotFound)
	}
	return order, rest, nil
}

func (s *Service) pool(ctx context.Context) ([]models.Drone, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.drones.ListByStatus(ctx, models.DroneStatusAvailable)
}

func (s *Service) assign(ctx context.Context, orderID, droneID string, at time.Time) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.assigner.Assign(ctx, orderID, droneID, at)
}

func (s *Service) checkArrival(ctx context.Context, order *models.Order) error {
	if order.AssignedDroneID == nil {
		return nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	drone, err := s.drones.GetByID(ctx, *order.AssignedDroneID)
	if err != nil {
		return err
	}
	if drone == nil || !drone.HasPosition() {
		return nil
	}
	pos := drone.Position(order.Delivery())
	if !geo.WithinRadiusKm(pos, order.Delivery(), geo.ArrivalRadiusKm) {
		return fmt.Errorf("drone %s is %.2f km from the delivery point: %w",
			drone.ID, geo.Between(pos, order.Delivery()), apperr.ErrConflict)
	}
	return nil
}

func (s *Service) release(ctx context.Context, order *models.Order, status models.OrderStatus) (*models.Order, error) {
	rctx, cancel := s.withTimeout(ctx)
	droneID, err := s.assigner.Release(rctx, order.ID, status)
	cancel()
	if err != nil {
		return nil, err
	}
	s.logger.Info("order closed",
		logx.String("event", "order_"+string(status)),
		logx.OrderID(order.ID),
		logx.DroneID(droneID),
	)
	return s.GetOrder(ctx, order.ID)
}

func (s *Service) publish(ctx context.Context, a Assignment) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.publisher.PublishAssignment(ctx, a); err != nil {
		// The assignment itself stays committed.
		s.logger.Warn("publish assignment failed", append(logx.Assignment(a.OrderID, a.DroneID), logx.Err(err))...)
	}
}
