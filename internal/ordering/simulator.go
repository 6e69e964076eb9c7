package ordering

import (
	"context"
	"time"

	"campus-food/internal/models"
	"campus-food/internal/util"

	"go.uber.org/zap"
)

// Advancer moves an order through the staff lifecycle
type Advancer interface {
	Accept(ctx context.Context, orderID string) (*models.Order, error)
	Complete(ctx context.Context, orderID string) (*models.Order, error)
}

// Simulator stands in for kitchen staff in demos: it accepts a new order at
// once and completes it after a fixed delay. It goes through the same guarded
// transitions as staff, so a real staff action simply wins the race.
type Simulator struct {
	advancer Advancer
	delay    time.Duration
	logger   *zap.Logger
}

// NewSimulator returns a simulator; a zero delay disables it
func NewSimulator(advancer Advancer, delay time.Duration) *Simulator {
	return &Simulator{advancer: advancer, delay: delay, logger: util.Named("simulator")}
}

// Enabled reports whether Start does anything
func (s *Simulator) Enabled() bool {
	return s != nil && s.delay > 0
}

// Start runs the progression in the background. The returned function
// cancels it; ctx must outlive the request that placed the order.
func (s *Simulator) Start(ctx context.Context, orderID string) context.CancelFunc {
	if !s.Enabled() {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()

		if _, err := s.advancer.Accept(ctx, orderID); err != nil {
			s.logger.Debug("Simulated accept skipped", zap.String("order_id", orderID), zap.Error(err))
		}

		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			s.logger.Debug("Progress simulation cancelled", zap.String("order_id", orderID))
			return
		case <-timer.C:
		}

		if _, err := s.advancer.Complete(ctx, orderID); err != nil {
			s.logger.Debug("Simulated complete skipped", zap.String("order_id", orderID), zap.Error(err))
		}
	}()
	return cancel
}
