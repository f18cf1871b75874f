package scheduling

import (
	"context"
	"time"

	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
	"github.com/lesquel/mesaYa-Res-sub003/internal/observability"
)

// HoldJanitor periodically sweeps lapsed holds out of stores that do not
// expire entries natively, publishing hold.expired for each. Losing holds only
// degrades UX, never correctness.
type HoldJanitor struct {
	sweeper   HoldSweeper
	publisher EventPublisher
	logger    observability.Logger
}

func NewHoldJanitor(sweeper HoldSweeper, publisher EventPublisher, logger observability.Logger) *HoldJanitor {
	return &HoldJanitor{sweeper: sweeper, publisher: publisher, logger: logger}
}

func (j *HoldJanitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			holds, err := j.sweeper.Sweep(ctx, now)
			if err != nil {
				j.logger.WithError(err).Error("failed to sweep lapsed holds")
				continue
			}
			for _, hold := range holds {
				event := domain.Event{
					Type:         domain.EventHoldExpired,
					RestaurantID: hold.RestaurantID,
					UserID:       hold.HolderUserID,
					OccurredAt:   now,
					Data: map[string]any{
						"tableId":   hold.TableID,
						"sectionId": hold.SectionID,
						"expiredAt": hold.ExpiresAt,
					},
				}
				if err := j.publisher.Publish(ctx, event); err != nil {
					j.logger.WithError(err).WithField("table_id", hold.TableID).Warn("failed to publish hold expiry")
				}
			}
		}
	}
}
