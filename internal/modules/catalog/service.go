package catalog

import (
	"context"
	"time"

	"yogastudio/internal/domain"
	"yogastudio/internal/repository"
)

type Service struct {
	classes         *repository.ClassRepository
	retreats        *repository.RetreatRepository
	reservations    *repository.ReservationRepository
	retreatBookings *repository.RetreatBookingRepository
}

func NewService(
	classes *repository.ClassRepository,
	retreats *repository.RetreatRepository,
	reservations *repository.ReservationRepository,
	retreatBookings *repository.RetreatBookingRepository,
) *Service {
	return &Service{
		classes:         classes,
		retreats:        retreats,
		reservations:    reservations,
		retreatBookings: retreatBookings,
	}
}

// ListClasses returns upcoming open classes with a live spots-remaining
// count. The count is advisory; booking re-checks it transactionally.
func (s *Service) ListClasses(ctx context.Context, limit, offset int) ([]ClassSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	classes, err := s.classes.ListUpcoming(ctx, time.Now(), limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]ClassSummary, 0, len(classes))
	for _, c := range classes {
		taken, err := s.reservations.CountConfirmedForClass(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, classSummary(&c, taken))
	}
	return out, nil
}

func (s *Service) GetClass(ctx context.Context, id int64) (*ClassSummary, error) {
	c, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.reservations.CountConfirmedForClass(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	summary := classSummary(c, taken)
	return &summary, nil
}

func (s *Service) ListRetreats(ctx context.Context) ([]RetreatSummary, error) {
	retreats, err := s.retreats.ListOpen(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	out := make([]RetreatSummary, 0, len(retreats))
	for _, r := range retreats {
		held, err := s.retreatBookings.CountHeldSpots(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, retreatSummary(&r, held))
	}
	return out, nil
}

func (s *Service) GetRetreat(ctx context.Context, id int64) (*RetreatSummary, error) {
	r, err := s.retreats.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	held, err := s.retreatBookings.CountHeldSpots(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	summary := retreatSummary(r, held)
	return &summary, nil
}

func classSummary(c *domain.ClassInstance, taken int64) ClassSummary {
	remaining := c.Capacity - int(taken)
	if remaining < 0 {
		remaining = 0
	}
	return ClassSummary{
		ID:             c.ID,
		Title:          c.Title,
		Instructor:     c.Instructor,
		StartTime:      c.StartTime,
		DurationM:      c.DurationM,
		Price:          c.Price,
		Currency:       c.Currency,
		Capacity:       c.Capacity,
		SpotsRemaining: remaining,
	}
}

func retreatSummary(r *domain.Retreat, held int64) RetreatSummary {
	remaining := r.Capacity - int(held)
	if remaining < 0 {
		remaining = 0
	}
	return RetreatSummary{
		ID:             r.ID,
		Title:          r.Title,
		Location:       r.Location,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		TotalPrice:     r.TotalPrice,
		DepositPrice:   r.DepositPrice,
		Currency:       r.Currency,
		Capacity:       r.Capacity,
		SpotsRemaining: remaining,
	}
}
