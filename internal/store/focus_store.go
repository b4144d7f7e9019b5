package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/focusboard/internal/model"
)

// AddFocusTime adds hours to the accumulated focus time of day.
func (s *Store) AddFocusTime(ctx context.Context, day model.Date, hours float64) error {
	acc, err := s.GetFocusTime(ctx)
	if err != nil {
		return err
	}

	acc[day.String()] += hours
	if err := saveObject(ctx, s, KeyFocusTime, acc); err != nil {
		return fmt.Errorf("saving focus time: %w", err)
	}

	s.logger.Debug("focus time recorded",
		zap.String("day", day.String()),
		zap.Float64("hours", hours),
		zap.Float64("total", acc[day.String()]),
	)
	return nil
}

// GetFocusTime returns the date-keyed (YYYY-MM-DD) focus hours map.
func (s *Store) GetFocusTime(ctx context.Context) (map[string]float64, error) {
	acc := make(map[string]float64)
	if _, err := loadObject(ctx, s, KeyFocusTime, &acc); err != nil {
		return make(map[string]float64), err
	}
	return acc, nil
}

// FocusHoursOn returns the focus hours accumulated on day.
func (s *Store) FocusHoursOn(ctx context.Context, day model.Date) (float64, error) {
	acc, err := s.GetFocusTime(ctx)
	if err != nil {
		return 0, err
	}
	return acc[day.String()], nil
}
