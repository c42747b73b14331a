package indicators

import (
	"fmt"

	"smc-analyst/internal/models"
)

// SMA calculates the Simple Moving Average of closes.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Name() string {
	return fmt.Sprintf("SMA_%d", s.period)
}

func (s *SMA) Period() int {
	return s.period
}

func (s *SMA) Calculate(bars []models.Bar) ([]float64, error) {
	if s.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(bars) < s.period {
		return nil, ErrInsufficientData
	}

	n := len(bars)
	result := make([]float64, n)
	closes := closePrices(bars)

	for i := s.period - 1; i < n; i++ {
		result[i] = mean(closes[i-s.period+1 : i+1])
	}

	return result, nil
}

// Last returns the final SMA value for the series, or an error when the
// series is shorter than the period.
func (s *SMA) Last(bars []models.Bar) (float64, error) {
	values, err := s.Calculate(bars)
	if err != nil {
		return 0, err
	}
	return values[len(values)-1], nil
}
