package indicators

import (
	"smc-analyst/internal/models"
)

// VWAP calculates the cumulative volume-weighted average price using the
// typical price (HLC/3) of each bar. Bars before any volume has printed
// carry a zero value.
type VWAP struct{}

// NewVWAP creates a new VWAP indicator.
func NewVWAP() *VWAP {
	return &VWAP{}
}

func (v *VWAP) Name() string {
	return "VWAP"
}

func (v *VWAP) Period() int {
	return 1
}

func (v *VWAP) Calculate(bars []models.Bar) ([]float64, error) {
	if len(bars) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(bars)
	result := make([]float64, n)

	var cumPV, cumVol float64
	for i := 0; i < n; i++ {
		vol := float64(bars[i].Volume)
		cumPV += typicalPrice(bars[i]) * vol
		cumVol += vol
		if cumVol > 0 {
			result[i] = cumPV / cumVol
		}
	}

	return result, nil
}
