package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"smc-analyst/internal/models"
)

// LogisticModel holds the coefficients of a trained setup classifier.
// Training happens offline; only inference lives here. Features are
// standardized with the stored means and deviations before applying the
// weights.
type LogisticModel struct {
	Bias      float64            `json:"bias"`
	Weights   map[string]float64 `json:"weights"`
	Means     map[string]float64 `json:"means"`
	StdDevs   map[string]float64 `json:"std_devs"`
	TrainedAt string             `json:"trained_at"`
}

// Fitted reports whether the model carries usable coefficients.
func (m *LogisticModel) Fitted() bool {
	return m != nil && len(m.Weights) > 0
}

// ModelScorer scores setups with a learned logistic model, falling back
// to the rule-based scorer when the model cannot produce a prediction.
type ModelScorer struct {
	model    *LogisticModel
	fallback RuleScorer
}

// NewModelScorer loads a model artifact from disk.
func NewModelScorer(path string) (*ModelScorer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}

	var model LogisticModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("decoding model artifact: %w", err)
	}
	if !model.Fitted() {
		return nil, fmt.Errorf("model artifact %s has no weights", path)
	}

	return &ModelScorer{model: &model}, nil
}

func (m *ModelScorer) Name() string {
	return "logistic-model"
}

// Score predicts the success probability via the logistic model. Any
// degenerate state degrades to the rule-based score, never an error.
func (m *ModelScorer) Score(setup *models.TradeSetup, snap *models.SMCSnapshot) float64 {
	if !m.model.Fitted() {
		return m.fallback.Score(setup, snap)
	}

	features := extractFeatures(setup, snap)

	z := m.model.Bias
	for name, weight := range m.model.Weights {
		x, ok := features[name]
		if !ok {
			continue
		}
		if sd := m.model.StdDevs[name]; sd > 0 {
			x = (x - m.model.Means[name]) / sd
		}
		z += weight * x
	}

	if math.IsNaN(z) || math.IsInf(z, 0) {
		return m.fallback.Score(setup, snap)
	}

	return 100 / (1 + math.Exp(-z))
}

// extractFeatures builds the model's feature vector from the setup
// snapshot and structural facts.
func extractFeatures(setup *models.TradeSetup, snap *models.SMCSnapshot) map[string]float64 {
	features := map[string]float64{
		"trend_bearish":  boolFeature(setup.HTFTrend == models.TrendBearish),
		"trend_ranging":  boolFeature(setup.HTFTrend == models.TrendRanging),
		"has_liquidity":  boolFeature(setup.LiquidityEvent != ""),
		"rsi_divergence": boolFeature(setup.RSIDivergence),
		"large_wick":     boolFeature(setup.HasLargeWick),
		"atr_value":      setup.ATR,
		"vwap_distance":  setup.VWAPDistance,
		"zone_position":  setup.ZonePosition,
		"in_premium":     boolFeature(setup.Zone == models.ZonePremium || setup.Zone == models.ZonePremiumWeak),
		"bearish_ob":     float64(setup.BearishOBCount),
		"bullish_ob":     float64(setup.BullishOBCount),
		"fvg_count":      float64(setup.FVGCount),
		"bearish_mss":    boolFeature(setup.HasBearishMSS),
		"bullish_mss":    boolFeature(setup.HasBullishMSS),
	}
	if snap != nil {
		features["zone_position"] = snap.Zone.Position
	}
	return features
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
