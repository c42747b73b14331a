package smc

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"smc-analyst/internal/models"
)

// bar builds a test bar from OHLC values.
func bar(open, high, low, close float64) models.Bar {
	return models.Bar{Open: open, High: high, Low: low, Close: close, Volume: 1000}
}

// flatBars returns n identical bars spanning [low, high].
func flatBars(n int, high, low float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = bar(low+0.3, high, low, low+0.7)
	}
	return bars
}

func TestLocateSwingsShortSeries(t *testing.T) {
	bars := flatBars(10, 101, 99)

	highs, lows := LocateSwings(bars, 5)
	if highs != nil || lows != nil {
		t.Errorf("expected no swings for 10 bars with lookback 5, got %d highs %d lows", len(highs), len(lows))
	}

	highs, lows = LocateSwings(bars, 0)
	if highs != nil || lows != nil {
		t.Error("expected no swings for non-positive lookback")
	}
}

func TestLocateSwingsFindsExtrema(t *testing.T) {
	// Single spike high at index 3 and dip low at index 7.
	bars := []models.Bar{
		bar(10, 10.5, 9.8, 10.2),
		bar(10, 10.4, 9.7, 10.1),
		bar(10, 10.6, 9.9, 10.3),
		bar(10, 12.0, 9.8, 10.4), // swing high
		bar(10, 10.3, 9.6, 10.0),
		bar(10, 10.2, 9.5, 9.9),
		bar(10, 10.1, 9.4, 9.8),
		bar(10, 10.0, 8.0, 9.7), // swing low
		bar(10, 10.3, 9.3, 9.9),
		bar(10, 10.4, 9.2, 10.0),
		bar(10, 10.5, 9.1, 10.1),
	}

	highs, lows := LocateSwings(bars, 3)

	if len(highs) != 1 || highs[0].Index != 3 || highs[0].Price != 12.0 {
		t.Errorf("expected one swing high at index 3 price 12.0, got %+v", highs)
	}
	if len(lows) != 1 || lows[0].Index != 7 || lows[0].Price != 8.0 {
		t.Errorf("expected one swing low at index 7 price 8.0, got %+v", lows)
	}
	if highs[0].Kind != models.SwingHigh || lows[0].Kind != models.SwingLow {
		t.Error("swing kinds not set")
	}
}

func TestLocateSwingsTiesQualify(t *testing.T) {
	// Flat series: every interior bar ties the window extreme on both sides.
	bars := flatBars(11, 101, 99)
	highs, lows := LocateSwings(bars, 5)

	if len(highs) != 1 || len(lows) != 1 {
		t.Fatalf("expected 1 interior tie on each side, got %d highs %d lows", len(highs), len(lows))
	}
	if highs[0].Index != 5 || lows[0].Index != 5 {
		t.Error("tie swing should land on the single interior bar")
	}
}

func TestLocateSwingsIndexBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("swing indices stay interior", prop.ForAll(
		func(prices []float64, lookback int) bool {
			bars := make([]models.Bar, len(prices))
			for i, p := range prices {
				bars[i] = bar(p, p+1, p-1, p+0.5)
			}
			highs, lows := LocateSwings(bars, lookback)
			for _, sp := range append(highs, lows...) {
				if sp.Index < lookback || sp.Index >= len(bars)-lookback {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(50, 150)),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}

func TestDetectOrderBlocksBearish(t *testing.T) {
	bars := []models.Bar{
		bar(10.0, 11.2, 9.8, 11.0), // bullish anchor
		bar(11.0, 11.1, 9.4, 9.5),  // displacement below 9.8, strength 0.3
		bar(9.5, 10.6, 9.4, 10.5),  // bullish anchor
		bar(10.4, 10.5, 8.9, 9.0),  // displacement below 9.4, strength 0.4
		bar(9.0, 9.5, 8.8, 9.2),
	}

	blocks := DetectOrderBlocks(bars, models.Bearish, 0)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 bearish blocks, got %d", len(blocks))
	}
	// Strongest first.
	if blocks[0].Index != 2 || blocks[1].Index != 0 {
		t.Errorf("expected indexes [2 0] by strength, got [%d %d]", blocks[0].Index, blocks[1].Index)
	}
	if blocks[0].Strength <= blocks[1].Strength {
		t.Error("blocks not sorted by descending strength")
	}
	if blocks[0].Top != 10.6 || blocks[0].Bottom != 9.4 {
		t.Errorf("block bounds should be the anchor candle range, got top %.2f bottom %.2f", blocks[0].Top, blocks[0].Bottom)
	}
}

func TestDetectOrderBlocksBullish(t *testing.T) {
	bars := []models.Bar{
		bar(11.0, 11.2, 9.8, 10.0), // bearish anchor
		bar(10.0, 12.0, 9.9, 11.8), // displacement above 11.2
		bar(11.8, 12.1, 11.5, 11.9),
	}

	blocks := DetectOrderBlocks(bars, models.Bullish, 0)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 bullish block, got %d", len(blocks))
	}
	if blocks[0].Index != 0 || blocks[0].Kind != models.Bullish {
		t.Errorf("unexpected block %+v", blocks[0])
	}
	if got := blocks[0].Strength; got != 11.8-11.2 {
		t.Errorf("strength = %.4f, want %.4f", got, 11.8-11.2)
	}
}

func TestDetectOrderBlocksCap(t *testing.T) {
	// Five qualifying pairs with increasing displacement.
	var bars []models.Bar
	for i := 0; i < 5; i++ {
		depth := 0.1 * float64(i+1)
		bars = append(bars,
			bar(10.0, 11.0, 9.8, 10.8),
			bar(10.8, 10.9, 9.8-depth-0.1, 9.8-depth),
		)
	}

	blocks := DetectOrderBlocks(bars, models.Bearish, 0)
	if len(blocks) != 3 {
		t.Fatalf("expected cap of 3 blocks, got %d", len(blocks))
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i].Strength > blocks[i-1].Strength {
			t.Error("retained blocks not in descending strength order")
		}
	}
	// The weakest two pairs should have been dropped.
	if blocks[len(blocks)-1].Strength < 0.29 {
		t.Errorf("cap kept a weak block: %.4f", blocks[len(blocks)-1].Strength)
	}
}

func TestDetectOrderBlocksEmpty(t *testing.T) {
	if got := DetectOrderBlocks(flatBars(20, 101, 99), models.Bearish, 5); got != nil {
		t.Errorf("flat series should yield no blocks, got %d", len(got))
	}
	if got := DetectOrderBlocks(nil, models.Bullish, 5); got != nil {
		t.Error("nil series should yield no blocks")
	}
}

func TestDetectFairValueGaps(t *testing.T) {
	bars := []models.Bar{
		bar(11.0, 11.5, 10.5, 11.2),
		bar(10.8, 11.0, 10.2, 10.4),
		bar(9.8, 10.0, 9.5, 9.7), // bearish gap: 10.5 > 10.0
	}

	gaps := DetectFairValueGaps(bars)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	g := gaps[0]
	if g.Kind != models.Bearish || g.Index != 2 {
		t.Errorf("unexpected gap %+v", g)
	}
	if g.Top != 10.5 || g.Bottom != 10.0 || g.Size != 0.5 {
		t.Errorf("gap bounds wrong: %+v", g)
	}
}

func TestDetectFairValueGapsBullish(t *testing.T) {
	bars := []models.Bar{
		bar(10.0, 10.2, 9.8, 10.1),
		bar(10.3, 10.8, 10.2, 10.7),
		bar(11.0, 11.5, 10.9, 11.3), // bullish gap: 10.2 < 10.9
	}

	gaps := DetectFairValueGaps(bars)
	if len(gaps) != 1 || gaps[0].Kind != models.Bullish {
		t.Fatalf("expected 1 bullish gap, got %+v", gaps)
	}
	if gaps[0].Top != 10.9 || gaps[0].Bottom != 10.2 {
		t.Errorf("gap bounds wrong: %+v", gaps[0])
	}
}

func TestDetectFairValueGapsCap(t *testing.T) {
	// Monotone staircase down: every third-bar comparison gaps.
	var bars []models.Bar
	for i := 0; i < 10; i++ {
		low := 100 - 3*float64(i)
		bars = append(bars, bar(low+0.5, low+1, low, low+0.5))
	}

	gaps := DetectFairValueGaps(bars)
	if len(gaps) != 5 {
		t.Fatalf("expected cap of 5 gaps, got %d", len(gaps))
	}
	// Most recent five in scan order, oldest first.
	for i, g := range gaps {
		if want := 5 + i; g.Index != want {
			t.Errorf("gap %d has index %d, want %d", i, g.Index, want)
		}
	}
}

func TestCalculateZoneClassification(t *testing.T) {
	tests := []struct {
		name     string
		close    float64
		zone     string
		position float64
	}{
		{"deep premium", 100.9, models.ZonePremium, 0.95},
		{"weak premium", 100.1, models.ZonePremiumWeak, 0.55},
		{"equilibrium", 99.9, models.ZoneEquilibrium, 0.45},
		{"discount", 99.2, models.ZoneDiscount, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// First bar pins the range to [99, 101]; the last bar sets the close.
			bars := []models.Bar{
				bar(100, 101, 99, 100),
				bar(tt.close, tt.close, tt.close, tt.close),
			}
			info := CalculateZone(bars)
			if info.Zone != tt.zone {
				t.Errorf("zone = %s, want %s", info.Zone, tt.zone)
			}
			if diff := info.Position - tt.position; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("position = %.4f, want %.4f", info.Position, tt.position)
			}
		})
	}
}

func TestCalculateZoneFlatRange(t *testing.T) {
	bars := []models.Bar{
		bar(100, 100, 100, 100),
		bar(100, 100, 100, 100),
	}
	info := CalculateZone(bars)
	if info.Position != 0.5 {
		t.Errorf("flat range position = %.4f, want 0.5", info.Position)
	}
	if info.Zone != models.ZoneEquilibrium {
		t.Errorf("flat range zone = %s, want %s", info.Zone, models.ZoneEquilibrium)
	}
}

func TestCalculateZoneEmpty(t *testing.T) {
	info := CalculateZone(nil)
	if info.Zone != models.ZoneEquilibrium || info.Position != 0.5 {
		t.Errorf("empty series should classify as equilibrium, got %+v", info)
	}
}

func TestCalculateZoneTrailingWindow(t *testing.T) {
	// 60 bars: the first ten carry an extreme high that must age out of
	// the 50-bar window.
	bars := make([]models.Bar, 60)
	for i := range bars {
		bars[i] = bar(100, 101, 99, 100)
	}
	bars[5] = bar(100, 200, 99, 100)

	info := CalculateZone(bars)
	if _, ok := info.Levels["1.0 (High)"]; !ok {
		t.Fatal("levels map missing range high")
	}
	if info.Levels["1.0 (High)"] != 101 {
		t.Errorf("range high = %.2f, the 200 spike should have aged out", info.Levels["1.0 (High)"])
	}
}

func TestCalculateZonePositionBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("position stays within [0, 1]", prop.ForAll(
		func(prices []float64) bool {
			if len(prices) == 0 {
				return true
			}
			bars := make([]models.Bar, len(prices))
			for i, p := range prices {
				bars[i] = bar(p, p+1, p-1, p)
			}
			pos := CalculateZone(bars).Position
			return pos >= 0 && pos <= 1
		},
		gen.SliceOf(gen.Float64Range(1, 1000)),
	))

	properties.TestingRun(t)
}

func TestDetectStructureShiftBearish(t *testing.T) {
	bars := []models.Bar{bar(7, 7.5, 6.4, 6.5)}
	lows := []models.SwingPoint{
		{Index: 2, Price: 6.0, Kind: models.SwingLow},
		{Index: 6, Price: 7.0, Kind: models.SwingLow},
	}

	shift := DetectStructureShift(bars, nil, lows)
	if shift == nil {
		t.Fatal("expected a bearish shift")
	}
	if shift.Type != models.MSSBearish || shift.BrokenLevel != 7.0 {
		t.Errorf("unexpected shift %+v", shift)
	}
}

func TestDetectStructureShiftBullish(t *testing.T) {
	bars := []models.Bar{bar(11, 11.3, 10.9, 11.2)}
	highs := []models.SwingPoint{
		{Index: 2, Price: 12.0, Kind: models.SwingHigh},
		{Index: 6, Price: 11.0, Kind: models.SwingHigh},
	}

	shift := DetectStructureShift(bars, highs, nil)
	if shift == nil {
		t.Fatal("expected a bullish shift")
	}
	if shift.Type != models.MSSBullish || shift.BrokenLevel != 11.0 {
		t.Errorf("unexpected shift %+v", shift)
	}
}

func TestDetectStructureShiftBearishPriority(t *testing.T) {
	// Both conditions hold: higher low broken below and lower high broken
	// above. The bearish report must win.
	bars := []models.Bar{bar(6.8, 6.9, 6.7, 6.8)}
	lows := []models.SwingPoint{
		{Price: 6.0}, {Price: 7.0}, // higher low, close 6.8 below it
	}
	highs := []models.SwingPoint{
		{Price: 8.0}, {Price: 6.5}, // lower high, close 6.8 above it
	}

	shift := DetectStructureShift(bars, highs, lows)
	if shift == nil || shift.Type != models.MSSBearish {
		t.Errorf("expected bearish shift to take priority, got %+v", shift)
	}
}

func TestDetectStructureShiftNone(t *testing.T) {
	if shift := DetectStructureShift(nil, nil, nil); shift != nil {
		t.Error("empty series should not shift")
	}

	bars := []models.Bar{bar(10, 10.5, 9.5, 10)}
	lows := []models.SwingPoint{{Price: 9.0}} // a single low is not a pattern
	if shift := DetectStructureShift(bars, nil, lows); shift != nil {
		t.Error("one swing low should not produce a shift")
	}

	// Higher low present but not broken.
	lows = []models.SwingPoint{{Price: 8.0}, {Price: 9.0}}
	if shift := DetectStructureShift(bars, nil, lows); shift != nil {
		t.Error("unbroken higher low should not produce a shift")
	}
}

func TestAnalyzeAllEmptyStructures(t *testing.T) {
	d := NewDetector(0)
	if d.SwingLookback != DefaultSwingLookback {
		t.Errorf("non-positive lookback should fall back to %d", DefaultSwingLookback)
	}

	snap := d.AnalyzeAll(flatBars(30, 101, 99))
	if snap == nil {
		t.Fatal("snapshot must never be nil")
	}
	if snap.BearishBlocks != nil || snap.BullishBlocks != nil {
		t.Error("flat series should yield no order blocks")
	}
	if len(snap.Gaps) != 0 {
		t.Error("flat series should yield no gaps")
	}
	if snap.Shift != nil {
		t.Error("flat series should yield no structure shift")
	}
	if snap.Zone.Zone == "" {
		t.Error("zone must always be classified")
	}
}
