// Package models provides domain models for the market analyst.
package models

import (
	"time"
)

// AssetClass groups instruments that share analysis settings.
type AssetClass string

const (
	AssetForex  AssetClass = "forex"
	AssetCrypto AssetClass = "crypto"
	AssetMetal  AssetClass = "metal"
	AssetIndex  AssetClass = "index"
)

// Direction represents the trade direction under evaluation.
type Direction string

const (
	DirectionShort Direction = "SHORT"
	DirectionLong  Direction = "LONG"
	DirectionBoth  Direction = "BOTH"
)

// Polarity marks a structural feature as bullish or bearish.
type Polarity string

const (
	Bullish Polarity = "bullish"
	Bearish Polarity = "bearish"
)

// Trend represents the higher-timeframe trend classification.
type Trend string

const (
	TrendBearish Trend = "Bearish"
	TrendBullish Trend = "Bullish"
	TrendRanging Trend = "Ranging"
)

// Bar represents one OHLCV candle with precomputed indicator columns.
// Leading RSI/ATR values are zero until their rolling windows fill;
// consumers must treat those as undefined rather than signals.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	RSI       float64
	ATR       float64
	VWAP      float64
}

// IsBullish reports whether the bar closed above its open.
func (b Bar) IsBullish() bool {
	return b.Close > b.Open
}

// IsBearish reports whether the bar closed below its open.
func (b Bar) IsBearish() bool {
	return b.Close < b.Open
}

// Body returns the absolute open-to-close distance.
func (b Bar) Body() float64 {
	if b.Close > b.Open {
		return b.Close - b.Open
	}
	return b.Open - b.Close
}

// UpperWick returns the distance from the body top to the high.
func (b Bar) UpperWick() float64 {
	top := b.Open
	if b.Close > top {
		top = b.Close
	}
	return b.High - top
}

// LowerWick returns the distance from the body bottom to the low.
func (b Bar) LowerWick() float64 {
	bottom := b.Open
	if b.Close < bottom {
		bottom = b.Close
	}
	return bottom - b.Low
}

// Range returns the high-to-low span of the bar.
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// SwingKind distinguishes swing highs from swing lows.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint represents a local price extremum over a symmetric window.
type SwingPoint struct {
	Index int
	Price float64
	Kind  SwingKind
}

// OrderBlock represents the last candle of one polarity before a
// displacement in the opposite direction.
type OrderBlock struct {
	Kind     Polarity
	Index    int
	Top      float64
	Bottom   float64
	Strength float64
}

// FairValueGap represents a three-bar price imbalance.
type FairValueGap struct {
	Kind   Polarity
	Index  int
	Top    float64
	Bottom float64
	Size   float64
}

// Zone labels for the premium/discount classification.
const (
	ZonePremium     = "Premium"
	ZonePremiumWeak = "Premium (Weak)"
	ZoneEquilibrium = "Equilibrium"
	ZoneDiscount    = "Discount"
)

// ZoneInfo classifies the current price within the trailing range using
// Fibonacci retracement levels.
type ZoneInfo struct {
	CurrentPrice float64
	Position     float64 // 0 = range low, 1 = range high
	Zone         string
	Strength     string
	Levels       map[string]float64 // ratio label -> absolute price
}

// Structure shift type labels.
const (
	MSSBearish = "Bearish MSS"
	MSSBullish = "Bullish MSS"
)

// StructureShift represents a market structure shift: a break of a recent
// higher low (bearish) or lower high (bullish).
type StructureShift struct {
	Type        string
	BrokenLevel float64
	Implication string
}

// SMCSnapshot aggregates all structural facts computed for one bar series.
type SMCSnapshot struct {
	BearishBlocks []OrderBlock
	BullishBlocks []OrderBlock
	Gaps          []FairValueGap
	Zone          ZoneInfo
	Shift         *StructureShift // nil when no shift detected
}

// Blocks returns the order blocks of the given polarity.
func (s *SMCSnapshot) Blocks(p Polarity) []OrderBlock {
	if p == Bullish {
		return s.BullishBlocks
	}
	return s.BearishBlocks
}

// HasShift reports whether a structure shift of the given type is present.
func (s *SMCSnapshot) HasShift(shiftType string) bool {
	return s.Shift != nil && s.Shift.Type == shiftType
}

// Instrument represents a configured tradable instrument.
type Instrument struct {
	Name        string
	YahooSymbol string
	AssetClass  AssetClass
	Enabled     bool
	Spread      float64 // typical spread in price units
}
