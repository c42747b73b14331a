package smc

import (
	"sort"

	"smc-analyst/internal/models"
)

// maxOrderBlocks caps how many blocks are retained per polarity.
const maxOrderBlocks = 3

// DetectOrderBlocks scans for order blocks of the given polarity.
//
// A bearish block is a bullish candle whose successor closes below its
// low and is itself bearish; a bullish block is the mirror. Strength is
// the displacement magnitude past the anchor candle's extreme. The scan
// covers [lookback, len-2] and the result holds at most three blocks,
// strongest first; equal strengths keep scan order (stable sort).
func DetectOrderBlocks(bars []models.Bar, kind models.Polarity, lookback int) []models.OrderBlock {
	if lookback < 0 {
		lookback = 0
	}

	var blocks []models.OrderBlock
	for i := lookback; i < len(bars)-1; i++ {
		current := bars[i]
		next := bars[i+1]

		switch kind {
		case models.Bearish:
			// Bullish candle followed by a strong bearish move through its low.
			if current.IsBullish() && next.Close < current.Low && next.IsBearish() {
				blocks = append(blocks, models.OrderBlock{
					Kind:     models.Bearish,
					Index:    i,
					Top:      current.High,
					Bottom:   current.Low,
					Strength: current.Low - next.Close,
				})
			}
		case models.Bullish:
			// Bearish candle followed by a strong bullish move through its high.
			if current.IsBearish() && next.Close > current.High && next.IsBullish() {
				blocks = append(blocks, models.OrderBlock{
					Kind:     models.Bullish,
					Index:    i,
					Top:      current.High,
					Bottom:   current.Low,
					Strength: next.Close - current.High,
				})
			}
		}
	}

	if len(blocks) == 0 {
		return nil
	}

	sort.SliceStable(blocks, func(a, b int) bool {
		return blocks[a].Strength > blocks[b].Strength
	})
	if len(blocks) > maxOrderBlocks {
		blocks = blocks[:maxOrderBlocks]
	}
	return blocks
}
