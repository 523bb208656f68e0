package strategy

import "SMASentinel/internal/model"

// DetectCrossover compares the short/long averages at the previous and current sample.
// A tie at the previous sample counts as "not yet crossed", so golden and death
// crosses can never both hold for one input.
func DetectCrossover(prevShort, prevLong, currShort, currLong float64) model.Crossover {
	switch {
	case prevShort <= prevLong && currShort > currLong:
		return model.CrossoverGolden
	case prevShort >= prevLong && currShort < currLong:
		return model.CrossoverDeath
	default:
		return model.CrossoverNone
	}
}

// ClassifyBias derives the trend bias from the long average's slope and where the
// last price sits relative to both averages.
// Long:  long rising  && price > short && short > long
// Short: long falling && price < short && short < long
func ClassifyBias(lastPrice float64, short, long model.SMAState) model.Bias {
	switch {
	case long.Rising() && lastPrice > short.Current && short.Current > long.Current:
		return model.BiasLong
	case long.Falling() && lastPrice < short.Current && short.Current < long.Current:
		return model.BiasShort
	default:
		return model.BiasNeutral
	}
}

// DetectPullback looks at the last three closes p2, p1, p0 against the short average.
//
// Bounce (long bias only): p2 above the average, p1 pulls back to within tolerance
// of it or below, and p0 closes back above it and above p1.
// Rejection (short bias only) is the mirror image.
func DetectPullback(prices []float64, sma, tolerance float64, bias model.Bias) model.Pullback {
	n := len(prices)
	if n < 3 {
		return model.PullbackNone
	}
	p2, p1, p0 := prices[n-3], prices[n-2], prices[n-1]

	switch bias {
	case model.BiasLong:
		touched := p1 < p2 && p1 <= sma*(1+tolerance)
		if p2 > sma && touched && p0 > sma && p0 > p1 {
			return model.PullbackBounce
		}
	case model.BiasShort:
		touched := p1 > p2 && p1 >= sma*(1-tolerance)
		if p2 < sma && touched && p0 < sma && p0 < p1 {
			return model.PullbackRejection
		}
	}
	return model.PullbackNone
}
