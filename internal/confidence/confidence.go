// Package confidence turns per-field extraction confidences into the aggregate figures
// the review queue is built on.
package confidence

import (
	"sort"
)

const (
	// BatchLaneThreshold is the average confidence at or above which a preview joins
	// the high-confidence lane.
	BatchLaneThreshold = 0.85
	// DirectApproveThreshold marks previews that can be approved without inspection.
	DirectApproveThreshold = 0.95
	// ReviewThreshold flags single fields a reviewer should look at.
	ReviewThreshold = 0.7

	highBandThreshold   = 0.8
	mediumBandThreshold = 0.6

	epsilon = 1e-9
)

type Band string

const (
	BandHigh   Band = "Alta"
	BandMedium Band = "Média"
	BandLow    Band = "Baixa"
)

// Normalize maps a confidence to [0,1]. The classifier reports percentages for some
// fields and fractions for others; anything above 1 is read as a percentage.
func Normalize(v float64) float64 {
	if v > 1 {
		v = v / 100
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NormalizeScores returns a copy of scores with every value normalized.
func NormalizeScores(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for k, v := range scores {
		out[k] = Normalize(v)
	}
	return out
}

// Average is the mean of the normalized scores, 0 for an empty map.
func Average(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range scores {
		sum += Normalize(v)
	}
	return sum / float64(len(scores))
}

// AtLeast compares with a small tolerance so that 0.9 and 0.8 average to exactly
// the 0.85 batch threshold.
func AtLeast(v, threshold float64) bool {
	return v+epsilon >= threshold
}

func Classify(avg float64) Band {
	switch {
	case AtLeast(avg, highBandThreshold):
		return BandHigh
	case AtLeast(avg, mediumBandThreshold):
		return BandMedium
	default:
		return BandLow
	}
}

func IsHighConfidence(avg float64) bool {
	return AtLeast(avg, BatchLaneThreshold)
}

func CanDirectApprove(avg float64) bool {
	return AtLeast(avg, DirectApproveThreshold)
}

// FieldsNeedingReview lists, sorted, the fields whose confidence is below ReviewThreshold.
func FieldsNeedingReview(scores map[string]float64) []string {
	fields := []string{}
	for k, v := range scores {
		if !AtLeast(Normalize(v), ReviewThreshold) {
			fields = append(fields, k)
		}
	}
	sort.Strings(fields)
	return fields
}

// CountAtLeast counts the fields whose normalized confidence reaches threshold.
func CountAtLeast(scores map[string]float64, threshold float64) int {
	n := 0
	for _, v := range scores {
		if AtLeast(Normalize(v), threshold) {
			n++
		}
	}
	return n
}
