// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps raw signal values onto bounded 0-100 scores.
// Every function is pure.
package normalize

import "math"

const (
	// MaxScore and MinScore bound every facet.
	MaxScore = 100
	MinScore = 0

	// RecencyFloor is the lowest recency score; old work stays non-zero.
	RecencyFloor = 10

	// RecencyDecayPerYear is subtracted from MaxScore per year of age.
	RecencyDecayPerYear = 5

	// OpenAccessBonus and ClosedAccessScore are the two open-access outcomes.
	OpenAccessBonus   = 100
	ClosedAccessScore = 30
)

// ScaleLogarithmic maps value onto [0, 100] by the ratio log(1+value) /
// log(1+capValue), truncated toward zero. Values at or above capValue score
// 100; non-positive values score 0. capValue must be positive; a
// non-positive cap scores everything 0.
func ScaleLogarithmic(value, capValue int) int {
	if value <= 0 || capValue <= 0 {
		return MinScore
	}
	if value >= capValue {
		return MaxScore
	}
	ratio := math.Log10(1+float64(value)) / math.Log10(1+float64(capValue))
	return Clamp(int(math.Floor(MaxScore * ratio)))
}

// RecencyScore decays linearly from 100 by five points per year since
// publication, never dropping below RecencyFloor. Future years score 100.
func RecencyScore(publicationYear, currentYear int) int {
	yearsAgo := currentYear - publicationYear
	if yearsAgo < 0 {
		yearsAgo = 0
	}
	return max(RecencyFloor, MaxScore-RecencyDecayPerYear*yearsAgo)
}

// OpenAccessScore is a fixed bonus for open access, not a magnitude.
func OpenAccessScore(isOpenAccess bool) int {
	if isOpenAccess {
		return OpenAccessBonus
	}
	return ClosedAccessScore
}

// Clamp bounds score to [MinScore, MaxScore].
func Clamp(score int) int {
	return min(MaxScore, max(MinScore, score))
}
