// Package rating converts between DMOJ difficulty and Codeforces rating.
//
// The two scales are related by the empirical fit
//
//	cf = 570 * dmoj^0.329 * log10(dmoj)
//
// which has no closed-form inverse, so the reverse direction is solved
// numerically.
package rating

import "math"

const (
	// bracket for the numeric inversion; ratings that would imply a
	// difficulty above maxDifficulty saturate at it
	minDifficulty = 1.0
	maxDifficulty = 100.0

	maxIterations = 100
	tolerance     = 0.1
)

// curve evaluates the difficulty-to-rating fit at d > 0
func curve(d float64) float64 {
	return 570 * math.Pow(d, 0.329) * math.Log10(d)
}

// DifficultyToRating converts a DMOJ difficulty to a Codeforces rating,
// rounded to the nearest multiple of 25. Non-positive input maps to 0.
func DifficultyToRating(difficulty int) int {
	if difficulty <= 0 {
		return 0
	}
	cf := curve(float64(difficulty))
	return int(math.Round(cf/25)) * 25
}

// RatingToDifficulty converts a Codeforces rating back to a DMOJ difficulty
// by bisecting the rating curve. Non-positive input maps to 0; ratings above
// the curve's value at difficulty 100 saturate at 100.
func RatingToDifficulty(cf int) int {
	if cf <= 0 {
		return 0
	}

	target := float64(cf)
	low, high := minDifficulty, maxDifficulty
	best := minDifficulty

	for i := 0; i < maxIterations; i++ {
		mid := (low + high) / 2
		got := curve(mid)

		if math.Abs(got-target) < tolerance {
			best = mid
			break
		}
		if got < target {
			low = mid
			best = mid
		} else {
			high = mid
		}
	}

	return int(math.Round(best))
}
