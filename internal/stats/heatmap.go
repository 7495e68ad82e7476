package stats

import "math"

// Thresholds holds the five level boundaries of a heatmap.
type Thresholds [5]float64

// MinMax returns the smallest and largest value in data.
// Both are zero for an empty map.
func MinMax(data map[string]float64) (min, max float64) {
	if len(data) == 0 {
		return 0, 0
	}
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// NewThresholds spaces five thresholds evenly between min and max.
func NewThresholds(min, max float64) Thresholds {
	step := (max - min) / 5
	return Thresholds{
		min,
		min + step,
		min + step + step,
		max - step,
		max,
	}
}

// Level classifies v into 1..5. Only the exact maximum reaches level 5 and
// values at or below the second threshold stay at level 1; boundary
// values between levels fall back to 1 as well.
func Level(v float64, t Thresholds) int {
	switch {
	case t[1] < v && v < t[2]:
		return 2
	case t[2] < v && v < t[3]:
		return 3
	case t[3] < v && v < t[4]:
		return 4
	case v == t[4]:
		return 5
	default:
		return 1
	}
}

// Bucketize maps every day in data to its heatmap level.
func Bucketize(data map[string]float64) map[string]int {
	levels := make(map[string]int, len(data))
	if len(data) == 0 {
		return levels
	}
	t := NewThresholds(MinMax(data))
	for day, v := range data {
		levels[day] = Level(v, t)
	}
	return levels
}
