package helpers

import "math"

// RoundTo rounds v half away from zero to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Mean returns sum/count rounded to two places, or 0 when count is zero.
func Mean(sum float64, count int64) float64 {
	if count == 0 {
		return 0
	}
	return RoundTo(sum/float64(count), 2)
}
