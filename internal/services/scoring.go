package services

import "math"

// OverallBand computes an IELTS overall band from the four module bands:
// the mean rounded to the nearest half band, with .25 and .75 rounding up.
func OverallBand(listening, reading, writing, speaking float64) float64 {
	mean := (listening + reading + writing + speaking) / 4
	return math.Round(mean*2) / 2
}
