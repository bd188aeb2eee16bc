package service

import "math"

// round rounds a monetary value to two decimal places.
func round(value float64) float64 {
	return math.Round(value*100) / 100
}
