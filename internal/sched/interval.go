package sched

import (
	"github.com/me/goblocks/pkg/model"
)

// DefaultInterval is the sleep period, in seconds, used when no block
// declares a positive interval.
const DefaultInterval = 5

// ReconcileInterval computes the single sleep period, in seconds, that
// satisfies every block's individual period: the greatest common divisor of
// all block intervals. Blocks with a zero interval defer to the others
// (gcd(a, 0) = a). The result is always >= 1.
//
// This runs once at scheduler start; intervals are static configuration.
func ReconcileInterval(blocks []model.Block) int {
	period := 0
	for _, b := range blocks {
		period = gcd(period, b.Interval)
	}
	if period <= 0 {
		return DefaultInterval
	}
	return period
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
