// Package typeone provides the closed-form type 1 signal-detection
// collaborators: d' from a 2x2 outcome table and tabulation of trial-level
// records into rating response counts.
package typeone

import (
	"metad/domain/sdt"
)

// DPrime computes type 1 d' from hits, misses, false alarms and correct
// rejections. A hit rate or false-alarm rate of exactly 0 or 1 would push
// the quantile to infinity, so such rates are replaced by half-count
// adjusted values before inversion.
func DPrime(hits, misses, fas, crs float64) float64 {
	dist := sdt.Gaussian{}
	hitRate := AdjustedRate(hits, hits+misses)
	faRate := AdjustedRate(fas, fas+crs)
	return dist.Quantile(hitRate) - dist.Quantile(faRate)
}

// AdjustedRate returns count/total with the half-count correction applied
// at the floor and ceiling: 0 becomes 0.5/total and 1 becomes 1 - 0.5/total.
func AdjustedRate(count, total float64) float64 {
	rate := count / total
	half := 0.5 / total
	if rate >= 1 {
		return 1 - half
	}
	if rate <= 0 {
		return half
	}
	return rate
}
