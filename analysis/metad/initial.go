package metad

import (
	"github.com/montanaflynn/stats"

	"metad/analysis/typeone"
	"metad/domain/sdt"
)

// typeOneEstimate carries the closed-form type 1 quantities the fit is
// anchored on: d', the type 1 criterion, and the symmetric criteria at the
// 2K-2 non-boundary rating splits.
type typeOneEstimate struct {
	d1   float64
	t1c1 float64
	t2c1 []float64
}

// initialEstimate derives starting values from the cumulative
// "confidence >= split" hit and false-alarm rates. Rates of exactly 0 or 1
// get the half-count correction before inversion, mirroring the safeguard
// inside the likelihood.
func initialEstimate(counts sdt.ResponseCounts, s float64, dist sdt.Distribution) typeOneEstimate {
	k := counts.NumRatings()
	nS1, nS2 := counts.Totals()

	nSplits := 2*k - 1
	ratingHR := make([]float64, nSplits)
	ratingFAR := make([]float64, nSplits)
	for c := 1; c <= nSplits; c++ {
		hits, _ := stats.Sum(counts.NRS2[c:])
		fas, _ := stats.Sum(counts.NRS1[c:])
		ratingHR[c-1] = typeone.AdjustedRate(hits, nS2)
		ratingFAR[c-1] = typeone.AdjustedRate(fas, nS1)
	}

	t1 := k - 1
	d1 := (1/s)*dist.Quantile(ratingHR[t1]) - dist.Quantile(ratingFAR[t1])

	est := typeOneEstimate{d1: d1, t2c1: make([]float64, 0, nSplits-1)}
	for i := 0; i < nSplits; i++ {
		c := (-1 / (1 + s)) * (dist.Quantile(ratingHR[i]) + dist.Quantile(ratingFAR[i]))
		if i == t1 {
			est.t1c1 = c
		} else {
			est.t2c1 = append(est.t2c1, c)
		}
	}
	return est
}

// CriterionPlacement selects how the meta-level type 1 criterion is
// positioned given the fitted meta-d'.
type CriterionPlacement int

const (
	// RelativeCriterion keeps the meta criterion at the same relative
	// position c/d' the type 1 fit found.
	RelativeCriterion CriterionPlacement = iota
)

// offset is the constant-criterion term subtracted from every criterion so
// that the type 1 criterion sits at zero during optimization.
func (p CriterionPlacement) offset(metaD1, d1, t1c1 float64) float64 {
	switch p {
	case RelativeCriterion:
		if d1 == 0 {
			// c/d' is undefined at zero sensitivity; the criterion is
			// left where it is.
			return 0
		}
		return metaD1 * (t1c1 / d1)
	default:
		return 0
	}
}
