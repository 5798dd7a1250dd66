package metad

import (
	"math"

	"metad/domain/sdt"
	"metad/internal/solver"
)

// packageFit converts the optimized parameter vector into the terminal
// FitResult: RMS-unit effect sizes, recovered meta-level criteria, and the
// observed vs. model-estimated type 2 rates. Pure function of its inputs.
func packageFit(counts sdt.ResponseCounts, estimate typeOneEstimate, res solver.Result, inputs likelihoodInputs, cfg config) *sdt.FitResult {
	k := counts.NumRatings()
	s := cfg.s
	metaD1 := res.X[0]
	offset := cfg.placement.offset(metaD1, estimate.d1, estimate.t1c1)

	// Recover criteria on the original scale by undoing the re-centering.
	t2c1 := make([]float64, len(res.X)-1)
	for i, v := range res.X[1:] {
		t2c1[i] = v + offset
	}

	// The penalty-free likelihood at the solution.
	logL := -negLogLikelihood(res.X, inputs)

	// Observed type 2 rates. Per response side, correct and incorrect
	// trial counts indexed by rating 1..K.
	iNRRS2 := counts.NRS1[k:]
	cNRRS2 := counts.NRS2[k:]
	iNRRS1 := reversed(counts.NRS2[:k])
	cNRRS1 := reversed(counts.NRS1[:k])

	obsFAR2RS2 := tailRates(iNRRS2)
	obsHR2RS2 := tailRates(cNRRS2)
	obsFAR2RS1 := tailRates(iNRRS1)
	obsHR2RS1 := tailRates(cNRRS1)

	// Model-estimated type 2 rates at the fitted criteria.
	s1mu := -metaD1 / 2
	s1sd := 1.0
	s2mu := metaD1 / 2
	s2sd := s1sd / s
	mt1c1 := offset
	dist := cfg.dist

	cAreaRS2 := 1 - dist.CDF(mt1c1, s2mu, s2sd)
	iAreaRS2 := 1 - dist.CDF(mt1c1, s1mu, s1sd)
	cAreaRS1 := dist.CDF(mt1c1, s1mu, s1sd)
	iAreaRS1 := dist.CDF(mt1c1, s2mu, s2sd)

	estFAR2RS2 := make([]float64, k-1)
	estHR2RS2 := make([]float64, k-1)
	estFAR2RS1 := make([]float64, k-1)
	estHR2RS1 := make([]float64, k-1)
	for i := 0; i < k-1; i++ {
		lower := t2c1[(k-1)-(i+1)]
		upper := t2c1[(k-1)+i]

		estFAR2RS2[i] = (1 - dist.CDF(upper, s1mu, s1sd)) / iAreaRS2
		estHR2RS2[i] = (1 - dist.CDF(upper, s2mu, s2sd)) / cAreaRS2
		estFAR2RS1[i] = dist.CDF(lower, s2mu, s2sd) / iAreaRS1
		estHR2RS1[i] = dist.CDF(lower, s1mu, s1sd) / cAreaRS1
	}

	// RMS-unit conversions.
	rms := math.Sqrt(2/(1+s*s)) * s
	da := rms * estimate.d1
	metaDA := rms * metaD1

	mRatio := math.NaN()
	if da != 0 {
		mRatio = metaDA / da
	}

	t2ca := make([]float64, len(t2c1))
	for i, v := range t2c1 {
		t2ca[i] = rms * v
	}

	return &sdt.FitResult{
		DA:     da,
		S:      s,
		MetaDA: metaDA,
		MDiff:  metaDA - da,
		MRatio: mRatio,
		MetaCA: rms * mt1c1,

		T2CARS1: t2ca[:k-1],
		T2CARS2: t2ca[k-1:],

		S1Units: sdt.S1Units{
			D1:      estimate.d1,
			MetaD1:  metaD1,
			S:       s,
			MetaC1:  mt1c1,
			T2C1RS1: t2c1[:k-1],
			T2C1RS2: t2c1[k-1:],
		},

		LogL: logL,

		EstHR2RS1:  estHR2RS1,
		ObsHR2RS1:  obsHR2RS1,
		EstFAR2RS1: estFAR2RS1,
		ObsFAR2RS1: obsFAR2RS1,

		EstHR2RS2:  estHR2RS2,
		ObsHR2RS2:  obsHR2RS2,
		EstFAR2RS2: estFAR2RS2,
		ObsFAR2RS2: obsFAR2RS2,

		Converged:  res.Converged,
		Iterations: res.Iterations,
	}
}

// tailRates returns, for each split i = 1..len-1, the fraction of trials
// rated strictly above split i.
func tailRates(byRating []float64) []float64 {
	k := len(byRating)
	var total float64
	for _, v := range byRating {
		total += v
	}
	rates := make([]float64, k-1)
	tail := total
	for i := 0; i < k-1; i++ {
		tail -= byRating[i]
		rates[i] = tail / total
	}
	return rates
}

func reversed(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}
	return out
}
