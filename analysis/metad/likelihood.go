package metad

import (
	"math"

	"metad/domain/sdt"
)

// worstLogLikelihood replaces non-finite log-likelihoods so the solver
// treats degenerate regions as very poor rather than crashing on them.
const worstLogLikelihood = -1e300

// likelihoodInputs fixes everything the objective needs besides the
// candidate parameter vector. Values here never change during a fit, which
// keeps the objective pure and reentrant.
type likelihoodInputs struct {
	counts    sdt.ResponseCounts
	nRatings  int
	d1        float64
	t1c1      float64
	s         float64
	placement CriterionPlacement
	dist      sdt.Distribution
}

// binProbabilities computes the model-implied rating probabilities for a
// candidate parameter vector, one slice per (response side, correctness)
// branch. Probabilities within each branch are normalized by that branch's
// total area, so each slice sums to 1 for well-ordered criteria.
func binProbabilities(params []float64, in likelihoodInputs) (prCRS1, prIRS1, prCRS2, prIRS2 []float64) {
	metaD1 := params[0]
	t2c := params[1:]
	k := in.nRatings

	offset := in.placement.offset(metaD1, in.d1, in.t1c1)
	s1mu := -metaD1/2 - offset
	s2mu := metaD1/2 - offset
	s1sd := 1.0
	s2sd := 1.0 / in.s

	// Criterion array with the fixed type 1 criterion re-inserted at zero
	// and infinite sentinels delimiting the outermost bins.
	t1c := 0.0
	x := make([]float64, 0, 2*k+1)
	x = append(x, math.Inf(-1))
	x = append(x, t2c[:k-1]...)
	x = append(x, t1c)
	x = append(x, t2c[k-1:]...)
	x = append(x, math.Inf(1))

	cAreaRS1 := in.dist.CDF(t1c, s1mu, s1sd)
	iAreaRS1 := in.dist.CDF(t1c, s2mu, s2sd)
	cAreaRS2 := 1 - in.dist.CDF(t1c, s2mu, s2sd)
	iAreaRS2 := 1 - in.dist.CDF(t1c, s1mu, s1sd)

	prCRS1 = make([]float64, k)
	prIRS1 = make([]float64, k)
	prCRS2 = make([]float64, k)
	prIRS2 = make([]float64, k)
	for i := 0; i < k; i++ {
		prCRS1[i] = (in.dist.CDF(x[i+1], s1mu, s1sd) - in.dist.CDF(x[i], s1mu, s1sd)) / cAreaRS1
		prIRS1[i] = (in.dist.CDF(x[i+1], s2mu, s2sd) - in.dist.CDF(x[i], s2mu, s2sd)) / iAreaRS1
		prCRS2[i] = (in.dist.CDF(x[k+i+1], s2mu, s2sd) - in.dist.CDF(x[k+i], s2mu, s2sd)) / cAreaRS2
		prIRS2[i] = (in.dist.CDF(x[k+i+1], s1mu, s1sd) - in.dist.CDF(x[k+i], s1mu, s1sd)) / iAreaRS2
	}
	return prCRS1, prIRS1, prCRS2, prIRS2
}

// negLogLikelihood is the quantity the solver minimizes: the negative
// log-likelihood of the observed counts under the candidate parameters.
// Correct "S1" responses come from NRS1's low half, incorrect ones from
// NRS2's low half, and symmetrically for "S2" responses.
func negLogLikelihood(params []float64, in likelihoodInputs) float64 {
	prCRS1, prIRS1, prCRS2, prIRS2 := binProbabilities(params, in)
	k := in.nRatings

	logL := 0.0
	for i := 0; i < k; i++ {
		logL += in.counts.NRS1[i]*math.Log(prCRS1[i]) +
			in.counts.NRS2[i]*math.Log(prIRS1[i]) +
			in.counts.NRS2[k+i]*math.Log(prCRS2[i]) +
			in.counts.NRS1[k+i]*math.Log(prIRS2[i])
	}

	if math.IsInf(logL, 0) || math.IsNaN(logL) {
		logL = worstLogLikelihood
	}
	return -logL
}
