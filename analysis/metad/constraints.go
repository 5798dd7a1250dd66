package metad

import (
	"gonum.org/v1/gonum/mat"
)

// orderingMargin keeps adjacent criteria strictly separated so no rating
// bin's probability mass can collapse to zero.
const orderingMargin = 1e-5

// metaDBound and criterionBound are the box limits on the parameter vector.
const (
	metaDBound     = 10.0
	criterionBound = 20.0
)

// buildConstraints produces the linear ordering rows and box bounds for a
// parameter vector [meta-d', c_1 .. c_{2K-2}].
//
// Each row encodes c_i - c_{i+1} <= -orderingMargin across all adjacent
// fitted criteria, including the pair straddling the type 1 criterion.
// Criteria below the (re-centered) type 1 boundary live in [-20, 0],
// criteria above in [0, 20], so the signed split at zero bounds the two
// halves independently.
func buildConstraints(nRatings int) (a *mat.Dense, b []float64, lower, upper []float64) {
	nCriteria := 2*nRatings - 1
	nParams := nCriteria

	nRows := nCriteria - 2
	if nRows > 0 {
		data := make([]float64, nRows*nParams)
		b = make([]float64, nRows)
		for i := 0; i < nRows; i++ {
			data[i*nParams+i+1] = 1
			data[i*nParams+i+2] = -1
			b[i] = -orderingMargin
		}
		a = mat.NewDense(nRows, nParams, data)
	}

	half := (nCriteria - 1) / 2
	lower = make([]float64, nParams)
	upper = make([]float64, nParams)
	lower[0], upper[0] = -metaDBound, metaDBound
	for i := 0; i < half; i++ {
		lower[1+i], upper[1+i] = -criterionBound, 0
	}
	for i := 0; i < half; i++ {
		lower[1+half+i], upper[1+half+i] = 0, criterionBound
	}
	return a, b, lower, upper
}
