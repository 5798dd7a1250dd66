package typeone

import (
	"gonum.org/v1/gonum/floats"

	"metad/domain/core"
	"metad/domain/sdt"
)

// TabulateOptions control optional cell padding during tabulation. Padding
// every cell by a small constant keeps zero counts out of the likelihood.
type TabulateOptions struct {
	PadCells bool
	// PadAmount is the value added to every cell when PadCells is set.
	// Zero means the default of 1/(2*nRatings).
	PadAmount float64
}

// TrialsToCounts converts parallel per-trial records into the two
// response-count vectors, one per presented stimulus class.
//
// Any trial whose stimulus is not 0 or 1, whose response is not 0 or 1, or
// whose rating falls outside [1, nRatings] is dropped. Cell ordering within
// each vector is "S1" responses from rating nRatings down to 1 followed by
// "S2" responses from rating 1 up to nRatings.
func TrialsToCounts(stimID, response, rating []int, nRatings int, opts TabulateOptions) (sdt.ResponseCounts, error) {
	if len(stimID) != len(response) || len(stimID) != len(rating) {
		return sdt.ResponseCounts{}, core.NewValidationError("trials", "input vectors must have the same length")
	}
	if nRatings < 1 {
		return sdt.ResponseCounts{}, core.NewValidationError("nRatings", "must be at least 1")
	}

	nRS1 := make([]float64, 2*nRatings)
	nRS2 := make([]float64, 2*nRatings)

	for i := range stimID {
		s, rp, rt := stimID[i], response[i], rating[i]
		if (s != 0 && s != 1) || (rp != 0 && rp != 1) || rt < 1 || rt > nRatings {
			continue
		}
		var cell int
		if rp == 0 {
			cell = nRatings - rt
		} else {
			cell = nRatings + rt - 1
		}
		if s == 0 {
			nRS1[cell]++
		} else {
			nRS2[cell]++
		}
	}

	if opts.PadCells {
		pad := opts.PadAmount
		if pad == 0 {
			pad = 1 / float64(2*nRatings)
		}
		floats.AddConst(pad, nRS1)
		floats.AddConst(pad, nRS2)
	}

	return sdt.NewResponseCounts(nRS1, nRS2)
}
