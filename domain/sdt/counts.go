package sdt

import (
	"github.com/montanaflynn/stats"

	"metad/domain/core"
)

// ResponseCounts holds the two response-count vectors of a binary
// discrimination experiment with confidence ratings.
//
// Each vector has 2K entries for K rating levels, ordered as: "S1" responses
// from rating K down to 1, then "S2" responses from rating 1 up to K. NRS1
// counts trials on which stimulus S1 was presented, NRS2 trials on which S2
// was presented.
//
// INVARIANTS:
// - len(NRS1) == len(NRS2), even, and > 0
// - every cell >= 0
// - zero cells are tolerated but degrade estimation (see ZeroCells)
type ResponseCounts struct {
	NRS1 []float64 `json:"n_r_s1"`
	NRS2 []float64 `json:"n_r_s2"`
}

// NewResponseCounts validates and copies the two count vectors.
func NewResponseCounts(nRS1, nRS2 []float64) (ResponseCounts, error) {
	c := ResponseCounts{
		NRS1: append([]float64(nil), nRS1...),
		NRS2: append([]float64(nil), nRS2...),
	}
	if err := c.Validate(); err != nil {
		return ResponseCounts{}, err
	}
	return c, nil
}

// Validate checks the structural invariants of the count vectors.
func (c ResponseCounts) Validate() error {
	if len(c.NRS1) == 0 && len(c.NRS2) == 0 {
		return core.ErrEmptyCounts
	}
	if len(c.NRS1) != len(c.NRS2) {
		return core.ErrLengthMismatch
	}
	if len(c.NRS1)%2 != 0 {
		return core.ErrOddLength
	}
	for i, v := range c.NRS1 {
		if v < 0 {
			return core.NewCellError("nR_S1", i, v)
		}
	}
	for i, v := range c.NRS2 {
		if v < 0 {
			return core.NewCellError("nR_S2", i, v)
		}
	}
	return nil
}

// NumRatings returns K, the number of confidence levels.
func (c ResponseCounts) NumRatings() int {
	return len(c.NRS1) / 2
}

// Totals returns the trial totals per stimulus class.
func (c ResponseCounts) Totals() (nS1, nS2 float64) {
	nS1, _ = stats.Sum(c.NRS1)
	nS2, _ = stats.Sum(c.NRS2)
	return nS1, nS2
}

// HasZeroCells reports whether any response cell is empty.
func (c ResponseCounts) HasZeroCells() bool {
	for _, v := range c.NRS1 {
		if v == 0 {
			return true
		}
	}
	for _, v := range c.NRS2 {
		if v == 0 {
			return true
		}
	}
	return false
}

// Fingerprint returns a stable hash of the count vectors.
func (c ResponseCounts) Fingerprint() core.DatasetHash {
	return core.ComputeDatasetHash(c.NRS1, c.NRS2)
}
