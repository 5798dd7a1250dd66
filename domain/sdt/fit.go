package sdt

import (
	"metad/domain/core"
)

// WarningKind classifies fit diagnostics
type WarningKind string

const (
	// WarnZeroCells flags empty response cells in the input counts
	WarnZeroCells WarningKind = "zero_cells"
	// WarnNonConvergence flags a fit that exhausted its iteration budget
	WarnNonConvergence WarningKind = "non_convergence"
)

// Warning is a structured diagnostic attached to a FitResult rather than
// printed to the console.
type Warning struct {
	ID        core.ArtifactID `json:"id"`
	Kind      WarningKind     `json:"kind"`
	Message   string          `json:"message"`
	CreatedAt core.Timestamp  `json:"created_at"`
}

// NewWarning creates a warning artifact
func NewWarning(kind WarningKind, message string) Warning {
	return Warning{
		ID:        core.ArtifactID(core.NewID()),
		Kind:      kind,
		Message:   message,
		CreatedAt: core.Now(),
	}
}

// S1Units reports the fitted parameters in sd(S1) units, the scale the
// likelihood is maximized on.
type S1Units struct {
	D1      float64   `json:"d1"`
	MetaD1  float64   `json:"meta_d1"`
	S       float64   `json:"s"`
	MetaC1  float64   `json:"meta_c1"`
	T2C1RS1 []float64 `json:"t2c1_rs1"`
	T2C1RS2 []float64 `json:"t2c1_rs2"`
}

// FitResult is the terminal artifact of a meta-d' fit. Headline quantities
// are in root-mean-square units so they stay comparable when the variance
// ratio s differs from 1; S1Units carries the raw scale.
//
// INVARIANTS:
// - MRatio is NaN when DA == 0 (undefined, never Inf and never a panic)
// - the four observed/estimated rate pairs each have K-1 entries
// - Warnings is empty for a clean, converged fit on well-populated counts
type FitResult struct {
	DA     float64 `json:"da"`
	S      float64 `json:"s"`
	MetaDA float64 `json:"meta_da"`
	MDiff  float64 `json:"m_diff"`
	MRatio float64 `json:"m_ratio"`
	MetaCA float64 `json:"meta_ca"`

	T2CARS1 []float64 `json:"t2ca_rs1"`
	T2CARS2 []float64 `json:"t2ca_rs2"`

	S1Units S1Units `json:"s1_units"`

	LogL float64 `json:"logl"`

	EstHR2RS1  []float64 `json:"est_hr2_rs1"`
	ObsHR2RS1  []float64 `json:"obs_hr2_rs1"`
	EstFAR2RS1 []float64 `json:"est_far2_rs1"`
	ObsFAR2RS1 []float64 `json:"obs_far2_rs1"`

	EstHR2RS2  []float64 `json:"est_hr2_rs2"`
	ObsHR2RS2  []float64 `json:"obs_hr2_rs2"`
	EstFAR2RS2 []float64 `json:"est_far2_rs2"`
	ObsFAR2RS2 []float64 `json:"obs_far2_rs2"`

	Converged  bool `json:"converged"`
	Iterations int  `json:"iterations"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// HasWarning reports whether a warning of the given kind is attached.
func (r *FitResult) HasWarning(kind WarningKind) bool {
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
