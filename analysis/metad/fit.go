// Package metad estimates meta-d', the metacognitive sensitivity implied
// by confidence ratings, by constrained maximum-likelihood fit of a type 2
// signal-detection model to a pair of response-count vectors.
package metad

import (
	"fmt"

	"metad/domain/sdt"
	"metad/internal/solver"
)

type config struct {
	s         float64
	dist      sdt.Distribution
	placement CriterionPlacement
	settings  solver.Settings
}

// Option customizes a fit.
type Option func(*config)

// WithVarianceRatio sets s, the ratio sd(S1)/sd(S2) of the two latent
// distributions. The default is 1.
func WithVarianceRatio(s float64) Option {
	return func(c *config) { c.s = s }
}

// WithDistribution swaps the latent distribution family. The default is
// the standard normal pair.
func WithDistribution(d sdt.Distribution) Option {
	return func(c *config) { c.dist = d }
}

// WithSolverSettings overrides the solver tuning, e.g. to cap iterations.
func WithSolverSettings(s solver.Settings) Option {
	return func(c *config) { c.settings = s }
}

// Fit estimates meta-d' from the response counts and packages the full
// set of derived type 2 quantities.
//
// Zero response cells and a non-converged solve are surfaced as warnings
// on the result, not as errors: the best-found parameter vector is always
// packaged, and callers can treat LogL and the Converged flag as
// convergence signals.
func Fit(counts sdt.ResponseCounts, opts ...Option) (*sdt.FitResult, error) {
	if err := counts.Validate(); err != nil {
		return nil, err
	}

	cfg := config{
		s:         1,
		dist:      sdt.Gaussian{},
		placement: RelativeCriterion,
		settings:  solver.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var warnings []sdt.Warning
	if counts.HasZeroCells() {
		warnings = append(warnings, sdt.NewWarning(sdt.WarnZeroCells,
			"response counts contain zeros; meta-d' estimation may be degraded"))
	}

	estimate := initialEstimate(counts, cfg.s, cfg.dist)
	k := counts.NumRatings()

	guess := make([]float64, 0, 2*k-1)
	guess = append(guess, estimate.d1)
	offset := cfg.placement.offset(estimate.d1, estimate.d1, estimate.t1c1)
	for _, c := range estimate.t2c1 {
		guess = append(guess, c-offset)
	}

	a, b, lower, upper := buildConstraints(k)
	inputs := likelihoodInputs{
		counts:    counts,
		nRatings:  k,
		d1:        estimate.d1,
		t1c1:      estimate.t1c1,
		s:         cfg.s,
		placement: cfg.placement,
		dist:      cfg.dist,
	}
	problem := solver.Problem{
		Objective: func(x []float64) float64 { return negLogLikelihood(x, inputs) },
		Lower:     lower,
		Upper:     upper,
		A:         a,
		B:         b,
	}

	res, err := solver.Minimize(problem, guess, cfg.settings)
	if err != nil {
		return nil, fmt.Errorf("meta-d' optimization failed: %w", err)
	}
	if !res.Converged {
		warnings = append(warnings, sdt.NewWarning(sdt.WarnNonConvergence,
			fmt.Sprintf("solver stopped after %d iterations without meeting tolerances", res.Iterations)))
	}

	result := packageFit(counts, estimate, res, inputs, cfg)
	result.Warnings = warnings
	return result, nil
}
