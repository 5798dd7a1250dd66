package sdt

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution supplies the latent-evidence distribution family of the
// signal-detection model. CDF evaluates the cumulative distribution of a
// member with the given mean and standard deviation; Quantile inverts the
// CDF of the standard (mean 0, sd 1) member.
//
// Swapping in a non-Gaussian family changes the type 1 model without
// touching the likelihood or the solver.
type Distribution interface {
	CDF(x, mean, sd float64) float64
	Quantile(p float64) float64
}

// Gaussian is the default Distribution, backed by the normal distribution.
type Gaussian struct{}

// CDF computes the normal cumulative distribution function
func (Gaussian) CDF(x, mean, sd float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: sd}.CDF(x)
}

// Quantile computes the standard normal quantile (inverse CDF)
func (Gaussian) Quantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}
