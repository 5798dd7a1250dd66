// Package solver implements a trust-region quasi-Newton minimizer for
// smooth objectives subject to box bounds and linear inequality
// constraints A*x <= b.
//
// Gradients are approximated by forward differences and curvature by a
// symmetric rank-one update, so the objective only ever needs function
// values. Box bounds are enforced by projecting trial points; inequality
// rows are folded into the objective as a quadratic penalty, which is
// exact to solver tolerance whenever the constraints are inactive at the
// minimizer.
package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"metad/domain/core"
)

// Problem defines the minimization.
type Problem struct {
	// Objective must be pure and total: finite output for every input the
	// solver can propose (callers substitute a large finite penalty for
	// non-finite values).
	Objective func(x []float64) float64

	// Lower and Upper are elementwise box bounds. Nil means unbounded.
	Lower, Upper []float64

	// A and B define linear inequality rows A*x <= B. Nil means none.
	A *mat.Dense
	B []float64
}

// Settings tune the search.
type Settings struct {
	MaxIterations       int
	StepTolerance       float64
	ConstraintTolerance float64
	GradientStep        float64
	InitialRadius       float64
	PenaltyWeight       float64
}

// DefaultSettings returns the tuning used throughout the module.
func DefaultSettings() Settings {
	return Settings{
		MaxIterations:       500,
		StepTolerance:       1e-9,
		ConstraintTolerance: 1e-6,
		GradientStep:        1e-6,
		InitialRadius:       1.0,
		PenaltyWeight:       1e6,
	}
}

// Result reports the best point found. A non-converged result is still
// usable; Converged just records whether tolerances were met before the
// iteration budget ran out.
type Result struct {
	X          []float64
	F          float64
	Iterations int
	Converged  bool
}

// Minimize runs the trust-region search from x0.
func Minimize(p Problem, x0 []float64, s Settings) (Result, error) {
	if p.Objective == nil {
		return Result{}, core.NewValidationError("problem", "objective is nil")
	}
	n := len(x0)
	if n == 0 {
		return Result{}, core.NewValidationError("problem", "empty start point")
	}
	if p.Lower != nil && len(p.Lower) != n {
		return Result{}, core.ErrBadProblem
	}
	if p.Upper != nil && len(p.Upper) != n {
		return Result{}, core.ErrBadProblem
	}
	if p.A != nil {
		r, c := p.A.Dims()
		if c != n || len(p.B) != r {
			return Result{}, core.ErrBadProblem
		}
	}
	def := DefaultSettings()
	if s.MaxIterations <= 0 {
		s.MaxIterations = def.MaxIterations
	}
	if s.StepTolerance <= 0 {
		s.StepTolerance = def.StepTolerance
	}
	if s.ConstraintTolerance <= 0 {
		s.ConstraintTolerance = def.ConstraintTolerance
	}
	if s.GradientStep <= 0 {
		s.GradientStep = def.GradientStep
	}
	if s.InitialRadius <= 0 {
		s.InitialRadius = def.InitialRadius
	}
	if s.PenaltyWeight <= 0 {
		s.PenaltyWeight = def.PenaltyWeight
	}

	phi := func(x []float64) float64 {
		v := p.Objective(x)
		if pen := penalty(p, x); pen > 0 {
			v += s.PenaltyWeight * pen
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = math.MaxFloat64
		}
		return v
	}

	x := make([]float64, n)
	copy(x, x0)
	project(p, x)

	fx := phi(x)
	g := gradient(phi, x, s.GradientStep)
	hess := identity(n)

	radius := s.InitialRadius
	converged := false
	iterations := 0

	step := make([]float64, n)
	trial := make([]float64, n)

	for iterations = 1; iterations <= s.MaxIterations; iterations++ {
		subproblemStep(step, hess, g, radius)

		floats.AddTo(trial, x, step)
		project(p, trial)
		floats.SubTo(step, trial, x)

		stepNorm := floats.Norm(step, 2)
		if stepNorm < s.StepTolerance*(1+floats.Norm(x, 2)) {
			converged = violation(p, x) <= s.ConstraintTolerance
			break
		}

		fTrial := phi(trial)

		predicted := -(floats.Dot(g, step) + 0.5*quadForm(hess, step))
		var ratio float64
		if predicted <= 0 {
			ratio = -1
		} else {
			ratio = (fx - fTrial) / predicted
		}

		if ratio < 0.25 {
			radius = 0.25 * stepNorm
		} else if ratio > 0.75 && stepNorm > 0.8*radius {
			radius = math.Min(2*radius, 1e3)
		}

		if ratio > 1e-4 {
			gTrial := gradient(phi, trial, s.GradientStep)
			updateCurvature(hess, step, g, gTrial)
			copy(x, trial)
			fx = fTrial
			g = gTrial
		}

		if radius < s.StepTolerance {
			converged = violation(p, x) <= s.ConstraintTolerance
			break
		}
	}
	if iterations > s.MaxIterations {
		iterations = s.MaxIterations
	}

	return Result{X: x, F: fx, Iterations: iterations, Converged: converged}, nil
}

// penalty sums squared violations of the linear inequality rows.
func penalty(p Problem, x []float64) float64 {
	if p.A == nil {
		return 0
	}
	rows, _ := p.A.Dims()
	var total float64
	for i := 0; i < rows; i++ {
		v := floats.Dot(p.A.RawRowView(i), x) - p.B[i]
		if v > 0 {
			total += v * v
		}
	}
	return total
}

// violation is the max constraint violation, box bounds included.
func violation(p Problem, x []float64) float64 {
	var worst float64
	if p.A != nil {
		rows, _ := p.A.Dims()
		for i := 0; i < rows; i++ {
			if v := floats.Dot(p.A.RawRowView(i), x) - p.B[i]; v > worst {
				worst = v
			}
		}
	}
	for i := range x {
		if p.Lower != nil {
			if v := p.Lower[i] - x[i]; v > worst {
				worst = v
			}
		}
		if p.Upper != nil {
			if v := x[i] - p.Upper[i]; v > worst {
				worst = v
			}
		}
	}
	return worst
}

// project clamps x into the box bounds in place.
func project(p Problem, x []float64) {
	for i := range x {
		if p.Lower != nil && x[i] < p.Lower[i] {
			x[i] = p.Lower[i]
		}
		if p.Upper != nil && x[i] > p.Upper[i] {
			x[i] = p.Upper[i]
		}
	}
}

// gradient approximates the gradient by forward differences.
func gradient(f func([]float64) float64, x []float64, h float64) []float64 {
	n := len(x)
	g := make([]float64, n)
	fx := f(x)
	xh := make([]float64, n)
	copy(xh, x)
	for i := 0; i < n; i++ {
		step := h * math.Max(1, math.Abs(x[i]))
		xh[i] = x[i] + step
		g[i] = (f(xh) - fx) / step
		xh[i] = x[i]
	}
	return g
}

// subproblemStep writes the dogleg solution of the trust-region
// subproblem min g'p + 1/2 p'Hp, |p| <= radius, into dst.
func subproblemStep(dst []float64, hess *mat.SymDense, g []float64, radius float64) {
	n := len(g)
	gNorm := floats.Norm(g, 2)
	if gNorm == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}

	gVec := mat.NewVecDense(n, g)

	// Cauchy point along the steepest descent direction.
	cauchy := make([]float64, n)
	gHg := quadForm(hess, g)
	if gHg > 0 {
		scale := math.Min(gNorm*gNorm/gHg, radius/gNorm)
		floats.AddScaledTo(cauchy, cauchy, -scale, g)
	} else {
		floats.AddScaledTo(cauchy, cauchy, -radius/gNorm, g)
	}

	// SR1 curvature can be indefinite; fall back to the Cauchy point when
	// the factorization fails.
	var chol mat.Cholesky
	if !chol.Factorize(hess) {
		copy(dst, cauchy)
		return
	}

	newton := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(newton, gVec); err != nil {
		copy(dst, cauchy)
		return
	}
	newton.ScaleVec(-1, newton)

	if mat.Norm(newton, 2) <= radius {
		copy(dst, newton.RawVector().Data)
		return
	}

	cNorm := floats.Norm(cauchy, 2)
	if cNorm >= radius {
		floats.ScaleTo(dst, radius/cNorm, cauchy)
		return
	}

	// Walk the dogleg segment from the Cauchy point toward the Newton
	// point until it crosses the trust-region boundary.
	diff := make([]float64, n)
	floats.SubTo(diff, newton.RawVector().Data, cauchy)
	a := floats.Dot(diff, diff)
	b := 2 * floats.Dot(cauchy, diff)
	c := cNorm*cNorm - radius*radius
	tau := 1.0
	if disc := b*b - 4*a*c; disc > 0 && a > 0 {
		tau = (-b + math.Sqrt(disc)) / (2 * a)
	}
	copy(dst, cauchy)
	floats.AddScaled(dst, tau, diff)
}

// updateCurvature applies the SR1 rank-one update, skipping it when the
// denominator is too small to be trustworthy.
func updateCurvature(hess *mat.SymDense, step, gOld, gNew []float64) {
	n := len(step)
	v := make([]float64, n)
	// v = y - H*s
	hs := mat.NewVecDense(n, nil)
	hs.MulVec(hess, mat.NewVecDense(n, step))
	for i := 0; i < n; i++ {
		v[i] = gNew[i] - gOld[i] - hs.AtVec(i)
	}
	denom := floats.Dot(v, step)
	threshold := 1e-8 * floats.Norm(step, 2) * floats.Norm(v, 2)
	if math.Abs(denom) <= threshold || denom == 0 {
		return
	}
	hess.SymRankOne(hess, 1/denom, mat.NewVecDense(n, v))
}

func quadForm(hess *mat.SymDense, v []float64) float64 {
	n := len(v)
	hv := mat.NewVecDense(n, nil)
	hv.MulVec(hess, mat.NewVecDense(n, v))
	return floats.Dot(hv.RawVector().Data, v)
}

func identity(n int) *mat.SymDense {
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		m.SetSym(i, i, 1)
	}
	return m
}
