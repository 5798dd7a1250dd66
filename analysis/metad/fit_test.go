package metad

import (
	"math"
	"testing"

	"metad/domain/sdt"
	"metad/internal/solver"
)

func TestFitReferenceDataset(t *testing.T) {
	// Reference dataset and values validated against a previously
	// established fit of the same model equations.
	counts := mustCounts(t,
		[]float64{36, 24, 17, 20, 10, 12, 9, 2},
		[]float64{1, 4, 10, 11, 19, 18, 28, 39})

	fit, err := Fit(counts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !fit.Converged {
		t.Errorf("Expected convergence, stopped after %d iterations", fit.Iterations)
	}
	if len(fit.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", fit.Warnings)
	}

	// da is closed-form, so it is tight; meta-da comes out of the solver.
	if math.Abs(fit.DA-1.504056501139433) > 1e-9 {
		t.Errorf("Expected da ~ 1.5040565, got %v", fit.DA)
	}
	if fit.DA <= 0 {
		t.Errorf("Expected positive da, got %v", fit.DA)
	}
	if math.Abs(fit.MetaDA-1.46067) > 0.05 {
		t.Errorf("Expected meta-da ~ 1.46067, got %v", fit.MetaDA)
	}
	if math.Abs(fit.MRatio-0.97115) > 0.05 {
		t.Errorf("Expected M-ratio ~ 0.97115, got %v", fit.MRatio)
	}
	if math.Abs(fit.MDiff-(fit.MetaDA-fit.DA)) > 1e-12 {
		t.Errorf("Expected M-diff = meta-da - da, got %v", fit.MDiff)
	}
	if math.Abs(fit.LogL-(-343.2142652)) > 0.1 {
		t.Errorf("Expected logL ~ -343.2143, got %v", fit.LogL)
	}

	t.Run("criteria strictly ordered", func(t *testing.T) {
		all := append(append([]float64{}, fit.S1Units.T2C1RS1...), fit.S1Units.T2C1RS2...)
		for i := 0; i+1 < len(all); i++ {
			if all[i] >= all[i+1] {
				t.Errorf("Criteria not strictly increasing at %d: %v >= %v", i, all[i], all[i+1])
			}
		}
	})

	t.Run("diagnostic rates", func(t *testing.T) {
		for name, rates := range map[string][]float64{
			"obs_HR2_rS1":  fit.ObsHR2RS1,
			"est_HR2_rS1":  fit.EstHR2RS1,
			"obs_FAR2_rS1": fit.ObsFAR2RS1,
			"est_FAR2_rS1": fit.EstFAR2RS1,
			"obs_HR2_rS2":  fit.ObsHR2RS2,
			"est_HR2_rS2":  fit.EstHR2RS2,
			"obs_FAR2_rS2": fit.ObsFAR2RS2,
			"est_FAR2_rS2": fit.EstFAR2RS2,
		} {
			if len(rates) != 3 {
				t.Errorf("%s: expected K-1 = 3 rates, got %d", name, len(rates))
			}
			for i, r := range rates {
				if r < 0 || r > 1 || math.IsNaN(r) {
					t.Errorf("%s[%d]: expected a rate in [0, 1], got %v", name, i, r)
				}
			}
		}

		// A sane fit tracks the observed rates reasonably closely.
		for i := range fit.ObsHR2RS2 {
			if math.Abs(fit.ObsHR2RS2[i]-fit.EstHR2RS2[i]) > 0.2 {
				t.Errorf("est_HR2_rS2[%d] = %v far from observed %v", i, fit.EstHR2RS2[i], fit.ObsHR2RS2[i])
			}
		}
	})
}

func TestFitIsDeterministic(t *testing.T) {
	counts := mustCounts(t,
		[]float64{36, 24, 17, 20, 10, 12, 9, 2},
		[]float64{1, 4, 10, 11, 19, 18, 28, 39})

	first, err := Fit(counts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := Fit(counts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if first.MetaDA != second.MetaDA || first.LogL != second.LogL || first.DA != second.DA {
		t.Errorf("Expected identical refits, got meta-da %v vs %v, logL %v vs %v",
			first.MetaDA, second.MetaDA, first.LogL, second.LogL)
	}
	for i := range first.S1Units.T2C1RS1 {
		if first.S1Units.T2C1RS1[i] != second.S1Units.T2C1RS1[i] {
			t.Errorf("Criterion %d differs between refits", i)
		}
	}
}

func TestFitChanceData(t *testing.T) {
	// Identical count vectors mean hit rate equals false-alarm rate at
	// every split: zero type 1 sensitivity with intact confidence
	// ordering.
	counts := mustCounts(t, []float64{10, 5, 5, 10}, []float64{10, 5, 5, 10})

	fit, err := Fit(counts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if fit.DA != 0 {
		t.Errorf("Expected da = 0 for identical vectors, got %v", fit.DA)
	}
	if math.Abs(fit.MetaDA) > 0.05 {
		t.Errorf("Expected meta-da near 0, got %v", fit.MetaDA)
	}
	// meta-da / da is 0/0: the undefined marker, never Inf and never a
	// panic.
	if !math.IsNaN(fit.MRatio) {
		t.Errorf("Expected NaN M-ratio at zero sensitivity, got %v", fit.MRatio)
	}
}

func TestFitZeroCells(t *testing.T) {
	counts := mustCounts(t,
		[]float64{36, 24, 17, 20, 10, 12, 9, 0},
		[]float64{0, 4, 10, 11, 19, 18, 28, 39})

	fit, err := Fit(counts)
	if err != nil {
		t.Fatalf("Expected zero cells to be survivable, got error: %v", err)
	}

	if !fit.HasWarning(sdt.WarnZeroCells) {
		t.Error("Expected a zero-cells warning on the result")
	}
	if math.IsNaN(fit.MetaDA) || math.IsInf(fit.MetaDA, 0) {
		t.Errorf("Expected finite meta-da, got %v", fit.MetaDA)
	}
	if math.IsInf(fit.LogL, 0) {
		t.Errorf("Expected finite logL, got %v", fit.LogL)
	}
}

func TestFitOptions(t *testing.T) {
	counts := mustCounts(t,
		[]float64{36, 24, 17, 20, 10, 12, 9, 2},
		[]float64{1, 4, 10, 11, 19, 18, 28, 39})

	t.Run("variance ratio", func(t *testing.T) {
		fit, err := Fit(counts, WithVarianceRatio(0.9))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if fit.S != 0.9 || fit.S1Units.S != 0.9 {
			t.Errorf("Expected s = 0.9 on the result, got %v", fit.S)
		}
		if math.IsNaN(fit.MetaDA) || math.IsInf(fit.MetaDA, 0) {
			t.Errorf("Expected finite meta-da, got %v", fit.MetaDA)
		}
	})

	t.Run("iteration cap", func(t *testing.T) {
		fit, err := Fit(counts, WithSolverSettings(solver.Settings{MaxIterations: 1}))
		if err != nil {
			t.Fatalf("Expected a packaged result despite non-convergence, got error: %v", err)
		}
		if fit.Converged {
			t.Error("Expected non-convergence after a single iteration")
		}
		if !fit.HasWarning(sdt.WarnNonConvergence) {
			t.Error("Expected a non-convergence warning")
		}
		if len(fit.S1Units.T2C1RS1)+len(fit.S1Units.T2C1RS2) != 6 {
			t.Error("Expected the best-found criteria to be packaged anyway")
		}
	})

	t.Run("custom distribution", func(t *testing.T) {
		fit, err := Fit(counts, WithDistribution(sdt.Gaussian{}))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if math.Abs(fit.DA-1.504056501139433) > 1e-9 {
			t.Errorf("Expected the default family to reproduce da, got %v", fit.DA)
		}
	})
}

func TestFitRejectsMalformedCounts(t *testing.T) {
	counts := sdt.ResponseCounts{NRS1: []float64{1, 2, 3}, NRS2: []float64{1, 2, 3}}
	if _, err := Fit(counts); err == nil {
		t.Error("Expected odd-length counts to fail fast")
	}

	counts = sdt.ResponseCounts{NRS1: []float64{1, 2, 3, 4}, NRS2: []float64{1, 2}}
	if _, err := Fit(counts); err == nil {
		t.Error("Expected mismatched counts to fail fast")
	}
}
