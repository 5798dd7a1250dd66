package typeone

import (
	"math"
	"testing"

	"metad/domain/sdt"
)

func TestDPrime(t *testing.T) {
	g := sdt.Gaussian{}

	t.Run("no correction needed", func(t *testing.T) {
		// hit rate 0.8, false alarm rate 0.1
		got := DPrime(8, 2, 1, 9)
		want := g.Quantile(0.8) - g.Quantile(0.1)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("ceiling hit rate", func(t *testing.T) {
		// hit rate would be 1.0; half-count correction gives 1 - 0.5/10
		got := DPrime(10, 0, 1, 9)
		want := g.Quantile(0.95) - g.Quantile(0.1)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("Expected %v, got %v", want, got)
		}
		if math.IsInf(got, 0) || math.IsNaN(got) {
			t.Errorf("Expected finite d', got %v", got)
		}
	})

	t.Run("floor false alarm rate", func(t *testing.T) {
		got := DPrime(8, 2, 0, 10)
		want := g.Quantile(0.8) - g.Quantile(0.05)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})
}

func TestAdjustedRate(t *testing.T) {
	tests := []struct {
		name         string
		count, total float64
		want         float64
	}{
		{"interior rate untouched", 8, 10, 0.8},
		{"floor", 0, 10, 0.05},
		{"ceiling", 10, 10, 0.95},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := AdjustedRate(test.count, test.total)
			if math.Abs(got-test.want) > 1e-12 {
				t.Errorf("Expected %v, got %v", test.want, got)
			}
		})
	}
}

func TestTrialsToCounts(t *testing.T) {
	t.Run("basic tabulation", func(t *testing.T) {
		stimID := []int{0, 1, 0, 0, 1, 1, 1, 1}
		response := []int{0, 1, 1, 1, 0, 0, 1, 1}
		rating := []int{1, 2, 3, 4, 4, 3, 2, 1}

		counts, err := TrialsToCounts(stimID, response, rating, 4, TabulateOptions{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		wantS1 := []float64{0, 0, 0, 1, 0, 0, 1, 1}
		wantS2 := []float64{1, 1, 0, 0, 1, 2, 0, 0}
		for i := range wantS1 {
			if counts.NRS1[i] != wantS1[i] {
				t.Errorf("nR_S1[%d]: expected %v, got %v", i, wantS1[i], counts.NRS1[i])
			}
			if counts.NRS2[i] != wantS2[i] {
				t.Errorf("nR_S2[%d]: expected %v, got %v", i, wantS2[i], counts.NRS2[i])
			}
		}
	})

	t.Run("out-of-range trials dropped", func(t *testing.T) {
		stimID := []int{0, 2, 0, 1}
		response := []int{0, 0, 3, 1}
		rating := []int{1, 1, 1, 9}

		counts, err := TrialsToCounts(stimID, response, rating, 2, TabulateOptions{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		nS1, nS2 := counts.Totals()
		if nS1+nS2 != 1 {
			t.Errorf("Expected 1 surviving trial, got %v", nS1+nS2)
		}
	})

	t.Run("default padding", func(t *testing.T) {
		stimID := []int{0, 1}
		response := []int{0, 1}
		rating := []int{1, 1}

		counts, err := TrialsToCounts(stimID, response, rating, 2, TabulateOptions{PadCells: true})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		// default pad 1/(2*2) = 0.25
		if counts.NRS1[1] != 1.25 {
			t.Errorf("Expected counted cell 1.25, got %v", counts.NRS1[1])
		}
		if counts.NRS1[0] != 0.25 {
			t.Errorf("Expected empty cell 0.25, got %v", counts.NRS1[0])
		}
		if counts.HasZeroCells() {
			t.Error("Expected padding to remove all zero cells")
		}
	})

	t.Run("length mismatch rejected", func(t *testing.T) {
		_, err := TrialsToCounts([]int{0, 1}, []int{0}, []int{1, 1}, 2, TabulateOptions{})
		if err == nil {
			t.Error("Expected error for mismatched input lengths")
		}
	})
}
