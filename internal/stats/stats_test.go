package stats

import (
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBasicStatistics(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})

	if s.Count() != 5 {
		t.Fatalf("Count = %d, want 5", s.Count())
	}
	if s.Mean != 3 {
		t.Fatalf("Mean = %v, want 3", s.Mean)
	}
	if s.Median() != 3 {
		t.Fatalf("Median = %v, want 3", s.Median())
	}
	if s.Min() != 1 || s.Max() != 5 {
		t.Fatalf("Min/Max = %v/%v, want 1/5", s.Min(), s.Max())
	}
	if !almost(s.Stdev, math.Sqrt(2)) {
		t.Fatalf("Stdev = %v, want %v", s.Stdev, math.Sqrt(2))
	}
	if !almost(s.MAD, 1.2) {
		t.Fatalf("MAD = %v, want 1.2", s.MAD)
	}
}

func TestUpperMedianForEvenCount(t *testing.T) {
	s := New([]float64{1, 2, 3, 4})
	if s.Median() != 3 {
		t.Fatalf("Median = %v, want 3", s.Median())
	}
}

func TestNoOutliersKeepsBothViewsIdentical(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})

	if s.HasOutliers() {
		t.Fatalf("HasOutliers = true, want false")
	}
	if s.MeanExcludingOutliers != s.Mean {
		t.Fatalf("MeanExcludingOutliers = %v, want Mean %v", s.MeanExcludingOutliers, s.Mean)
	}
	if s.StdevExcludingOutliers != s.Stdev {
		t.Fatalf("StdevExcludingOutliers = %v, want Stdev %v", s.StdevExcludingOutliers, s.Stdev)
	}
	if s.MedianExcludingOutliers() != s.Median() {
		t.Fatalf("MedianExcludingOutliers = %v, want %v", s.MedianExcludingOutliers(), s.Median())
	}
	if s.MinExcludingOutliers() != s.Min() || s.MaxExcludingOutliers() != s.Max() {
		t.Fatalf("excluding-outlier min/max differ from plain min/max")
	}
	if s.CountExcludingOutliers() != s.Count() {
		t.Fatalf("CountExcludingOutliers = %d, want %d", s.CountExcludingOutliers(), s.Count())
	}
}

func TestOutlierDetection(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 100})

	// median 3, MAD 101/5 = 20.2, UCL = 3 + 3*1.4826*20.2 ≈ 92.85
	if !s.HasOutliers() {
		t.Fatalf("HasOutliers = false, want true")
	}
	if s.OutlierCount != 1 {
		t.Fatalf("OutlierCount = %d, want 1", s.OutlierCount)
	}
	if !almost(s.MAD, 101.0/5.0) {
		t.Fatalf("MAD = %v, want %v", s.MAD, 101.0/5.0)
	}
	if s.CountExcludingOutliers() != 4 {
		t.Fatalf("CountExcludingOutliers = %d, want 4", s.CountExcludingOutliers())
	}
	if !almost(s.MeanExcludingOutliers, 2.5) {
		t.Fatalf("MeanExcludingOutliers = %v, want 2.5", s.MeanExcludingOutliers)
	}
	if !almost(s.StdevExcludingOutliers, math.Sqrt(1.25)) {
		t.Fatalf("StdevExcludingOutliers = %v, want %v", s.StdevExcludingOutliers, math.Sqrt(1.25))
	}
	if s.MedianExcludingOutliers() != 3 {
		t.Fatalf("MedianExcludingOutliers = %v, want 3", s.MedianExcludingOutliers())
	}
	if s.MinExcludingOutliers() != 1 || s.MaxExcludingOutliers() != 4 {
		t.Fatalf("excluding min/max = %v/%v, want 1/4", s.MinExcludingOutliers(), s.MaxExcludingOutliers())
	}
	if s.Max() != 100 {
		t.Fatalf("Max = %v, want 100", s.Max())
	}
}

func TestLowOutlier(t *testing.T) {
	s := New([]float64{-100, 96, 97, 98, 99})

	if s.OutlierCount != 1 {
		t.Fatalf("OutlierCount = %d, want 1", s.OutlierCount)
	}
	if s.MinExcludingOutliers() != 96 {
		t.Fatalf("MinExcludingOutliers = %v, want 96", s.MinExcludingOutliers())
	}
}

func TestInsertionOrderDoesNotMatter(t *testing.T) {
	a := New([]float64{5, 1, 3, 2, 4})
	b := New([]float64{1, 2, 3, 4, 5})

	if a.Mean != b.Mean || a.Median() != b.Median() || a.Stdev != b.Stdev {
		t.Fatalf("statistics depend on insertion order: %+v vs %+v", a, b)
	}
}

func TestAddKeepsSorted(t *testing.T) {
	s := New(nil)
	for _, v := range []float64{3, 1, 2} {
		s.Add(v)
	}
	if s.Min() != 1 || s.Median() != 2 || s.Max() != 3 {
		t.Fatalf("min/median/max = %v/%v/%v, want 1/2/3", s.Min(), s.Median(), s.Max())
	}
}

func TestNonFiniteSamplesAreCounted(t *testing.T) {
	s := New([]float64{1, 2})
	s.Add(math.NaN())
	s.Add(math.Inf(1))
	s.Add(math.Inf(-1))

	if s.NaNCount != 3 {
		t.Fatalf("NaNCount = %d, want 3", s.NaNCount)
	}
	if s.Count() != 2 {
		t.Fatalf("Count = %d, want 2", s.Count())
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	if got := New([]float64{5, 5, 5}).CV(); got != 0 {
		t.Fatalf("CV of constant samples = %v, want 0", got)
	}
	if got := New([]float64{-1, 1}).CV(); got != 100 {
		t.Fatalf("CV with zero mean = %v, want 100", got)
	}
	s := New([]float64{1, 2, 3})
	want := s.Stdev / s.Mean * 100
	if !almost(s.CV(), want) {
		t.Fatalf("CV = %v, want %v", s.CV(), want)
	}
}

func TestEmptyStats(t *testing.T) {
	s := New(nil)
	if s.Count() != 0 || s.Median() != 0 || s.Min() != 0 || s.Max() != 0 {
		t.Fatalf("empty stats should report zeros")
	}
	if s.CV() != 0 || s.HasOutliers() {
		t.Fatalf("empty stats should have no spread and no outliers")
	}
}
