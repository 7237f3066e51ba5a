// Package stats computes summary statistics over benchmark samples with
// outlier detection based on the Hampel identifier.
package stats

import (
	"math"
	"sort"
)

// hampelScale converts the mean absolute deviation into a robust spread
// estimate comparable to a standard deviation.
const hampelScale = 1.4826

// Stats accumulates samples and keeps the derived quantities current.
// Samples are held sorted ascending; NaN and infinite values are rejected
// and only counted.
type Stats struct {
	sorted []float64
	lo, hi int

	// NaNCount is the number of rejected non-finite samples.
	NaNCount int

	// MAD is the mean absolute deviation from the median.
	MAD float64

	// LCL and UCL bound the non-outlier range: median ± 3·1.4826·MAD.
	LCL float64
	UCL float64

	OutlierCount int

	Mean                   float64
	MeanExcludingOutliers  float64
	Stdev                  float64
	StdevExcludingOutliers float64
}

func New(samples []float64) *Stats {
	s := &Stats{}
	for _, v := range samples {
		s.Add(v)
	}
	return s
}

// Add inserts one sample, keeping the slice sorted, and recomputes the
// derived statistics.
func (s *Stats) Add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.NaNCount++
		return
	}
	i := sort.Search(len(s.sorted), func(i int) bool { return s.sorted[i] > v })
	s.sorted = append(s.sorted, 0)
	copy(s.sorted[i+1:], s.sorted[i:])
	s.sorted[i] = v
	s.recalc()
}

func (s *Stats) recalc() {
	n := len(s.sorted)
	median := s.sorted[n/2]

	var sum, dev float64
	for _, v := range s.sorted {
		sum += v
		dev += math.Abs(v - median)
	}
	s.Mean = sum / float64(n)
	s.MAD = dev / float64(n)

	var sq float64
	for _, v := range s.sorted {
		d := v - s.Mean
		sq += d * d
	}
	s.Stdev = math.Sqrt(sq / float64(n))

	spread := 3 * hampelScale * s.MAD
	s.LCL = median - spread
	s.UCL = median + spread

	if s.LCL <= s.sorted[0] && s.sorted[n-1] <= s.UCL {
		// Every sample is inside the control limits. Reuse the plain
		// results so both views stay bit-identical.
		s.lo, s.hi = 0, n
		s.OutlierCount = 0
		s.MeanExcludingOutliers = s.Mean
		s.StdevExcludingOutliers = s.Stdev
		return
	}

	s.lo = sort.Search(n, func(i int) bool { return s.sorted[i] >= s.LCL })
	s.hi = sort.Search(n, func(i int) bool { return s.sorted[i] > s.UCL })
	kept := s.sorted[s.lo:s.hi]
	s.OutlierCount = n - len(kept)

	if len(kept) == 0 {
		s.MeanExcludingOutliers = 0
		s.StdevExcludingOutliers = 0
		return
	}
	sum = 0
	for _, v := range kept {
		sum += v
	}
	s.MeanExcludingOutliers = sum / float64(len(kept))
	sq = 0
	for _, v := range kept {
		d := v - s.MeanExcludingOutliers
		sq += d * d
	}
	s.StdevExcludingOutliers = math.Sqrt(sq / float64(len(kept)))
}

func (s *Stats) Count() int { return len(s.sorted) }

func (s *Stats) CountExcludingOutliers() int { return len(s.sorted) - s.OutlierCount }

func (s *Stats) HasOutliers() bool { return s.OutlierCount > 0 }

// Median returns the upper median for even sample counts.
func (s *Stats) Median() float64 {
	if len(s.sorted) == 0 {
		return 0
	}
	return s.sorted[len(s.sorted)/2]
}

func (s *Stats) Min() float64 {
	if len(s.sorted) == 0 {
		return 0
	}
	return s.sorted[0]
}

func (s *Stats) Max() float64 {
	if len(s.sorted) == 0 {
		return 0
	}
	return s.sorted[len(s.sorted)-1]
}

func (s *Stats) MedianExcludingOutliers() float64 {
	if s.OutlierCount == 0 {
		return s.Median()
	}
	kept := s.sorted[s.lo:s.hi]
	if len(kept) == 0 {
		return 0
	}
	return kept[len(kept)/2]
}

func (s *Stats) MinExcludingOutliers() float64 {
	if s.OutlierCount == 0 {
		return s.Min()
	}
	if s.lo == s.hi {
		return 0
	}
	return s.sorted[s.lo]
}

func (s *Stats) MaxExcludingOutliers() float64 {
	if s.OutlierCount == 0 {
		return s.Max()
	}
	if s.lo == s.hi {
		return 0
	}
	return s.sorted[s.hi-1]
}

// CV returns the coefficient of variation in percent. A zero mean with a
// nonzero spread reports 100.
func (s *Stats) CV() float64 {
	return cv(s.Mean, s.Stdev)
}

func (s *Stats) CVExcludingOutliers() float64 {
	return cv(s.MeanExcludingOutliers, s.StdevExcludingOutliers)
}

func cv(mean, stdev float64) float64 {
	if stdev == 0 {
		return 0
	}
	if mean == 0 {
		return 100
	}
	return math.Abs(stdev / mean * 100)
}
