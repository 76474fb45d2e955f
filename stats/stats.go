// Package stats summarizes autoplay results: running moments, sample
// quantiles and confidence intervals, and text histograms.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Statistic accumulates count, mean, variance and range of a sample
// stream in constant space (Welford's update).
type Statistic struct {
	n        int
	mean, m2 float64
	min, max float64
	last     float64
}

func (s *Statistic) Push(val float64) {
	s.n++
	s.last = val
	if s.n == 1 {
		s.mean, s.m2 = val, 0
		s.min, s.max = val, val
		return
	}
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

func (s *Statistic) Mean() float64 {
	return s.mean
}

// Variance is the unbiased sample variance; 0 with fewer than two samples.
func (s *Statistic) Variance() float64 {
	if s.n < 2 {
		return 0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

// StandardError is the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

func (s *Statistic) Min() float64  { return s.min }
func (s *Statistic) Max() float64  { return s.max }
func (s *Statistic) Last() float64 { return s.last }

func (s *Statistic) Iterations() int {
	return s.n
}

// ZVal returns the two-tailed z-value for a confidence level given in
// percent, e.g. 1.96 for 95.
func ZVal(confidence float64) float64 {
	std := distuv.Normal{Mu: 0, Sigma: 1}
	return std.Quantile((1 + confidence/100) / 2)
}
