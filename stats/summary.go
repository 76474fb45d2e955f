package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aybabtme/uniplot/histogram"
	"gonum.org/v1/gonum/stat"
)

// Summary keeps every sample of one measured quantity (attack per game,
// pieces survived, ...) so that quantiles and histograms can be drawn at
// the end of a run. It is safe for concurrent use.
type Summary struct {
	sync.Mutex
	name    string
	samples []float64
	running Statistic
}

func NewSummary(name string) *Summary {
	return &Summary{name: name}
}

func (s *Summary) Name() string {
	return s.name
}

func (s *Summary) Add(val float64) {
	s.Lock()
	defer s.Unlock()
	s.samples = append(s.samples, val)
	s.running.Push(val)
}

func (s *Summary) Count() int {
	s.Lock()
	defer s.Unlock()
	return len(s.samples)
}

func (s *Summary) sorted() []float64 {
	cp := append([]float64(nil), s.samples...)
	sort.Float64s(cp)
	return cp
}

// Mean and StdDev are computed over the stored samples; the running
// statistic is used only for the confidence interval.
func (s *Summary) Mean() float64 {
	s.Lock()
	defer s.Unlock()
	if len(s.samples) == 0 {
		return 0
	}
	return stat.Mean(s.samples, nil)
}

func (s *Summary) StdDev() float64 {
	s.Lock()
	defer s.Unlock()
	if len(s.samples) < 2 {
		return 0
	}
	return stat.StdDev(s.samples, nil)
}

// Quantile returns the empirical p-quantile, 0 <= p <= 1.
func (s *Summary) Quantile(p float64) float64 {
	s.Lock()
	defer s.Unlock()
	if len(s.samples) == 0 {
		return 0
	}
	return stat.Quantile(p, stat.Empirical, s.sorted(), nil)
}

func (s *Summary) Min() float64 {
	s.Lock()
	defer s.Unlock()
	return s.running.Min()
}

func (s *Summary) Max() float64 {
	s.Lock()
	defer s.Unlock()
	return s.running.Max()
}

// ConfidenceInterval returns the half-width of the two-sided interval
// around the mean at the given confidence (0-100).
func (s *Summary) ConfidenceInterval(confidence float64) float64 {
	s.Lock()
	defer s.Unlock()
	if s.running.Iterations() < 2 {
		return 0
	}
	return ZVal(confidence) * s.running.StandardError()
}

// String is a one-line report.
func (s *Summary) String() string {
	n := s.Count()
	if n == 0 {
		return fmt.Sprintf("%s: no samples", s.name)
	}
	return fmt.Sprintf("%s: n=%d mean=%.2f ±%.2f sd=%.2f min=%.0f p50=%.1f p90=%.1f max=%.0f",
		s.name, n, s.Mean(), s.ConfidenceInterval(95), s.StdDev(),
		s.Min(), s.Quantile(0.5), s.Quantile(0.9), s.Max())
}

// Histogram draws the samples as a horizontal bar chart.
func (s *Summary) Histogram(w io.Writer, bins, width int) error {
	s.Lock()
	data := append([]float64(nil), s.samples...)
	s.Unlock()
	if len(data) == 0 {
		_, err := fmt.Fprintf(w, "%s: no samples\n", s.name)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", s.name); err != nil {
		return err
	}
	h := histogram.Hist(bins, data)
	return histogram.Fprint(w, h, histogram.Linear(width))
}

// Report joins the one-line reports of several summaries.
func Report(sums ...*Summary) string {
	lines := make([]string, len(sums))
	for i, s := range sums {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}
