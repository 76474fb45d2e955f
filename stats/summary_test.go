package stats

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	is := is.New(t)
	s := NewSummary("attack")
	for _, v := range []int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19} {
		s.Add(float64(v))
	}
	is.Equal(s.Count(), 10)
	is.True(fuzzyEqual(s.Mean(), 47.2))
	is.True(fuzzyEqual(s.StdDev(), 36.937785531891))
	is.Equal(s.Quantile(0), 10.0)
	is.Equal(s.Quantile(1), 124.0)
	is.Equal(s.Quantile(0.5), 33.0)
	assert.InDelta(t, 1.96*36.937785531891/3.16227766, s.ConfidenceInterval(95), 1e-3)
	is.True(strings.HasPrefix(s.String(), "attack: n=10 mean=47.20"))
}

func TestSummaryEmpty(t *testing.T) {
	is := is.New(t)
	s := NewSummary("lines")
	is.Equal(s.Mean(), 0.0)
	is.Equal(s.StdDev(), 0.0)
	is.Equal(s.Quantile(0.5), 0.0)
	is.Equal(s.String(), "lines: no samples")

	var buf bytes.Buffer
	is.NoErr(s.Histogram(&buf, 5, 20))
	is.Equal(buf.String(), "lines: no samples\n")
}

func TestSummaryHistogram(t *testing.T) {
	is := is.New(t)
	s := NewSummary("pieces")
	for i := 0; i < 100; i++ {
		s.Add(float64(i % 10))
	}
	var buf bytes.Buffer
	is.NoErr(s.Histogram(&buf, 5, 30))
	out := buf.String()
	is.True(strings.HasPrefix(out, "pieces\n"))
	is.True(len(strings.Split(strings.TrimSpace(out), "\n")) >= 2)
}

func TestSummaryConcurrentAdd(t *testing.T) {
	is := is.New(t)
	s := NewSummary("x")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Add(1)
			}
		}()
	}
	wg.Wait()
	is.Equal(s.Count(), 800)
	is.Equal(s.Mean(), 1.0)
}

func TestReport(t *testing.T) {
	is := is.New(t)
	a, b := NewSummary("a"), NewSummary("b")
	a.Add(1)
	is.Equal(len(strings.Split(Report(a, b), "\n")), 2)
}
