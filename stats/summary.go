package stats

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the count, mean, sum of squared deviations, extrema and sum
// of a multiset of values. The zero value is the empty summary and is the
// identity for Merge.
type Summary struct {
	n    int
	mean float64
	m2   float64
	max  float64
	min  float64
	sum  float64
}

// NewSummary summarizes values plus the 0.0 baseline.
func NewSummary(values ...float64) Summary {
	vals := make([]float64, 0, len(values)+1)
	vals = append(vals, 0)
	vals = append(vals, values...)

	s := Summary{
		n:   len(vals),
		max: floats.Max(vals),
		min: floats.Min(vals),
		sum: floats.Sum(vals),
	}
	if s.n < 2 {
		s.mean = vals[0]
		return s
	}
	mean, variance := stat.MeanVariance(vals, nil)
	s.mean = mean
	s.m2 = variance * float64(s.n-1)
	return s
}

// Merge combines two summaries as if their values had been summarized
// together.
func (s Summary) Merge(o Summary) Summary {
	if s.n == 0 {
		return o
	}
	if o.n == 0 {
		return s
	}
	n := s.n + o.n
	delta := o.mean - s.mean
	return Summary{
		n:    n,
		mean: s.mean + delta*float64(o.n)/float64(n),
		m2:   s.m2 + o.m2 + delta*delta*float64(s.n)*float64(o.n)/float64(n),
		max:  math.Max(s.max, o.max),
		min:  math.Min(s.min, o.min),
		sum:  s.sum + o.sum,
	}
}

// N returns the number of values, baselines included.
func (s Summary) N() int { return s.n }

// Mean returns the arithmetic mean.
func (s Summary) Mean() float64 { return s.mean }

// Max returns the largest value.
func (s Summary) Max() float64 { return s.max }

// Min returns the smallest value.
func (s Summary) Min() float64 { return s.min }

// Sum returns the sum of all values.
func (s Summary) Sum() float64 { return s.sum }

// Variance returns the sample variance, or 0 for fewer than two values.
func (s Summary) Variance() float64 {
	if s.n < 2 {
		return 0
	}
	return s.m2 / float64(s.n-1)
}

// StdDev returns the sample standard deviation.
func (s Summary) StdDev() float64 { return math.Sqrt(s.Variance()) }

type summaryJSON struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Max      float64 `json:"max"`
	Min      float64 `json:"min"`
	Sum      float64 `json:"sum"`
	Variance float64 `json:"variance"`
}

// MarshalJSON implements json.Marshaler.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(summaryJSON{
		N:        s.n,
		Mean:     s.mean,
		Max:      s.max,
		Min:      s.min,
		Sum:      s.sum,
		Variance: s.Variance(),
	})
}
