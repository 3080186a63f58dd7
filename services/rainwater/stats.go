package rainwater

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// summarize computes the batch summary for per-profile water amounts.
func summarize(results []int) BatchSummary {
	s := BatchSummary{Count: len(results)}
	if len(results) == 0 {
		return s
	}

	values := make([]float64, len(results))
	for i, w := range results {
		values[i] = float64(w)
		s.Total += w
		if w == 0 {
			s.Dry++
		}
	}

	s.Max = int(floats.Max(values))
	if len(values) == 1 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s
}
