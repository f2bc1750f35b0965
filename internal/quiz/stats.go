package quiz

import "context"

// UserStats is the per-user descriptive report over all submission attempts.
// Variance is a pointer: sample variance is undefined below two attempts and
// is reported as null rather than zero.
type UserStats struct {
	Max      float64  `json:"highest_score"`
	Min      float64  `json:"lowest_score"`
	Mean     float64  `json:"average_score"`
	Count    int      `json:"total_attempts"`
	Sum      float64  `json:"total_score"`
	Variance *float64 `json:"score_variance"`
}

// UserStats aggregates one user's full result history.
func (s *Service) UserStats(ctx context.Context, userID string) (UserStats, error) {
	results, err := s.store.ResultsByUser(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}
	if len(results) == 0 {
		return UserStats{}, ErrNoResults
	}

	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}

	st := UserStats{Max: scores[0], Min: scores[0], Count: len(scores)}
	for _, x := range scores {
		if x > st.Max {
			st.Max = x
		}
		if x < st.Min {
			st.Min = x
		}
		st.Sum += x
	}
	st.Mean = st.Sum / float64(st.Count)
	st.Variance = sampleVariance(scores)
	return st, nil
}

// Rankings returns every user's aggregate ordered by mean score descending,
// with competition ranks: tied means share a rank and the next distinct mean
// skips over the tied count (90,90,80 ranks as 1,1,3).
func (s *Service) Rankings(ctx context.Context) ([]UserAggregate, error) {
	aggs, err := s.store.UserAggregates(ctx)
	if err != nil {
		return nil, err
	}
	for i := range aggs {
		if i > 0 && aggs[i].Mean == aggs[i-1].Mean {
			aggs[i].Rank = aggs[i-1].Rank
		} else {
			aggs[i].Rank = i + 1
		}
	}
	return aggs, nil
}

// sampleVariance applies Bessel's correction (n-1 divisor). Returns nil for
// fewer than two samples, where the statistic is undefined.
func sampleVariance(xs []float64) *float64 {
	n := len(xs)
	if n < 2 {
		return nil
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	v := ss / float64(n-1)
	return &v
}
