package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"moviedash/internal/apperr"
)

const (
	minYear, maxYear         = 1990, 2023
	minDuration, maxDuration = 80, 179
	minCritic, maxCritic     = 3.0, 9.5
	minVotes, maxVotes       = 1000, 499999
	minBudget, maxBudget     = 5, 199
	minRevenueX, maxRevenueX = 0.5, 5.0

	// Each user rates between minRated and maxRated movies inclusive.
	minRated, maxRated = 5, 29
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // synthetic data
}

// intIn returns a uniform integer in [lo, hi].
func intIn(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// floatIn returns a uniform float in [lo, hi).
func floatIn(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// round1 rounds half away from zero to one decimal.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// GenerateCatalog returns count movies with ids 1..count. The same
// (count, seed) always yields the same catalog.
//
// Columns are drawn one at a time across all movies, so adding a column
// at the end never changes the values of earlier ones.
func GenerateCatalog(count int, seed int64) ([]Movie, error) {
	if count < 0 {
		return nil, fmt.Errorf("generate catalog: count %d: %w", count, apperr.ErrInvalidInput)
	}
	rng := newRand(seed)

	movies := make([]Movie, count)
	for i := range movies {
		movies[i].MovieID = i + 1
		movies[i].Title = fmt.Sprintf("Movie_%d", i+1)
	}
	for i := range movies {
		movies[i].Genre = Genres[rng.Intn(len(Genres))]
	}
	for i := range movies {
		movies[i].Year = intIn(rng, minYear, maxYear)
	}
	for i := range movies {
		movies[i].DurationMin = intIn(rng, minDuration, maxDuration)
	}
	for i := range movies {
		movies[i].Rating = round1(floatIn(rng, minCritic, maxCritic))
	}
	for i := range movies {
		movies[i].Votes = intIn(rng, minVotes, maxVotes)
	}
	for i := range movies {
		movies[i].BudgetMillion = intIn(rng, minBudget, maxBudget)
	}
	for i := range movies {
		factor := floatIn(rng, minRevenueX, maxRevenueX)
		movies[i].RevenueMillion = int(math.Floor(float64(movies[i].BudgetMillion) * factor))
	}
	return movies, nil
}

// GenerateRatings returns the rating log for users 1..userCount over movie
// ids 1..movieCount. Each user rates a random number of distinct movies in
// [5, 29], capped at movieCount, with scores in [1, 5].
func GenerateRatings(userCount, movieCount int, seed int64) ([]Rating, error) {
	if userCount < 0 || movieCount < 0 {
		return nil, fmt.Errorf("generate ratings: users %d movies %d: %w", userCount, movieCount, apperr.ErrInvalidInput)
	}
	rng := newRand(seed)

	ratings := make([]Rating, 0, userCount*(minRated+maxRated)/2)
	for userID := 1; userID <= userCount; userID++ {
		n := intIn(rng, minRated, maxRated)
		if n > movieCount {
			n = movieCount
		}
		for _, idx := range sampleWithoutReplacement(rng, movieCount, n) {
			ratings = append(ratings, Rating{
				UserID:  userID,
				MovieID: idx + 1,
				Rating:  intIn(rng, 1, 5),
			})
		}
	}
	return ratings, nil
}

// sampleWithoutReplacement returns k distinct indices from [0, n) in draw
// order, using a partial Fisher-Yates shuffle.
func sampleWithoutReplacement(rng *rand.Rand, n, k int) []int {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
