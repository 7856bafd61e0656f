package recommend

import "moviedash/internal/dataset"

// MovieStats is one catalog movie joined with its rating aggregate.
// Movies without ratings have AvgRating 0 and NumRatings 0.
type MovieStats struct {
	dataset.Movie
	AvgRating  float64 `json:"avg_rating"`
	NumRatings int     `json:"num_ratings"`
}

// TopRatedMovie is a row of TopRated, ranked by critic rating.
type TopRatedMovie struct {
	MovieID int     `json:"movie_id"`
	Title   string  `json:"title"`
	Genre   string  `json:"genre"`
	Year    int     `json:"year"`
	Rating  float64 `json:"rating"`
}

// Recommendation is a row of RecommendByGenre and RecommendSimilar, ranked
// by AvgRating. AvgRating is the unrounded mean user score.
type Recommendation struct {
	MovieID   int     `json:"movie_id"`
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Rating    float64 `json:"rating"`
	AvgRating float64 `json:"avg_rating"`
}

// GenreStat aggregates the movies of one genre. AvgRating is the mean critic
// rating and AvgBudget the mean budget, both rounded to two decimals.
type GenreStat struct {
	Genre     string  `json:"genre"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avg_rating"`
	AvgBudget float64 `json:"avg_budget"`
}

// GenreCount is the number of catalog movies in one genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// HistogramBin counts critic ratings in [Lower, Upper). The last bin also
// includes its upper edge.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Summary holds the headline numbers of the home page.
type Summary struct {
	TotalMovies  int     `json:"total_movies"`
	AvgRating    float64 `json:"avg_rating"`
	Genres       int     `json:"genres"`
	TotalRatings int     `json:"total_ratings"`
}
