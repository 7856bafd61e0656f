// Package dataset generates the synthetic movie catalog and rating log and
// reads and writes them as CSV.
//
// Generation is deterministic: every call derives its own random source
// from the seed it is given, so two calls with the same arguments return
// identical data no matter what ran in between.
package dataset

// Genres is the fixed genre enumeration, in generation order.
var Genres = []string{"Action", "Comedy", "Drama", "Horror", "Sci-Fi", "Romance", "Thriller"}

// Movie is one catalog entry.
type Movie struct {
	MovieID        int     `json:"movie_id"`
	Title          string  `json:"title"`
	Genre          string  `json:"genre"`
	Year           int     `json:"year"`
	DurationMin    int     `json:"duration_min"`
	Rating         float64 `json:"rating"`
	Votes          int     `json:"votes"`
	BudgetMillion  int     `json:"budget_million"`
	RevenueMillion int     `json:"revenue_million"`
}

// Rating is one user's score for one movie.
type Rating struct {
	UserID  int `json:"user_id"`
	MovieID int `json:"movie_id"`
	Rating  int `json:"rating"`
}

// IsGenre reports whether g is one of Genres.
func IsGenre(g string) bool {
	for _, known := range Genres {
		if known == g {
			return true
		}
	}
	return false
}
