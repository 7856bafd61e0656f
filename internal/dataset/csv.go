package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"moviedash/internal/apperr"
)

const (
	MoviesFile  = "movies.csv"
	RatingsFile = "ratings.csv"
)

var (
	movieHeader  = []string{"movie_id", "title", "genre", "year", "duration_min", "rating", "votes", "budget_million", "revenue_million"}
	ratingHeader = []string{"user_id", "movie_id", "rating"}
)

// Persist writes movies.csv and ratings.csv into dir, creating it if needed,
// and returns the absolute directory. Each file is staged under a temporary
// name and renamed into place, so a failed write never leaves a truncated
// file under the final name.
func Persist(movies []Movie, ratings []Rating, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("persist: resolve %q: %v: %w", dir, err, apperr.ErrIO)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("persist: create %s: %v: %w", abs, err, apperr.ErrIO)
	}

	movieRows := make([][]string, 0, len(movies)+1)
	movieRows = append(movieRows, movieHeader)
	for _, m := range movies {
		movieRows = append(movieRows, []string{
			strconv.Itoa(m.MovieID),
			m.Title,
			m.Genre,
			strconv.Itoa(m.Year),
			strconv.Itoa(m.DurationMin),
			strconv.FormatFloat(m.Rating, 'f', 1, 64),
			strconv.Itoa(m.Votes),
			strconv.Itoa(m.BudgetMillion),
			strconv.Itoa(m.RevenueMillion),
		})
	}
	if err := writeAtomic(filepath.Join(abs, MoviesFile), movieRows); err != nil {
		return "", err
	}

	ratingRows := make([][]string, 0, len(ratings)+1)
	ratingRows = append(ratingRows, ratingHeader)
	for _, r := range ratings {
		ratingRows = append(ratingRows, []string{
			strconv.Itoa(r.UserID),
			strconv.Itoa(r.MovieID),
			strconv.Itoa(r.Rating),
		})
	}
	if err := writeAtomic(filepath.Join(abs, RatingsFile), ratingRows); err != nil {
		return "", err
	}
	return abs, nil
}

func writeAtomic(path string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("persist: %s: %v: %w", path, err, apperr.ErrIO)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("persist: write %s: %v: %w", path, err, apperr.ErrIO)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: close %s: %v: %w", path, err, apperr.ErrIO)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("persist: rename %s: %v: %w", path, err, apperr.ErrIO)
	}
	return nil
}

// Load reads a dataset written by Persist. A missing or unreadable file
// wraps apperr.ErrIO; a bad header or field wraps apperr.ErrInvalidInput.
func Load(dir string) ([]Movie, []Rating, error) {
	movieRows, err := readRows(filepath.Join(dir, MoviesFile), movieHeader)
	if err != nil {
		return nil, nil, err
	}
	movies := make([]Movie, 0, len(movieRows))
	for i, row := range movieRows {
		p := fieldParser{file: MoviesFile, line: i + 2}
		m := Movie{
			MovieID:        p.atoi("movie_id", row[0]),
			Title:          row[1],
			Genre:          row[2],
			Year:           p.atoi("year", row[3]),
			DurationMin:    p.atoi("duration_min", row[4]),
			Rating:         p.atof("rating", row[5]),
			Votes:          p.atoi("votes", row[6]),
			BudgetMillion:  p.atoi("budget_million", row[7]),
			RevenueMillion: p.atoi("revenue_million", row[8]),
		}
		if p.err != nil {
			return nil, nil, p.err
		}
		movies = append(movies, m)
	}

	ratingRows, err := readRows(filepath.Join(dir, RatingsFile), ratingHeader)
	if err != nil {
		return nil, nil, err
	}
	ratings := make([]Rating, 0, len(ratingRows))
	for i, row := range ratingRows {
		p := fieldParser{file: RatingsFile, line: i + 2}
		r := Rating{
			UserID:  p.atoi("user_id", row[0]),
			MovieID: p.atoi("movie_id", row[1]),
			Rating:  p.atoi("rating", row[2]),
		}
		if p.err != nil {
			return nil, nil, p.err
		}
		ratings = append(ratings, r)
	}
	return movies, ratings, nil
}

// readRows returns the data rows of a CSV file after checking its header.
func readRows(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: %v: %w", err, apperr.ErrIO)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)
	rows, err := r.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("load %s: %v: %w", filepath.Base(path), err, apperr.ErrInvalidInput)
		}
		return nil, fmt.Errorf("load %s: %v: %w", filepath.Base(path), err, apperr.ErrIO)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("load %s: missing header: %w", filepath.Base(path), apperr.ErrInvalidInput)
	}
	for i, name := range header {
		if rows[0][i] != name {
			return nil, fmt.Errorf("load %s: header column %d is %q, want %q: %w",
				filepath.Base(path), i+1, rows[0][i], name, apperr.ErrInvalidInput)
		}
	}
	return rows[1:], nil
}

// fieldParser keeps the first parse error of a row.
type fieldParser struct {
	file string
	line int
	err  error
}

func (p *fieldParser) atoi(name, s string) int {
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail(name, s)
	}
	return n
}

func (p *fieldParser) atof(name, s string) float64 {
	if p.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(name, s)
	}
	return f
}

func (p *fieldParser) fail(name, s string) {
	p.err = fmt.Errorf("load %s line %d: %s %q is not numeric: %w", p.file, p.line, name, s, apperr.ErrInvalidInput)
}
