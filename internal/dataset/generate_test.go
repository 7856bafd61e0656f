package dataset

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"moviedash/internal/apperr"
)

func TestGenerateCatalogDeterministic(t *testing.T) {
	a, err := GenerateCatalog(100, 42)
	if err != nil {
		t.Fatalf("GenerateCatalog: %v", err)
	}
	// An unrelated generation in between must not disturb the sequence.
	if _, err := GenerateRatings(50, 100, 42); err != nil {
		t.Fatalf("GenerateRatings: %v", err)
	}
	b, err := GenerateCatalog(100, 42)
	if err != nil {
		t.Fatalf("GenerateCatalog: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("expected identical catalogs for the same count and seed")
	}

	c, err := GenerateCatalog(100, 43)
	if err != nil {
		t.Fatalf("GenerateCatalog: %v", err)
	}
	if reflect.DeepEqual(a, c) {
		t.Error("expected different seeds to produce different catalogs")
	}
}

func TestGenerateCatalogFieldRanges(t *testing.T) {
	movies, err := GenerateCatalog(500, 7)
	if err != nil {
		t.Fatalf("GenerateCatalog: %v", err)
	}
	if len(movies) != 500 {
		t.Fatalf("len = %d, want 500", len(movies))
	}

	titles := make(map[string]bool, len(movies))
	for i, m := range movies {
		if m.MovieID != i+1 {
			t.Errorf("movie %d: id = %d, want %d", i, m.MovieID, i+1)
		}
		if titles[m.Title] {
			t.Errorf("duplicate title %q", m.Title)
		}
		titles[m.Title] = true
		if !strings.HasPrefix(m.Title, "Movie_") {
			t.Errorf("title %q lacks Movie_ prefix", m.Title)
		}
		if !IsGenre(m.Genre) {
			t.Errorf("movie %d: unknown genre %q", m.MovieID, m.Genre)
		}
		if m.Year < 1990 || m.Year > 2023 {
			t.Errorf("movie %d: year %d out of range", m.MovieID, m.Year)
		}
		if m.DurationMin < 80 || m.DurationMin > 179 {
			t.Errorf("movie %d: duration %d out of range", m.MovieID, m.DurationMin)
		}
		if m.Rating < 3.0 || m.Rating > 9.5 {
			t.Errorf("movie %d: rating %v out of range", m.MovieID, m.Rating)
		}
		if m.Rating != round1(m.Rating) {
			t.Errorf("movie %d: rating %v has more than one decimal", m.MovieID, m.Rating)
		}
		if m.Votes < 1000 || m.Votes > 499999 {
			t.Errorf("movie %d: votes %d out of range", m.MovieID, m.Votes)
		}
		if m.BudgetMillion < 5 || m.BudgetMillion > 199 {
			t.Errorf("movie %d: budget %d out of range", m.MovieID, m.BudgetMillion)
		}
		lo, hi := m.BudgetMillion/2, m.BudgetMillion*5
		if m.RevenueMillion < lo || m.RevenueMillion >= hi {
			t.Errorf("movie %d: revenue %d outside [%d, %d)", m.MovieID, m.RevenueMillion, lo, hi)
		}
	}
}

func TestGenerateCatalogEdgeCounts(t *testing.T) {
	movies, err := GenerateCatalog(0, 42)
	if err != nil {
		t.Fatalf("count 0: %v", err)
	}
	if movies == nil || len(movies) != 0 {
		t.Errorf("count 0: got %v, want empty non-nil slice", movies)
	}

	_, err = GenerateCatalog(-1, 42)
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("count -1: err = %v, want ErrInvalidInput", err)
	}
}

func TestGenerateRatings(t *testing.T) {
	ratings, err := GenerateRatings(50, 100, 42)
	if err != nil {
		t.Fatalf("GenerateRatings: %v", err)
	}

	perUser := make(map[int]map[int]bool)
	for _, r := range ratings {
		if r.UserID < 1 || r.UserID > 50 {
			t.Errorf("user id %d out of range", r.UserID)
		}
		if r.MovieID < 1 || r.MovieID > 100 {
			t.Errorf("movie id %d out of range", r.MovieID)
		}
		if r.Rating < 1 || r.Rating > 5 {
			t.Errorf("rating %d out of range", r.Rating)
		}
		seen := perUser[r.UserID]
		if seen == nil {
			seen = make(map[int]bool)
			perUser[r.UserID] = seen
		}
		if seen[r.MovieID] {
			t.Errorf("user %d rated movie %d twice", r.UserID, r.MovieID)
		}
		seen[r.MovieID] = true
	}
	if len(perUser) != 50 {
		t.Errorf("got ratings for %d users, want 50", len(perUser))
	}
	for user, movies := range perUser {
		if n := len(movies); n < 5 || n > 29 {
			t.Errorf("user %d rated %d movies, want [5, 29]", user, n)
		}
	}

	again, err := GenerateRatings(50, 100, 42)
	if err != nil {
		t.Fatalf("GenerateRatings: %v", err)
	}
	if !reflect.DeepEqual(ratings, again) {
		t.Error("expected identical ratings for the same arguments")
	}
}

func TestGenerateRatingsEdgeCounts(t *testing.T) {
	tests := []struct {
		name    string
		users   int
		movies  int
		wantErr bool
		wantLen int
	}{
		{name: "no users", users: 0, movies: 100, wantLen: 0},
		{name: "no movies", users: 10, movies: 0, wantLen: 0},
		{name: "tiny catalog", users: 4, movies: 3, wantLen: 12},
		{name: "negative users", users: -1, movies: 10, wantErr: true},
		{name: "negative movies", users: 1, movies: -10, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratings, err := GenerateRatings(tt.users, tt.movies, 1)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrInvalidInput) {
					t.Fatalf("err = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ratings == nil {
				t.Error("expected non-nil slice")
			}
			if len(ratings) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(ratings), tt.wantLen)
			}
		})
	}
}

func TestSampleWithoutReplacement(t *testing.T) {
	rng := newRand(3)
	got := sampleWithoutReplacement(rng, 10, 10)
	seen := make(map[int]bool)
	for _, v := range got {
		if v < 0 || v >= 10 || seen[v] {
			t.Fatalf("invalid sample %v", got)
		}
		seen[v] = true
	}
	if len(sampleWithoutReplacement(rng, 10, 0)) != 0 {
		t.Error("expected empty sample for k=0")
	}
}
