package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"invalid", fmt.Errorf("count -1: %w", ErrInvalidInput), ErrInvalidInput},
		{"not found", fmt.Errorf("movie 7: %w", ErrNotFound), ErrNotFound},
		{"io", fmt.Errorf("write movies.csv: %w", ErrIO), ErrIO},
		{"double wrapped", fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrNotFound)), ErrNotFound},
		{"other", errors.New("boom"), nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}
