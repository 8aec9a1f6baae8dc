package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jagadeeswar-N-G/agent-nexus/pkg/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	errNotFound  = errors.New("record not found")
	errDuplicate = errors.New("record already exists")
)

func TestMapError(t *testing.T) {
	passthrough := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil stays nil",
			err:  nil,
			want: nil,
		},
		{
			name: "no rows maps to not found",
			err:  sql.ErrNoRows,
			want: errNotFound,
		},
		{
			name: "wrapped no rows maps to not found",
			err:  fmt.Errorf("query agents: %w", sql.ErrNoRows),
			want: errNotFound,
		},
		{
			name: "unique violation maps to duplicate",
			err:  &pgconn.PgError{Code: "23505"},
			want: errDuplicate,
		},
		{
			name: "wrapped unique violation maps to duplicate",
			err:  fmt.Errorf("insert agent: %w", &pgconn.PgError{Code: "23505"}),
			want: errDuplicate,
		},
		{
			name: "other pg errors pass through",
			err:  &pgconn.PgError{Code: "23503"},
		},
		{
			name: "other errors pass through",
			err:  passthrough,
			want: passthrough,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)

			if tt.want == nil && tt.err != nil {
				// Pass-through cases keep the original error.
				if !errors.Is(got, tt.err) {
					t.Errorf("MapError() = %v, want original %v", got, tt.err)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("MapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapError_DuplicateKeepsDomainError(t *testing.T) {
	// A second registration of the same key surfaces as the domain
	// duplicate error, never as a raw driver error.
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "agents_public_key_key"}

	got := repository.MapError(pgErr, errNotFound, errDuplicate)
	if !errors.Is(got, errDuplicate) {
		t.Fatalf("MapError() = %v, want %v", got, errDuplicate)
	}
	if errors.Is(got, errNotFound) {
		t.Error("duplicate must not satisfy not-found")
	}
}
