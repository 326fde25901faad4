package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "ad_requests_campaign_id_fkey"}, ErrReferenced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(tt.err); !errors.Is(got, tt.target) {
				t.Errorf("translate(%v) = %v, want %v", tt.err, got, tt.target)
			}
		})
	}

	if translate(nil) != nil {
		t.Error("translate(nil) should be nil")
	}

	other := errors.New("connection reset")
	if got := translate(other); got != other {
		t.Errorf("translate should pass unknown errors through, got %v", got)
	}
}

func TestRequireAffected(t *testing.T) {
	if err := requireAffected(pgconn.NewCommandTag("UPDATE 0"), nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for zero rows, got %v", err)
	}
	if err := requireAffected(pgconn.NewCommandTag("DELETE 1"), nil); err != nil {
		t.Errorf("expected nil for one row, got %v", err)
	}
}

func TestWhereClause(t *testing.T) {
	if got := whereClause(nil); got != "" {
		t.Errorf("whereClause(nil) = %q", got)
	}
	if got := whereClause([]string{"a = $1", "b = $2"}); got != " WHERE a = $1 AND b = $2" {
		t.Errorf("whereClause = %q", got)
	}
}

func TestClampLimit(t *testing.T) {
	tests := map[int]int{0: 20, -5: 20, 1: 1, 100: 100, 101: 20}
	for in, want := range tests {
		if got := clampLimit(in); got != want {
			t.Errorf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestClampPaging(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 20, 0},
		{-5, -1, 20, 0},
		{101, 40, 20, 40},
		{100, 3, 100, 3},
		{1, -100, 1, 0},
	}

	for _, tt := range tests {
		if got := clampLimit(tt.limit); got != tt.wantLimit {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.limit, got, tt.wantLimit)
		}
		if got := clampOffset(tt.offset); got != tt.wantOffset {
			t.Errorf("clampOffset(%d) = %d, want %d", tt.offset, got, tt.wantOffset)
		}
	}
}
