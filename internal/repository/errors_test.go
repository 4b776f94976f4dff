package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestValidID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"6f1c6c1e-8f3a-4b7e-9a51-2f0a4c3d9e10", true},
		{"6F1C6C1E-8F3A-4B7E-9A51-2F0A4C3D9E10", true},
		{"", false},
		{"1", false},
		{"not-a-uuid", false},
		{"6f1c6c1e-8f3a-4b7e-9a51", false},
	}
	for _, tc := range cases {
		if got := validID(tc.id); got != tc.want {
			t.Errorf("validID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pq.Error{Code: "23505"}, true},
		{"wrapped", fmt.Errorf("create user: %w", &pq.Error{Code: "23505"}), true},
		{"foreign key violation", &pq.Error{Code: "23503"}, false},
		{"plain error", errors.New("23505"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("isUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	other := errors.New("connection reset")
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), ErrNotFound},
		{"other", other, other},
		{"nil", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := notFound(tc.err); got != tc.want {
				t.Fatalf("notFound(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

type result struct {
	rows int64
	err  error
}

func (r result) LastInsertId() (int64, error) { return 0, errors.New("unsupported") }
func (r result) RowsAffected() (int64, error) { return r.rows, r.err }

func TestExpectOne(t *testing.T) {
	driverErr := errors.New("driver does not report rows")
	cases := []struct {
		name string
		res  sql.Result
		want error
	}{
		{"one row", result{rows: 1}, nil},
		{"no row", result{rows: 0}, ErrNotFound},
		{"rows affected error", result{err: driverErr}, driverErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := expectOne(tc.res); got != tc.want {
				t.Fatalf("expectOne = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNullString(t *testing.T) {
	if ns := nullString(nil); ns.Valid {
		t.Fatalf("nullString(nil) = %+v, want NULL", ns)
	}
	empty := ""
	if ns := nullString(&empty); !ns.Valid || ns.String != "" {
		t.Fatalf("nullString(&\"\") = %+v, want valid empty string", ns)
	}
}

type row []any

func (r row) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("scan: %d columns, %d destinations", len(r), len(dest))
	}
	for i, v := range r {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *sql.NullString:
			if v == nil {
				*d = sql.NullString{}
			} else {
				*d = sql.NullString{String: v.(string), Valid: true}
			}
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func TestScanTask(t *testing.T) {
	now := time.Now().UTC()
	task, err := scanTask(row{"id", "owner", "title", nil, "Done", now, now})
	if err != nil {
		t.Fatalf("scanTask: %v", err)
	}
	if task.Description != nil || task.Status != "Done" || task.UserID != "owner" {
		t.Fatalf("unexpected task: %+v", task)
	}

	task, err = scanTask(row{"id", "owner", "title", "notes", "To Do", now, now})
	if err != nil {
		t.Fatalf("scanTask: %v", err)
	}
	if task.Description == nil || *task.Description != "notes" {
		t.Fatalf("description = %v, want notes", task.Description)
	}
}

// Non-UUID ids short-circuit before any query, so a nil pool is never touched.
func TestNonUUIDIDsAreNotFound(t *testing.T) {
	ctx := context.Background()
	if _, err := NewTaskRepository(nil).FindByID(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("TaskRepository.FindByID = %v, want ErrNotFound", err)
	}
	if err := NewTaskRepository(nil).Delete(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("TaskRepository.Delete = %v, want ErrNotFound", err)
	}
	if _, err := NewUserRepository(nil).FindByID(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UserRepository.FindByID = %v, want ErrNotFound", err)
	}
	if _, err := NewTokenRepository(nil).Find(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("TokenRepository.Find = %v, want ErrNotFound", err)
	}
}
