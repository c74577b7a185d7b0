package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/roster/internal/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantFatal bool
	}{
		{"nil", nil, false},
		{"unique violation", &pgconn.PgError{Code: "23505", Message: "duplicate key value"}, false},
		{"foreign key", &pgconn.PgError{Code: "23503"}, false},
		{"check violation", &pgconn.PgError{Code: "23514"}, false},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"in failed transaction", &pgconn.PgError{Code: "25P02"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"wrapped pg error", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "08003"}), true},
		{"eof", io.EOF, true},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"tx closed", pgx.ErrTxClosed, true},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("classify(nil) = %v", got)
				}
				return
			}
			if fatal := errors.Is(got, core.ErrTxUnusable); fatal != tt.wantFatal {
				t.Errorf("classify(%v) fatal = %v, want %v", tt.err, fatal, tt.wantFatal)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classify(%v) lost the original error", tt.err)
			}
		})
	}
}

func TestClassify_ContextPassesThrough(t *testing.T) {
	for _, err := range []error{context.Canceled, context.DeadlineExceeded} {
		got := classify(err)
		if got != err {
			t.Errorf("classify(%v) = %v, want unchanged", err, got)
		}
		if !core.IsTxFatal(got) {
			t.Errorf("IsTxFatal(%v) = false", got)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"ham":     "ham",
		"50%":     `50\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
		"":        "",
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToInet(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"203.0.113.9", "203.0.113.9"},
		{"203.0.113.9:5123", "203.0.113.9"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"2001:db8::1", "2001:db8::1"},
		{"", ""},
		{"not-an-ip", ""},
	}
	for _, tt := range tests {
		got := toInet(tt.in)
		if tt.want == "" {
			if got != nil {
				t.Errorf("toInet(%q) = %v, want nil", tt.in, got)
			}
			continue
		}
		if got == nil || got.String() != tt.want {
			t.Errorf("toInet(%q) = %v, want %s", tt.in, got, tt.want)
		}
	}
}

func TestToPgUUID(t *testing.T) {
	if got := toPgUUID("nope"); got.Valid {
		t.Error("toPgUUID(invalid) is valid")
	}
	if got := toPgUUID("8a4c1a5e-7d1f-4c7e-9a55-0f9d6a3a2b10"); !got.Valid {
		t.Error("toPgUUID(valid) is invalid")
	}
}
