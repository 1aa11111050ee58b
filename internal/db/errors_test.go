package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/tordrt/schemadoc/internal/errs"
)

func TestQueryErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"nil", nil, errs.ErrKindUnknown},
		{"plain", errors.New("boom"), errs.ErrKindQueryFailed},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), errs.ErrKindTimeout},
		{"canceled", context.Canceled, errs.ErrKindTimeout},
		{"sqlite not a db", sqlite3.Error{Code: sqlite3.ErrNotADB}, errs.ErrKindConnectionFailed},
		{"sqlite perm", sqlite3.Error{Code: sqlite3.ErrPerm}, errs.ErrKindPermissionDenied},
		{"sqlite syntax", sqlite3.Error{Code: sqlite3.ErrError}, errs.ErrKindQueryFailed},
		{"pg connection", &pgconn.PgError{Code: "08006"}, errs.ErrKindConnectionFailed},
		{"pg auth", &pgconn.PgError{Code: "28P01"}, errs.ErrKindPermissionDenied},
		{"pg insufficient privilege", &pgconn.PgError{Code: "42501"}, errs.ErrKindPermissionDenied},
		{"pg syntax", &pgconn.PgError{Code: "42601"}, errs.ErrKindQueryFailed},
		{"mysql access", &gomysql.MySQLError{Number: 1045}, errs.ErrKindPermissionDenied},
		{"mysql unknown db", &gomysql.MySQLError{Number: 1049}, errs.ErrKindConnectionFailed},
		{"mysql syntax", &gomysql.MySQLError{Number: 1064}, errs.ErrKindQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queryError("op", tt.err)
			if tt.err == nil {
				if got != nil {
					t.Errorf("queryError(nil) = %v, want nil", got)
				}
				return
			}
			if kind := errs.KindOf(got); kind != tt.want {
				t.Errorf("kind = %s, want %s", kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("engine error not preserved as cause")
			}
		})
	}
}

func TestConnectErrorKinds(t *testing.T) {
	if kind := errs.KindOf(connectError("open", errors.New("refused"))); kind != errs.ErrKindConnectionFailed {
		t.Errorf("kind = %s, want connection_failed", kind)
	}
	if kind := errs.KindOf(connectError("open", &pgconn.PgError{Code: "28000"})); kind != errs.ErrKindPermissionDenied {
		t.Errorf("kind = %s, want permission_denied", kind)
	}
	if kind := errs.KindOf(connectError("open", context.DeadlineExceeded)); kind != errs.ErrKindTimeout {
		t.Errorf("kind = %s, want timeout", kind)
	}
}

func TestParseMySQLDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		wantDB  string
		wantErr bool
	}{
		{name: "tcp dsn", dsn: "user:pass@tcp(localhost:3306)/shop", wantDB: "shop"},
		{name: "with params", dsn: "user:pass@tcp(db:3306)/shop?parseTime=true", wantDB: "shop"},
		{name: "no database", dsn: "user:pass@tcp(localhost:3306)/", wantDB: ""},
		{name: "malformed", dsn: "user:pass@tcp(localhost:3306", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseMySQLDSN(tt.dsn)
			if tt.wantErr {
				if !errs.IsInvalidInput(err) {
					t.Errorf("Expected invalid_input error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg.DBName != tt.wantDB {
				t.Errorf("DBName = %q, want %q", cfg.DBName, tt.wantDB)
			}
			if !cfg.MultiStatements {
				t.Error("MultiStatements should be enabled for script execution")
			}
		})
	}
}

func TestNewMySQLClient_NoDatabase(t *testing.T) {
	_, err := NewMySQLClient(context.Background(), "root@tcp(127.0.0.1:3306)/", "")
	if !errs.IsInvalidInput(err) {
		t.Errorf("NewMySQLClient() error = %v, want invalid_input", err)
	}
}
