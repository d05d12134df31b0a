package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"linkshelf/internal/platform/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var tokenColumns = []string{"id", "token_hash", "name", "short_token", "user", "created_at"}

func TestTokenRepository_FindByDigest(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepository(db)
	query := regexp.QuoteMeta(`SELECT id, token_hash, name, short_token, user, created_at FROM tokens WHERE token_hash = ?`)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("digest-1").
			WillReturnRows(sqlmock.NewRows(tokenColumns).
				AddRow("tok1", "digest-1", "ci", "AbCd", "user:u1", 1700000000))

		record, err := repo.FindByDigest(context.Background(), "digest-1")
		if err != nil {
			t.Fatalf("FindByDigest failed: %v", err)
		}
		if record == nil || record.Owner != "user:u1" || record.ShortToken != "AbCd" || record.Name != "ci" {
			t.Errorf("Unexpected record: %+v", record)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		record, err := repo.FindByDigest(context.Background(), "missing")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if record != nil {
			t.Errorf("Expected nil record, got %+v", record)
		}
	})

	t.Run("Backend Error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("digest-2").
			WillReturnError(errors.New("disk I/O error"))

		if _, err := repo.FindByDigest(context.Background(), "digest-2"); err == nil {
			t.Error("Expected backend error to propagate")
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestTokenRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tokens (id, token_hash, name, short_token, user, created_at)`)).
		WithArgs(sqlmock.AnyArg(), "digest-1", "ci", "AbCd", "user:u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	token := &models.Token{TokenHash: "digest-1", Name: "ci", ShortToken: "AbCd", User: "user:u1"}
	if err := repo.Create(context.Background(), token); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if token.ID == "" || token.CreatedAt == 0 {
		t.Errorf("Expected id and timestamp to be assigned, got %+v", token)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestTokenRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepository(db)
	query := regexp.QuoteMeta(`DELETE FROM tokens WHERE id = ? AND user = ?`)

	mock.ExpectExec(query).WithArgs("tok1", "user:u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("tok1", "user:u2").WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "tok1", "user:u1")
	if err != nil || !deleted {
		t.Errorf("Expected owner delete to succeed, got %v, %v", deleted, err)
	}

	deleted, err = repo.Delete(context.Background(), "tok1", "user:u2")
	if err != nil || deleted {
		t.Errorf("Expected foreign delete to be a no-op, got %v, %v", deleted, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestTokenRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM tokens WHERE user = ?`)).
		WithArgs("user:u1").
		WillReturnRows(sqlmock.NewRows(tokenColumns).
			AddRow("tok2", "d2", "deploy", "EfGh", "user:u1", 1700000100).
			AddRow("tok1", "d1", "ci", "AbCd", "user:u1", 1700000000))

	tokens, err := repo.ListByUser(context.Background(), "user:u1")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(tokens) != 2 || tokens[0].ID != "tok2" || tokens[1].ShortToken != "AbCd" {
		t.Errorf("Unexpected tokens: %+v", tokens)
	}
}
