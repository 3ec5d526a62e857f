package blob

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgres_ReadHit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM kv WHERE key`).
		WithArgs("schedule").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"monday":[]}`))

	s := &Postgres{DB: db}
	value, ok, err := s.Read("schedule")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !ok || value != `{"monday":[]}` {
		t.Errorf("Read = %q, %v", value, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgres_ReadMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM kv WHERE key`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	s := &Postgres{DB: db}
	_, ok, err := s.Read("missing")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Error("missing key must read as absent, not error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgres_ReadError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM kv WHERE key`).
		WithArgs("schedule").
		WillReturnError(errors.New("connection reset"))

	s := &Postgres{DB: db}
	if _, _, err := s.Read("schedule"); err == nil {
		t.Error("I/O failure must surface as an error")
	}
}

func TestPostgres_WriteUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO kv`).
		WithArgs("monitoring", "true").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := &Postgres{DB: db}
	if err := s.Write("monitoring", "true"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
