package blob

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Postgres is a Store backed by a single key/value table. Useful when the
// service runs next to an existing postgres instead of on local disk.
type Postgres struct {
	DB *sql.DB
}

// ConnectPostgres opens a connection, verifies it, and ensures the kv table.
func ConnectPostgres(host, port, name, user, password string) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, name, user, password,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Postgres{DB: db}
	if err := s.ensureTable(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Postgres) ensureTable() error {
	_, err := s.DB.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	return err
}

func (s *Postgres) Read(key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRow(`SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Postgres) Write(key, value string) error {
	_, err := s.DB.Exec(
		`INSERT INTO kv (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	return err
}
