// Package store persists top-level definitions and the evaluation transcript so
// that a later session can pick up where the previous one stopped.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var ErrUnsupportedDriver = errors.New("unsupported store driver")

// Definition is a top-level def in re-parseable source form.
type Definition struct {
	Name      string
	Code      string
	CreatedAt time.Time
}

// Entry is one evaluated input and what was printed for it.
type Entry struct {
	ID        int64
	Input     string
	Output    string
	Failed    bool
	CreatedAt time.Time
}

type Store struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// Open connects to dsn with one of the sqlite3, mysql or postgres drivers and
// creates the tables if they are missing.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if driver == "sqlite3" {
		// sqlite allows one writer at a time
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, dialect: d, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	slog.Debug("store opened", "driver", driver)
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDefinition replaces any earlier definition of the same name. The
// replacement sorts last so replaying definitions keeps the latest one.
func (s *Store) SaveDefinition(ctx context.Context, name, code string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, s.dialect.rebind(`DELETE FROM definitions WHERE name = ?`), name); err != nil {
		return fmt.Errorf("failed to save definition %s: %w", name, err)
	}
	if _, err = tx.ExecContext(ctx,
		s.dialect.rebind(`INSERT INTO definitions (name, code, created_at) VALUES (?, ?, ?)`),
		name, code, s.now().UnixMilli(),
	); err != nil {
		return fmt.Errorf("failed to save definition %s: %w", name, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit definition %s: %w", name, err)
	}
	return nil
}

// Definitions returns every stored definition in the order it was made.
func (s *Store) Definitions(ctx context.Context) ([]Definition, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, code, created_at FROM definitions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var defs []Definition
	for rows.Next() {
		var d Definition
		var created int64
		if err := rows.Scan(&d.Name, &d.Code, &created); err != nil {
			return nil, err
		}
		d.CreatedAt = time.UnixMilli(created)
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

func (s *Store) DeleteDefinitions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM definitions`)
	return err
}

func (s *Store) RecordEval(ctx context.Context, input, output string, failed bool) (int64, error) {
	query := `INSERT INTO transcript (input, output, failed, created_at) VALUES (?, ?, ?, ?)`
	args := []any{input, output, failed, s.now().UnixMilli()}

	// lib/pq does not implement LastInsertId
	if s.dialect.numbered {
		var id int64
		err := s.db.QueryRowContext(ctx, s.dialect.rebind(query)+" RETURNING id", args...).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to record evaluation: %w", err)
		}
		return id, nil
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to record evaluation: %w", err)
	}
	return result.LastInsertId()
}

// Transcript returns the last limit entries oldest first. A limit of zero or
// less returns everything.
func (s *Store) Transcript(ctx context.Context, limit int) ([]Entry, error) {
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx,
			s.dialect.rebind(`SELECT id, input, output, failed, created_at FROM transcript ORDER BY id DESC LIMIT ?`),
			limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT id, input, output, failed, created_at FROM transcript ORDER BY id DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Input, &e.Output, &e.Failed, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
