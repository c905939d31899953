// Package store implements ceeifyd's compile-job history: one row per
// submitted source, its emitted output (or error) and its status, backed
// by SQLite.
//
// Grounded on server/dao/sqlite/sessions.go's Create/GetByID/GetAll shape
// (uuid.NewRandom for ids, a single prepared INSERT, wrapDBError for
// driver-error translation) and sqlite.go's NewDatastore/init-table
// pattern, using the same `modernc.org/sqlite` driver registered under
// the `"sqlite"` name.
package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// ErrNotFound is returned by GetByID when no job with that id exists,
// mirroring server/dao.ErrNotFound.
var ErrNotFound = errors.New("store: job not found")

// Status is a compile job's outcome.
type Status int

const (
	StatusOK Status = iota
	StatusError
)

func (s Status) String() string {
	if s == StatusError {
		return "error"
	}
	return "ok"
}

// Job is one compile-job history entry.
type Job struct {
	ID         uuid.UUID
	Source     string
	Output     string // emitted target source, empty on error
	ErrMessage string // populated when Status == StatusError
	Status     Status
	Created    time.Time
}

// Store is the compile-job history table.
type Store struct {
	db *sql.DB
}

// Open creates (or reuses) the SQLite database at path and ensures the
// jobs table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}
	st := &Store{db: db}
	if err := st.init(); err != nil {
		return nil, err
	}
	return st, nil
}

func (st *Store) init() error {
	_, err := st.db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT NOT NULL PRIMARY KEY,
		source TEXT NOT NULL,
		output TEXT NOT NULL,
		err_message TEXT NOT NULL,
		status INTEGER NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Create records a finished compile job and returns it with its assigned
// id and creation time.
func (st *Store) Create(ctx context.Context, j Job) (Job, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return Job{}, fmt.Errorf("store: could not generate id: %w", err)
	}
	j.ID = id
	j.Created = time.Now()

	stmt, err := st.db.Prepare(`INSERT INTO jobs
		(id, source, output, err_message, status, created)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Job{}, wrapDBError(err)
	}
	defer stmt.Close()

	encSource := base64.StdEncoding.EncodeToString(rezi.EncBinary(j.Source))
	_, err = stmt.ExecContext(ctx, j.ID.String(), encSource, j.Output, j.ErrMessage, int(j.Status), j.Created.Unix())
	if err != nil {
		return Job{}, wrapDBError(err)
	}
	return j, nil
}

// GetByID retrieves one job by id.
func (st *Store) GetByID(ctx context.Context, id uuid.UUID) (Job, error) {
	row := st.db.QueryRowContext(ctx, `SELECT source, output, err_message, status, created FROM jobs WHERE id = ?`, id.String())

	var encSource, output, errMsg string
	var status int
	var created int64
	if err := row.Scan(&encSource, &output, &errMsg, &status, &created); err != nil {
		return Job{}, wrapDBError(err)
	}

	source, err := decodeSource(encSource)
	if err != nil {
		return Job{}, err
	}

	return Job{
		ID: id, Source: source, Output: output, ErrMessage: errMsg,
		Status: Status(status), Created: time.Unix(created, 0),
	}, nil
}

// List returns every recorded job, most recent first.
func (st *Store) List(ctx context.Context) ([]Job, error) {
	rows, err := st.db.QueryContext(ctx, `SELECT id, source, output, err_message, status, created FROM jobs ORDER BY created DESC`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var idStr, encSource, output, errMsg string
		var status int
		var created int64
		if err := rows.Scan(&idStr, &encSource, &output, &errMsg, &status, &created); err != nil {
			return jobs, wrapDBError(err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return jobs, fmt.Errorf("store: stored id %q is invalid: %w", idStr, err)
		}
		source, err := decodeSource(encSource)
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, Job{
			ID: id, Source: source, Output: output, ErrMessage: errMsg,
			Status: Status(status), Created: time.Unix(created, 0),
		})
	}
	if err := rows.Err(); err != nil {
		return jobs, wrapDBError(err)
	}
	return jobs, nil
}

func decodeSource(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("store: stored source is not valid base64: %w", err)
	}
	var source string
	n, err := rezi.DecBinary(raw, &source)
	if err != nil {
		return "", fmt.Errorf("store: stored source could not be decoded: %w", err)
	}
	if n != len(raw) {
		return "", fmt.Errorf("store: stored source decoded %d/%d bytes", n, len(raw))
	}
	return source, nil
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("store: %s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
