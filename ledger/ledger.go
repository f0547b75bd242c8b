// Package ledger implements SequenceLedger: an optional SQLite-backed
// journal of aliquot-sequence runs, using WAL-mode journaling for
// resumability across long-running sequences.
package ledger

import (
	"database/sql"
	"math/big"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/kryc/aliquot/aliquoterr"
)

// Outcome records why a run's loop stopped.
type Outcome string

const (
	OutcomeTerminated Outcome = "terminated" // sequence reached 0
	OutcomePerfect    Outcome = "perfect"    // fixed point: s(n) == n
	OutcomeCycle      Outcome = "cycle"      // amicable pair / sociable chain
	OutcomeAborted    Outcome = "aborted"    // caller-imposed limit or error
)

// Ledger is a SequenceLedger. The zero value is not usable; construct with
// Open.
type Ledger struct {
	db *sql.DB
}

// Open creates (if needed) and opens a SQLite ledger at path: WAL
// journaling and NORMAL synchronous mode for a long-running, resumable
// workload.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(aliquoterr.ErrIO, "ledger: open %s: %v", path, err)
	}

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			start_n TEXT,
			started_at INTEGER,
			finished_at INTEGER,
			outcome TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS steps (
			run_id TEXT,
			step INTEGER,
			value TEXT,
			PRIMARY KEY (run_id, step)
		)`,
		`PRAGMA journal_mode=WAL`,
		`PRAGMA synchronous=NORMAL`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Wrapf(aliquoterr.ErrIO, "ledger: init %s: %v", path, err)
		}
	}

	return &Ledger{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// StartRun records a new run and returns its generated run id.
func (l *Ledger) StartRun(n *big.Int) (string, error) {
	runID := uuid.NewString()
	_, err := l.db.Exec(
		`INSERT INTO runs (run_id, start_n, started_at) VALUES (?, ?, ?)`,
		runID, n.String(), time.Now().Unix(),
	)
	if err != nil {
		return "", errors.Wrapf(aliquoterr.ErrIO, "ledger: start run: %v", err)
	}
	return runID, nil
}

// RecordStep appends one sequence value for runID.
func (l *Ledger) RecordStep(runID string, step int, value *big.Int) error {
	_, err := l.db.Exec(
		`INSERT INTO steps (run_id, step, value) VALUES (?, ?, ?)`,
		runID, step, value.String(),
	)
	if err != nil {
		return errors.Wrapf(aliquoterr.ErrIO, "ledger: record step: %v", err)
	}
	return nil
}

// FinishRun marks runID complete with the given outcome.
func (l *Ledger) FinishRun(runID string, outcome Outcome) error {
	_, err := l.db.Exec(
		`UPDATE runs SET finished_at = ?, outcome = ? WHERE run_id = ?`,
		time.Now().Unix(), string(outcome), runID,
	)
	if err != nil {
		return errors.Wrapf(aliquoterr.ErrIO, "ledger: finish run: %v", err)
	}
	return nil
}

// Steps returns every recorded value for runID, in step order, letting a
// caller resume a previously interrupted sequence.
func (l *Ledger) Steps(runID string) ([]*big.Int, error) {
	rows, err := l.db.Query(`SELECT value FROM steps WHERE run_id = ? ORDER BY step ASC`, runID)
	if err != nil {
		return nil, errors.Wrapf(aliquoterr.ErrIO, "ledger: query steps: %v", err)
	}
	defer rows.Close()

	var values []*big.Int
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, errors.Wrapf(aliquoterr.ErrIO, "ledger: scan step: %v", err)
		}
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, errors.Wrapf(aliquoterr.ErrValidation, "ledger: malformed step value %q", s)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
