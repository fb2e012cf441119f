// Package storage keeps a catalog of recorded runs in SQLite. Runs are
// write-once trace exports: a stored run can be listed, plotted and
// exported but never turned back into a live model.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/oscilab/internal/oscillator"
)

const dbFile = "runs.db"

var (
	ErrRunNotFound = errors.New("run not found")
	ErrNonFinite   = errors.New("non-finite value")
)

type Store struct {
	conn *sqlx.DB
}

type RunMetadata struct {
	ID         string             `json:"id"`
	System     string             `json:"system"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	SlowMotion bool               `json:"slow_motion"`
	Samples    int                `json:"samples"`
	Params     map[string]float64 `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
}

type runRow struct {
	ID          string  `db:"id"`
	System      string  `db:"system"`
	CreatedAt   int64   `db:"created_at"`
	Dt          float64 `db:"dt"`
	Duration    float64 `db:"duration"`
	SlowMotion  bool    `db:"slow_motion"`
	Samples     int     `db:"samples"`
	ParamsJSON  string  `db:"params_json"`
	MetricsJSON string  `db:"metrics_json"`
}

type sampleRow struct {
	T     float64 `db:"t"`
	X     float64 `db:"x"`
	V     float64 `db:"v"`
	A     float64 `db:"a"`
	Ec    float64 `db:"ec"`
	Ep    float64 `db:"ep"`
	Et    float64 `db:"et"`
	Theta float64 `db:"theta"`
}

// Open opens or creates the catalog under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, dbFile)
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		system TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		dt REAL NOT NULL,
		duration REAL NOT NULL,
		slow_motion INTEGER NOT NULL,
		samples INTEGER NOT NULL,
		params_json TEXT NOT NULL,
		metrics_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL REFERENCES runs(id),
		idx INTEGER NOT NULL,
		t REAL NOT NULL,
		x REAL NOT NULL,
		v REAL NOT NULL,
		a REAL NOT NULL,
		ec REAL NOT NULL,
		ep REAL NOT NULL,
		et REAL NOT NULL,
		theta REAL NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Save records a finished run and returns its generated id. ID, Samples
// and a zero Timestamp in meta are filled in.
func (s *Store) Save(meta RunMetadata, samples []oscillator.Snapshot) (string, error) {
	if err := Check(meta, samples); err != nil {
		return "", err
	}
	meta.ID = uuid.NewString()
	meta.Samples = len(samples)
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	paramsJSON, err := json.Marshal(nonNil(meta.Params))
	if err != nil {
		return "", err
	}
	metricsJSON, err := json.Marshal(nonNil(meta.Metrics))
	if err != nil {
		return "", err
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO runs
		(id, system, created_at, dt, duration, slow_motion, samples, params_json, metrics_json)
		VALUES (:id, :system, :created_at, :dt, :duration, :slow_motion, :samples, :params_json, :metrics_json)`,
		runRow{
			ID:          meta.ID,
			System:      meta.System,
			CreatedAt:   meta.Timestamp.UnixNano(),
			Dt:          meta.Dt,
			Duration:    meta.Duration,
			SlowMotion:  meta.SlowMotion,
			Samples:     meta.Samples,
			ParamsJSON:  string(paramsJSON),
			MetricsJSON: string(metricsJSON),
		})
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO samples
		(run_id, idx, t, x, v, a, ec, ep, et, theta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, smp := range samples {
		if _, err := stmt.Exec(meta.ID, i, smp.Time, smp.Position, smp.Velocity, smp.Acceleration,
			smp.Kinetic, smp.Potential, smp.Total, smp.Angle); err != nil {
			return "", fmt.Errorf("insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// Check reports whether a run can be stored. JSON and the REAL NOT NULL
// sample columns both reject NaN, so a run with any non-finite reading is
// refused as a whole.
func Check(meta RunMetadata, samples []oscillator.Snapshot) error {
	for _, m := range []map[string]float64{meta.Params, meta.Metrics} {
		for _, k := range sortedKeys(m) {
			if !finite(m[k]) {
				return fmt.Errorf("%w: %s = %g", ErrNonFinite, k, m[k])
			}
		}
	}
	for _, smp := range samples {
		for _, v := range []float64{smp.Time, smp.Position, smp.Velocity, smp.Acceleration,
			smp.Kinetic, smp.Potential, smp.Total, smp.Angle} {
			if !finite(v) {
				return fmt.Errorf("%w: sample at t=%g", ErrNonFinite, smp.Time)
			}
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns every run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	var rows []runRow
	if err := s.conn.Select(&rows, "SELECT * FROM runs ORDER BY created_at DESC"); err != nil {
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(rows))
	for _, r := range rows {
		meta, err := r.metadata()
		if err != nil {
			return nil, err
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	var r runRow
	err := s.conn.Get(&r, "SELECT * FROM runs WHERE id = ?", runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	meta, err := r.metadata()
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]oscillator.Snapshot, error) {
	if _, err := s.Load(runID); err != nil {
		return nil, err
	}

	var rows []sampleRow
	err := s.conn.Select(&rows,
		"SELECT t, x, v, a, ec, ep, et, theta FROM samples WHERE run_id = ? ORDER BY idx",
		runID,
	)
	if err != nil {
		return nil, err
	}

	samples := make([]oscillator.Snapshot, len(rows))
	for i, r := range rows {
		samples[i] = oscillator.Snapshot{
			Time:         r.T,
			Position:     r.X,
			Velocity:     r.V,
			Acceleration: r.A,
			Kinetic:      r.Ec,
			Potential:    r.Ep,
			Total:        r.Et,
			Angle:        r.Theta,
		}
	}
	return samples, nil
}

func (r runRow) metadata() (RunMetadata, error) {
	meta := RunMetadata{
		ID:         r.ID,
		System:     r.System,
		Timestamp:  time.Unix(0, r.CreatedAt),
		Dt:         r.Dt,
		Duration:   r.Duration,
		SlowMotion: r.SlowMotion,
		Samples:    r.Samples,
	}
	if err := json.Unmarshal([]byte(r.ParamsJSON), &meta.Params); err != nil {
		return meta, fmt.Errorf("run %s params: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.MetricsJSON), &meta.Metrics); err != nil {
		return meta, fmt.Errorf("run %s metrics: %w", r.ID, err)
	}
	return meta, nil
}

func nonNil(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}
