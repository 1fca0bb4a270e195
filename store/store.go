// ABOUTME: SQLite persistence for network documents and their analysis runs.
// ABOUTME: Provides upsert, get, list, and delete operations plus analysis lifecycle updates.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound indicates a lookup for a record that does not exist.
var ErrNotFound = errors.New("not found")

// Analysis lifecycle statuses.
const (
	AnalysisPending   = "pending"
	AnalysisRunning   = "running"
	AnalysisCompleted = "completed"
	AnalysisFailed    = "failed"
	AnalysisCancelled = "cancelled"
)

// NetworkRecord is a stored network document with its metadata.
type NetworkRecord struct {
	NetworkID   string
	Name        string
	Description string
	Document    string // YAML source of the network definition
	NodeCount   int
	Notes       string // markdown notes attached by the user
	CreatedAt   string
	UpdatedAt   string
}

// NetworkSummary is a network row trimmed for list queries.
type NetworkSummary struct {
	NetworkID   string
	Name        string
	Description string
	NodeCount   int
	UpdatedAt   string
}

// AnalysisRecord is one analysis run against a stored network.
type AnalysisRecord struct {
	AnalysisID string
	NetworkID  string
	Status     string
	StateCap   uint64
	StepCap    uint64
	Result     *string // JSON result, set once completed
	Error      *string // failure message, set when failed
	CreatedAt  string
	FinishedAt *string
}

// Store is a SQLite-backed repository for networks and analyses.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path and ensures the
// schema is in place.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS networks (
			network_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			document TEXT NOT NULL,
			node_count INTEGER NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS analyses (
			analysis_id TEXT PRIMARY KEY,
			network_id TEXT NOT NULL,
			status TEXT NOT NULL,
			state_cap INTEGER NOT NULL,
			step_cap INTEGER NOT NULL,
			result TEXT,
			error TEXT,
			created_at TEXT NOT NULL,
			finished_at TEXT,
			FOREIGN KEY (network_id) REFERENCES networks(network_id)
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveNetwork upserts a network record. CreatedAt is preserved on
// update and UpdatedAt is always refreshed. Notes survive re-imports of
// the document; use UpdateNotes to change them.
func (s *Store) SaveNetwork(rec *NetworkRecord) error {
	now := timestamp()
	if rec.CreatedAt == "" {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := s.db.Exec(
		`INSERT INTO networks (network_id, name, description, document, node_count, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(network_id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			document = excluded.document,
			node_count = excluded.node_count,
			updated_at = excluded.updated_at`,
		rec.NetworkID,
		rec.Name,
		rec.Description,
		rec.Document,
		rec.NodeCount,
		rec.Notes,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert network: %w", err)
	}
	return nil
}

// GetNetwork fetches one network by id.
func (s *Store) GetNetwork(networkID string) (*NetworkRecord, error) {
	var rec NetworkRecord
	err := s.db.QueryRow(
		`SELECT network_id, name, description, document, node_count, notes, created_at, updated_at
		 FROM networks WHERE network_id = ?`, networkID).
		Scan(&rec.NetworkID, &rec.Name, &rec.Description, &rec.Document,
			&rec.NodeCount, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("network %s: %w", networkID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query network: %w", err)
	}
	return &rec, nil
}

// ListNetworks returns all networks as summaries, newest first.
func (s *Store) ListNetworks() ([]NetworkSummary, error) {
	rows, err := s.db.Query(
		`SELECT network_id, name, description, node_count, updated_at
		 FROM networks ORDER BY updated_at DESC, network_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query networks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var networks []NetworkSummary
	for rows.Next() {
		var n NetworkSummary
		if err := rows.Scan(&n.NetworkID, &n.Name, &n.Description, &n.NodeCount, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan network row: %w", err)
		}
		networks = append(networks, n)
	}
	return networks, rows.Err()
}

// DeleteNetwork removes a network and every analysis recorded against it.
func (s *Store) DeleteNetwork(networkID string) error {
	if _, err := s.db.Exec("DELETE FROM analyses WHERE network_id = ?", networkID); err != nil {
		return fmt.Errorf("delete analyses: %w", err)
	}

	res, err := s.db.Exec("DELETE FROM networks WHERE network_id = ?", networkID)
	if err != nil {
		return fmt.Errorf("delete network: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete network: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("network %s: %w", networkID, ErrNotFound)
	}
	return nil
}

// UpdateNotes replaces a network's markdown notes.
func (s *Store) UpdateNotes(networkID, notes string) error {
	res, err := s.db.Exec(
		"UPDATE networks SET notes = ?, updated_at = ? WHERE network_id = ?",
		notes, timestamp(), networkID)
	if err != nil {
		return fmt.Errorf("update notes: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update notes: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("network %s: %w", networkID, ErrNotFound)
	}
	return nil
}

// CreateAnalysis inserts a new analysis run, normally in pending status.
func (s *Store) CreateAnalysis(rec *AnalysisRecord) error {
	if rec.CreatedAt == "" {
		rec.CreatedAt = timestamp()
	}

	_, err := s.db.Exec(
		`INSERT INTO analyses (analysis_id, network_id, status, state_cap, step_cap, result, error, created_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.AnalysisID,
		rec.NetworkID,
		rec.Status,
		int64(rec.StateCap),
		int64(rec.StepCap),
		rec.Result,
		rec.Error,
		rec.CreatedAt,
		rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// SetAnalysisStatus moves an analysis to a new lifecycle status without
// touching its result.
func (s *Store) SetAnalysisStatus(analysisID, status string) error {
	res, err := s.db.Exec(
		"UPDATE analyses SET status = ? WHERE analysis_id = ?", status, analysisID)
	if err != nil {
		return fmt.Errorf("update analysis status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update analysis status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("analysis %s: %w", analysisID, ErrNotFound)
	}
	return nil
}

// FinishAnalysis records an analysis run's terminal status together with
// its result JSON or failure message.
func (s *Store) FinishAnalysis(analysisID, status string, result, errMsg *string) error {
	now := timestamp()
	res, err := s.db.Exec(
		`UPDATE analyses SET status = ?, result = ?, error = ?, finished_at = ?
		 WHERE analysis_id = ?`,
		status, result, errMsg, now, analysisID)
	if err != nil {
		return fmt.Errorf("finish analysis: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish analysis: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("analysis %s: %w", analysisID, ErrNotFound)
	}
	return nil
}

// GetAnalysis fetches one analysis by id.
func (s *Store) GetAnalysis(analysisID string) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	var stateCap, stepCap int64
	err := s.db.QueryRow(
		`SELECT analysis_id, network_id, status, state_cap, step_cap, result, error, created_at, finished_at
		 FROM analyses WHERE analysis_id = ?`, analysisID).
		Scan(&rec.AnalysisID, &rec.NetworkID, &rec.Status, &stateCap, &stepCap,
			&rec.Result, &rec.Error, &rec.CreatedAt, &rec.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis %s: %w", analysisID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}
	rec.StateCap = uint64(stateCap)
	rec.StepCap = uint64(stepCap)
	return &rec, nil
}

// ListAnalyses returns every analysis for a network, newest first.
func (s *Store) ListAnalyses(networkID string) ([]AnalysisRecord, error) {
	rows, err := s.db.Query(
		`SELECT analysis_id, network_id, status, state_cap, step_cap, result, error, created_at, finished_at
		 FROM analyses WHERE network_id = ? ORDER BY created_at DESC, analysis_id DESC`,
		networkID)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var analyses []AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		var stateCap, stepCap int64
		if err := rows.Scan(&rec.AnalysisID, &rec.NetworkID, &rec.Status, &stateCap, &stepCap,
			&rec.Result, &rec.Error, &rec.CreatedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		rec.StateCap = uint64(stateCap)
		rec.StepCap = uint64(stepCap)
		analyses = append(analyses, rec)
	}
	return analyses, rows.Err()
}

// timestamp formats the current UTC time the way every stored row does.
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
