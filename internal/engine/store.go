package engine

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ArtifactStore persists finished sessions and their artifacts in
// SQLite. The core pipeline never touches it; the tool layer saves
// after orchestration and reads for edit/lookup.
type ArtifactStore struct {
	db *sql.DB
}

// SessionRecord is one stored batch run.
type SessionRecord struct {
	ID          string          `json:"session_id"`
	Input       string          `json:"input"`
	StylePreset string          `json:"style_preset,omitempty"`
	CreatedAt   string          `json:"created_at"`
	Outcomes    []SourceOutcome `json:"outcomes"`
}

// OpenStore opens (or creates) the store at path. An empty path uses
// ~/.repurpose/repurpose.db.
func OpenStore(path string) (*ArtifactStore, error) {
	if path == "" {
		dir := filepath.Join(os.Getenv("HOME"), ".repurpose")
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
		}
		path = filepath.Join(dir, "repurpose.db")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initStoreSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &ArtifactStore{db: db}, nil
}

func initStoreSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		input        TEXT NOT NULL,
		style_preset TEXT,
		outcomes     TEXT NOT NULL,
		created_at   TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS artifacts (
		content_id   TEXT PRIMARY KEY,
		session_id   TEXT NOT NULL,
		source_id    TEXT NOT NULL,
		content_type TEXT NOT NULL,
		title        TEXT,
		payload      TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_artifacts_session ON artifacts(session_id)`)
	return err
}

// Close releases the underlying database handle.
func (s *ArtifactStore) Close() error { return s.db.Close() }

func newSessionID() string {
	var b [8]byte
	rand.Read(b[:]) //nolint:errcheck
	return "sess_" + hex.EncodeToString(b[:])
}

// SaveSession persists a finished run and every accepted artifact.
// Returns the generated session id.
func (s *ArtifactStore) SaveSession(ctx context.Context, input, stylePreset string, outcomes []SourceOutcome) (string, error) {
	outcomesJSON, err := json.Marshal(outcomes)
	if err != nil {
		return "", fmt.Errorf("store: encode outcomes: %w", err)
	}

	id := newSessionID()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, input, style_preset, outcomes, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, input, stylePreset, string(outcomesJSON), now,
	); err != nil {
		return "", fmt.Errorf("store: insert session: %w", err)
	}

	for _, out := range outcomes {
		for _, a := range out.Artifacts {
			payload, err := json.Marshal(a)
			if err != nil {
				return "", fmt.Errorf("store: encode artifact %s: %w", a.ArtifactID(), err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO artifacts (content_id, session_id, source_id, content_type, title, payload, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				a.ArtifactID(), id, out.Source.ID, string(a.Type()), a.Title(), string(payload), now, now,
			); err != nil {
				return "", fmt.Errorf("store: insert artifact %s: %w", a.ArtifactID(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// GetSession returns a stored session with its outcomes.
func (s *ArtifactStore) GetSession(ctx context.Context, id string) (*SessionRecord, error) {
	var rec SessionRecord
	var preset sql.NullString
	var outcomesJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, input, style_preset, outcomes, created_at FROM sessions WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Input, &preset, &outcomesJSON, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: session %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get session: %w", err)
	}
	rec.StylePreset = preset.String
	if err := json.Unmarshal([]byte(outcomesJSON), &rec.Outcomes); err != nil {
		return nil, fmt.Errorf("store: decode outcomes: %w", err)
	}
	return &rec, nil
}

// GetArtifact loads one artifact by content id.
func (s *ArtifactStore) GetArtifact(ctx context.Context, contentID string) (Artifact, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM artifacts WHERE content_id = ?`, contentID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: artifact %s not found", contentID)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get artifact: %w", err)
	}
	a, err := decodeArtifact([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("store: decode artifact %s: %w", contentID, err)
	}
	return a, nil
}

// UpdateArtifact replaces an existing artifact's payload, keeping its
// content id. Used after a successful edit.
func (s *ArtifactStore) UpdateArtifact(ctx context.Context, a Artifact) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("store: encode artifact: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`UPDATE artifacts SET payload = ?, title = ?, updated_at = ? WHERE content_id = ?`,
		string(payload), a.Title(), now, a.ArtifactID(),
	)
	if err != nil {
		return fmt.Errorf("store: update artifact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: artifact %s not found", a.ArtifactID())
	}
	return nil
}
