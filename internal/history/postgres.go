package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dolarscope/backend/internal/contracts"
	"github.com/dolarscope/backend/pkg/logger"
)

// PostgresStore persists the series as a single jsonb row, mirroring
// the wholesale-overwrite semantics of the file backend.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(pool *pgxpool.Pool, log *logger.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		logger: log.WithField("store", "postgres"),
	}
}

// EnsureSchema creates the backing table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS score_history (
			id          smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			entries     jsonb NOT NULL,
			updated_at  timestamptz NOT NULL DEFAULT now()
		)`

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create score_history table: %w", err)
	}
	return nil
}

// Load reads the persisted series. Any query or parse failure degrades
// to an empty series.
func (s *PostgresStore) Load(ctx context.Context) []contracts.ScoreEntry {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT entries FROM score_history WHERE id = 1`).Scan(&raw)
	if err != nil {
		// No row yet is the normal first-run case; anything else is
		// worth a warning but still starts empty.
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.WithError(err).Warn("History query failed, starting empty")
		}
		return nil
	}

	var entries []contracts.ScoreEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.WithError(err).Warn("History parse failed, starting empty")
		return nil
	}

	return entries
}

// Save overwrites the single-row snapshot.
func (s *PostgresStore) Save(ctx context.Context, entries []contracts.ScoreEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO score_history (id, entries, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET entries = EXCLUDED.entries, updated_at = now()`,
		data,
	)
	if err != nil {
		return fmt.Errorf("persist history: %w", err)
	}

	return nil
}
