package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dolarscope/backend/internal/contracts"
	"github.com/dolarscope/backend/pkg/logger"
)

// FileStore persists the series to one JSON file. It is the default
// backend when no database is configured.
type FileStore struct {
	path   string
	logger *logger.Logger
}

// NewFileStore creates a file-backed store.
func NewFileStore(path string, log *logger.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: log.WithField("store", "file"),
	}
}

// Load reads the persisted series. A missing file, unreadable file or
// malformed payload all degrade to an empty series.
func (s *FileStore) Load(ctx context.Context) []contracts.ScoreEntry {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).Warn("History read failed, starting empty")
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

// Save overwrites the persisted series wholesale.
func (s *FileStore) Save(ctx context.Context, entries []contracts.ScoreEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}

	return nil
}
