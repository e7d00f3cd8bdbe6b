package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/agentdex/agentdex/pkg/corpus"
	"github.com/agentdex/agentdex/pkg/logger"
)

// Record is a row in the agents table
type Record struct {
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category,omitempty"`
	Description string    `db:"description" json:"description"`
	Tools       string    `db:"tools" json:"tools,omitempty"`
	Model       string    `db:"model" json:"model,omitempty"`
	Color       string    `db:"color" json:"color,omitempty"`
	Path        string    `db:"path" json:"path"`
	SizeBytes   int64     `db:"size_bytes" json:"sizeBytes"`
	Checksum    string    `db:"checksum" json:"checksum"`
	IndexedAt   time.Time `db:"indexed_at" json:"indexedAt"`
}

// InstallReceipt is a row in the installs table
type InstallReceipt struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	SourcePath  string    `db:"source_path" json:"sourcePath"`
	TargetPath  string    `db:"target_path" json:"targetPath"`
	Checksum    string    `db:"checksum" json:"checksum"`
	InstalledAt time.Time `db:"installed_at" json:"installedAt"`
}

// Store wraps the catalog database
type Store struct {
	db *sqlx.DB
}

// NewStore opens the catalog at dbPath and applies pending migrations.
// An empty dbPath uses the default location.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	if dbPath == "" {
		var err error
		dbPath, err = DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	db, err := Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	runner := &migrationRunner{db: db}
	if err := runner.run(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Reindex replaces the agents table with the current corpus contents.
func (s *Store) Reindex(ctx context.Context, c *corpus.Corpus) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM agents"); err != nil {
		return 0, errors.Wrap(err, "failed to clear agents table")
	}

	now := time.Now()
	indexed := 0
	for _, name := range c.Names() {
		a, _ := c.Get(name)

		checksum, err := fileChecksum(a.Path)
		if err != nil {
			logger.G(ctx).WithField("path", a.Path).WithError(err).Warn("Failed to checksum agent file")
		}

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO agents (name, category, description, tools, model, color, path, size_bytes, checksum, indexed_at)
			VALUES (:name, :category, :description, :tools, :model, :color, :path, :size_bytes, :checksum, :indexed_at)
		`, Record{
			Name:        a.Name(),
			Category:    a.Category,
			Description: a.Metadata.Description,
			Tools:       strings.Join(a.Metadata.Tools, ","),
			Model:       a.Metadata.Model,
			Color:       a.Metadata.Color,
			Path:        a.Path,
			SizeBytes:   a.Size,
			Checksum:    checksum,
			IndexedAt:   now,
		}); err != nil {
			return 0, errors.Wrapf(err, "failed to index agent '%s'", a.Name())
		}
		indexed++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit reindex")
	}

	return indexed, nil
}

// Search returns indexed agents whose name, description, or tools contain
// the query, case-insensitively. An empty query returns everything.
func (s *Store) Search(ctx context.Context, query string) ([]Record, error) {
	var records []Record
	pattern := "%" + strings.ToLower(query) + "%"

	err := s.db.SelectContext(ctx, &records, `
		SELECT name, category, description, tools, model, color, path, size_bytes, checksum, indexed_at
		FROM agents
		WHERE lower(name) LIKE ? OR lower(description) LIKE ? OR lower(tools) LIKE ?
		ORDER BY name
	`, pattern, pattern, pattern)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search catalog")
	}

	return records, nil
}

// RecordInstall upserts an install receipt for an agent/target pair.
func (s *Store) RecordInstall(ctx context.Context, receipt InstallReceipt) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO installs (id, name, source_path, target_path, checksum, installed_at)
		VALUES (:id, :name, :source_path, :target_path, :checksum, :installed_at)
		ON CONFLICT(name, target_path) DO UPDATE SET
			source_path = excluded.source_path,
			checksum = excluded.checksum,
			installed_at = excluded.installed_at
	`, receipt)
	return errors.Wrapf(err, "failed to record install of '%s'", receipt.Name)
}

// RemoveInstall deletes install receipts for an agent name.
func (s *Store) RemoveInstall(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM installs WHERE name = ?", name)
	return errors.Wrapf(err, "failed to remove install receipt for '%s'", name)
}

// ListInstalls returns all install receipts ordered by agent name.
func (s *Store) ListInstalls(ctx context.Context) ([]InstallReceipt, error) {
	var receipts []InstallReceipt
	err := s.db.SelectContext(ctx, &receipts, `
		SELECT id, name, source_path, target_path, checksum, installed_at
		FROM installs ORDER BY name
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list installs")
	}
	return receipts, nil
}

// fileChecksum returns the hex sha256 of a file's contents.
func fileChecksum(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}
