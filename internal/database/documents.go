// Package database provides Postgres-backed persistence of document
// metadata so crawls are auditable after the fact.
package database

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibtikar-org-tr/rag-crawler/internal/document"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// DocumentRow is what gets persisted per cleaned document.
type DocumentRow struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	Language    string    `json:"language"`
	WordCount   int       `json:"word_count"`
	CharCount   int       `json:"char_count"`
	CrawledAt   time.Time `json:"crawled_at"`
}

// DocumentStore writes document metadata rows into Postgres.
type DocumentStore struct {
	pool  pgxPool
	table string
}

// New creates a Postgres-backed DocumentStore using the provided config.
func New(ctx context.Context, cfg Config) (*DocumentStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	table, err := tableName(cfg.Table)
	if err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &DocumentStore{pool: pool, table: table}, nil
}

// NewWithPool constructs a store from an existing pool (primarily for
// testing).
func NewWithPool(pool pgxPool, table string) (*DocumentStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	name, err := tableName(table)
	if err != nil {
		return nil, err
	}
	return &DocumentStore{pool: pool, table: name}, nil
}

func tableName(table string) (string, error) {
	if table == "" {
		table = "documents"
	}
	if !validTableName.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return table, nil
}

// Close releases the underlying pool resources.
func (s *DocumentStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// SaveDocument inserts one metadata row. The same URL may appear once per
// crawl; callers decide whether re-crawls should be recorded again.
func (s *DocumentStore) SaveDocument(ctx context.Context, doc document.CleanedDocument) error {
	if doc.URL == "" {
		return fmt.Errorf("document url is required")
	}

	row := rowFromDocument(doc)
	query := fmt.Sprintf(`
INSERT INTO %s (url, title, content_type, language, word_count, char_count, crawled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`, s.table)

	if _, err := s.pool.Exec(ctx, query,
		row.URL, row.Title, row.ContentType, row.Language, row.WordCount, row.CharCount, row.CrawledAt,
	); err != nil {
		return fmt.Errorf("insert document row: %w", err)
	}
	return nil
}

// ListDocuments returns the most recent rows, newest first.
func (s *DocumentStore) ListDocuments(ctx context.Context, limit int) ([]DocumentRow, error) {
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
SELECT url, title, content_type, language, word_count, char_count, crawled_at
FROM %s
ORDER BY crawled_at DESC
LIMIT $1`, s.table)

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query document rows: %w", err)
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		var r DocumentRow
		if err := rows.Scan(&r.URL, &r.Title, &r.ContentType, &r.Language, &r.WordCount, &r.CharCount, &r.CrawledAt); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return out, nil
}

func rowFromDocument(doc document.CleanedDocument) DocumentRow {
	row := DocumentRow{
		URL:         doc.URL,
		Title:       doc.Title,
		ContentType: doc.ContentType,
		Language:    doc.Language,
		CrawledAt:   time.Now().UTC(),
	}
	if v, ok := doc.Metadata["word_count"].(int); ok {
		row.WordCount = v
	}
	if v, ok := doc.Metadata["char_count"].(int); ok {
		row.CharCount = v
	}
	return row
}
