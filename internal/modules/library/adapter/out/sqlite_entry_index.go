package out

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"smartlib/internal/modules/library/domain"
	"smartlib/internal/platform/clock"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteEntryIndex mirrors the last fetched library list. It is never read as a substitute for
// the server; it only answers title lookups.
type SQLiteEntryIndex struct {
	db    *sql.DB
	clock clock.Clock
}

func NewSQLiteEntryIndex(dbPath string, clk clock.Clock) (*SQLiteEntryIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &SQLiteEntryIndex{db: db, clock: clk}, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteEntryIndex) Close() error {
	return s.db.Close()
}

// Replace swaps the whole table for entries in one transaction.
func (s *SQLiteEntryIndex) Replace(ctx context.Context, entries []domain.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin index refresh: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM library_entries`); err != nil {
		return fmt.Errorf("reset library index: %w", err)
	}
	if err := s.upsert(ctx, tx, entries); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index refresh: %w", err)
	}
	return nil
}

// Upsert merges a filtered list without dropping entries of other statuses.
func (s *SQLiteEntryIndex) Upsert(ctx context.Context, entries []domain.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin index upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := s.upsert(ctx, tx, entries); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index upsert: %w", err)
	}
	return nil
}

func (s *SQLiteEntryIndex) upsert(ctx context.Context, tx *sql.Tx, entries []domain.Entry) error {
	const stmt = `
INSERT INTO library_entries (id, book_id, title, author, image_url, status, rating, progress_percent, started_at, finished_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  book_id=excluded.book_id,
  title=excluded.title,
  author=excluded.author,
  image_url=excluded.image_url,
  status=excluded.status,
  rating=excluded.rating,
  progress_percent=excluded.progress_percent,
  started_at=excluded.started_at,
  finished_at=excluded.finished_at,
  updated_at=excluded.updated_at;
`
	updatedAt := s.clock.Now().Format(time.RFC3339)
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, stmt,
			e.ID,
			e.BookID,
			e.Title,
			e.Author,
			e.ImageURL,
			string(e.Status),
			e.Rating,
			e.ProgressPercent,
			e.StartedAt,
			e.FinishedAt,
			updatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert library entry %d: %w", e.ID, err)
		}
	}
	return nil
}

// Find matches text case-insensitively against title or author, titles first.
func (s *SQLiteEntryIndex) Find(ctx context.Context, text string) ([]domain.Entry, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(text))) + "%"
	const query = `
SELECT id, book_id, title, author, image_url, status, rating, progress_percent, started_at, finished_at
FROM library_entries
WHERE lower(title) LIKE ? ESCAPE '\' OR lower(author) LIKE ? ESCAPE '\'
ORDER BY CASE WHEN lower(title) LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, title, id;
`
	rows, err := s.db.QueryContext(ctx, query, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("query library index: %w", err)
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		var (
			e      domain.Entry
			status string
		)
		if err := rows.Scan(&e.ID, &e.BookID, &e.Title, &e.Author, &e.ImageURL, &status, &e.Rating, &e.ProgressPercent, &e.StartedAt, &e.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan library entry: %w", err)
		}
		e.Status = domain.Status(status)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate library index: %w", err)
	}
	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
