package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/precall-audit/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS audit_cache (
	cache_key  TEXT PRIMARY KEY,
	audit_json TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_cache_expires_at ON audit_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetAudit(ctx context.Context, key string) (*model.AuditReport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT audit_json FROM audit_cache WHERE cache_key = ? AND expires_at > ?`,
		key, time.Now().UTC(),
	)

	var auditJSON string
	err := row.Scan(&auditJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get audit")
	}

	var report model.AuditReport
	if err := json.Unmarshal([]byte(auditJSON), &report); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal cached audit")
	}
	return &report, nil
}

func (s *SQLiteStore) PutAudit(ctx context.Context, key string, report *model.AuditReport, ttl time.Duration) error {
	auditJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal audit")
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO audit_cache (cache_key, audit_json, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		key, string(auditJSON), now, now.Add(ttl),
	)
	return eris.Wrap(err, "sqlite: put audit")
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM audit_cache WHERE expires_at <= ?`, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}
