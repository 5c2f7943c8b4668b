package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/berkvakar/athleticfinance-web/internal/logging"
	"github.com/berkvakar/athleticfinance-web/internal/migrations"
	"github.com/berkvakar/athleticfinance-web/internal/models"
)

// SQLiteGate is a Gate backed by a single-table SQLite database.
type SQLiteGate struct {
	db  *sql.DB
	log logging.Logger
}

func NewSQLiteGate(db *sql.DB, log logging.Logger) *SQLiteGate {
	if log == nil {
		log = logging.Nop()
	}
	return &SQLiteGate{db: db, log: log}
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the session database at dsn and applies
// migrations. The caller owns the returned handle.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (g *SQLiteGate) get(ctx context.Context, key string) string {
	var value string
	err := g.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ""
	}
	if err != nil {
		g.log.Warn(ctx, "session read failed", "key", key, "error", err)
		return ""
	}
	return value
}

func (g *SQLiteGate) set(ctx context.Context, key, value string) {
	_, err := g.db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		g.log.Warn(ctx, "session write failed", "key", key, "error", err)
	}
}

func (g *SQLiteGate) delete(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if _, err := g.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, key); err != nil {
			g.log.Warn(ctx, "session delete failed", "key", key, "error", err)
		}
	}
}

func (g *SQLiteGate) GrantJoinAccess(ctx context.Context) {
	g.set(ctx, keyJoinAccess, "true")
}

func (g *SQLiteGate) CanAccessJoin(ctx context.Context) bool {
	return g.get(ctx, keyJoinAccess) == "true"
}

func (g *SQLiteGate) MarkSignupComplete(ctx context.Context) {
	g.set(ctx, keySignupComplete, "true")
}

func (g *SQLiteGate) CanAccessPlans(ctx context.Context) bool {
	return g.get(ctx, keySignupComplete) == "true"
}

func (g *SQLiteGate) SetPendingVerification(ctx context.Context, pv models.PendingVerification) {
	g.set(ctx, keyPendingVerify, "true")
	g.set(ctx, keyPendingUsername, pv.Username)
	g.set(ctx, keyPendingEmail, pv.Email)
}

func (g *SQLiteGate) PendingVerification(ctx context.Context) (models.PendingVerification, bool) {
	if g.get(ctx, keyPendingVerify) != "true" {
		return models.PendingVerification{}, false
	}
	username := g.get(ctx, keyPendingUsername)
	if username == "" {
		return models.PendingVerification{}, false
	}
	return models.PendingVerification{
		Username: username,
		Email:    g.get(ctx, keyPendingEmail),
	}, true
}

func (g *SQLiteGate) ClearPendingVerification(ctx context.Context) {
	g.delete(ctx, keyPendingVerify, keyPendingUsername, keyPendingEmail)
}

func (g *SQLiteGate) SetLastEmail(ctx context.Context, email string) {
	g.set(ctx, keyLastEmail, email)
}

func (g *SQLiteGate) LastEmail(ctx context.Context) string {
	return g.get(ctx, keyLastEmail)
}

func (g *SQLiteGate) ClearAll(ctx context.Context) {
	if _, err := g.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		g.log.Warn(ctx, "session clear failed", "error", err)
	}
}
