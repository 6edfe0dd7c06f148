package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/wricardo/ludo-game/game/service"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS ludo_session (
	id          text PRIMARY KEY,
	config_name text NOT NULL,
	game_id     text NOT NULL,
	version     text NOT NULL,
	created     timestamptz NOT NULL,
	accessed    timestamptz NOT NULL,
	record      jsonb NOT NULL
);
`

// PostgresPersistence implements SessionPersistence with one row per session
type PostgresPersistence struct {
	conn          *pgx.Conn
	configManager service.ConfigManager
	logger        *zap.Logger
	timeout       time.Duration

	// a pgx.Conn is not safe for concurrent use
	mu sync.Mutex
}

// NewPostgresPersistence connects to dataSource and creates the session table if needed
func NewPostgresPersistence(ctx context.Context, dataSource string, configManager service.ConfigManager, logger *zap.Logger) (*PostgresPersistence, error) {
	conn, err := pgx.Connect(ctx, dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := conn.Exec(ctx, "SELECT 1=1"); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PostgresPersistence{
		conn:          conn,
		configManager: configManager,
		logger:        logger,
		timeout:       5 * time.Second,
	}, nil
}

func (pp *PostgresPersistence) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), pp.timeout)
}

// Save upserts the session row
func (pp *PostgresPersistence) Save(session *service.Session) error {
	data, err := newPersistedData(session)
	if err != nil {
		return err
	}

	pp.mu.Lock()
	defer pp.mu.Unlock()
	ctx, cancel := pp.ctx()
	defer cancel()

	_, err = pp.conn.Exec(ctx, `
INSERT INTO ludo_session (id, config_name, game_id, version, created, accessed, record)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
	config_name = EXCLUDED.config_name,
	game_id = EXCLUDED.game_id,
	version = EXCLUDED.version,
	accessed = EXCLUDED.accessed,
	record = EXCLUDED.record`,
		strings.ToLower(data.ID), data.ConfigName, data.GameID, data.Version,
		data.CreatedAt, data.LastAccessedAt, string(data.Record))
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", data.ID, err)
	}
	return nil
}

// Load reads one session row
func (pp *PostgresPersistence) Load(id string) (*service.Session, error) {
	pp.mu.Lock()
	ctx, cancel := pp.ctx()
	var data PersistedSessionData
	var record string
	err := pp.conn.QueryRow(ctx,
		"SELECT id, config_name, game_id, version, created, accessed, record::text FROM ludo_session WHERE id = $1",
		strings.ToLower(id)).Scan(&data.ID, &data.ConfigName, &data.GameID, &data.Version,
		&data.CreatedAt, &data.LastAccessedAt, &record)
	cancel()
	pp.mu.Unlock()

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	data.Record = json.RawMessage(record)

	return restoreSession(&data, pp.configManager, pp.logger)
}

// Delete removes a session row
func (pp *PostgresPersistence) Delete(id string) error {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	ctx, cancel := pp.ctx()
	defer cancel()

	tag, err := pp.conn.Exec(ctx, "DELETE FROM ludo_session WHERE id = $1", strings.ToLower(id))
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all persisted session IDs
func (pp *PostgresPersistence) ListAll() ([]string, error) {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	ctx, cancel := pp.ctx()
	defer cancel()

	rows, err := pp.conn.Query(ctx, "SELECT id FROM ludo_session ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return ids, nil
}

// Exists checks if a session row exists
func (pp *PostgresPersistence) Exists(id string) bool {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	ctx, cancel := pp.ctx()
	defer cancel()

	var exists bool
	err := pp.conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM ludo_session WHERE id = $1)", strings.ToLower(id)).Scan(&exists)
	if err != nil {
		pp.logger.Warn("session lookup failed", zap.String("session", id), zap.Error(err))
		return false
	}
	return exists
}

// Close closes the database connection
func (pp *PostgresPersistence) Close() error {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	ctx, cancel := pp.ctx()
	defer cancel()
	return pp.conn.Close(ctx)
}
