package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/storage"
	_ "modernc.org/sqlite"
)

// Store implements storage.Store using SQLite.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// New creates a new SQLite-based workspace store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize workspace database: %w", err)
	}

	return store, nil
}

// NewInMemory creates a new in-memory SQLite store (useful for testing).
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every pooled connection would get its own empty :memory: database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables and indexes.
func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS mock_groups (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1,
			position INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS mocks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			method TEXT NOT NULL,
			status INTEGER NOT NULL,
			delay_ms INTEGER NOT NULL DEFAULT 0,
			response TEXT NOT NULL DEFAULT '',
			headers TEXT NOT NULL DEFAULT '{}',
			active INTEGER NOT NULL DEFAULT 1,
			captured INTEGER NOT NULL DEFAULT 0,
			group_id TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_groups_position ON mock_groups(position);
		CREATE INDEX IF NOT EXISTS idx_mocks_position ON mocks(position);
		CREATE INDEX IF NOT EXISTS idx_mocks_group ON mocks(group_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load reads every group and mock in position order.
func (s *Store) Load(ctx context.Context) (storage.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return storage.Snapshot{}, storage.ErrStoreClosed
	}

	groups, err := s.loadGroups(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}

	mocks, err := s.loadMocks(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}

	return storage.Snapshot{Groups: groups, Mocks: mocks}, nil
}

func (s *Store) loadGroups(ctx context.Context) ([]*core.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, active, created_at, updated_at FROM mock_groups ORDER BY position ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*core.Group
	for rows.Next() {
		var (
			id, name           string
			active             bool
			createdAt, updated int64
		)
		if err := rows.Scan(&id, &name, &active, &createdAt, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}

		g := core.NewGroupWithID(id, name)
		g.SetActive(active)
		g.SetTimestamps(time.UnixMilli(createdAt), time.UnixMilli(updated))
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

func (s *Store) loadMocks(ctx context.Context) ([]*core.Mock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, url, method, status, delay_ms, response, headers,
			active, captured, group_id, created_at, updated_at
		FROM mocks ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list mocks: %w", err)
	}
	defer rows.Close()

	var mocks []*core.Mock
	for rows.Next() {
		var (
			id, name, url, method string
			status                int
			delayMS               int64
			response, headersJSON string
			active, captured      bool
			groupID               string
			createdAt, updated    int64
		)
		if err := rows.Scan(&id, &name, &url, &method, &status, &delayMS, &response, &headersJSON,
			&active, &captured, &groupID, &createdAt, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan mock: %w", err)
		}

		m := core.NewMockWithID(id, name, url)
		m.SetMethod(method)
		m.SetStatus(status)
		m.SetDelay(time.Duration(delayMS) * time.Millisecond)
		m.SetResponse(response)
		m.SetActive(active)
		m.SetCaptured(captured)
		m.SetGroupID(groupID)

		var headers map[string]string
		if err := json.Unmarshal([]byte(headersJSON), &headers); err != nil {
			return nil, fmt.Errorf("failed to decode headers of mock %s: %w", id, err)
		}
		for k, v := range headers {
			m.SetHeader(k, v)
		}

		m.SetTimestamps(time.UnixMilli(createdAt), time.UnixMilli(updated))
		mocks = append(mocks, m)
	}

	return mocks, rows.Err()
}

// SaveMock inserts or updates a mock.
func (s *Store) SaveMock(ctx context.Context, m *core.Mock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStoreClosed
	}

	headers, err := json.Marshal(m.Headers())
	if err != nil {
		return fmt.Errorf("failed to encode headers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mocks (id, name, url, method, status, delay_ms, response, headers,
			active, captured, group_id, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM mocks), ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			url = excluded.url,
			method = excluded.method,
			status = excluded.status,
			delay_ms = excluded.delay_ms,
			response = excluded.response,
			headers = excluded.headers,
			active = excluded.active,
			captured = excluded.captured,
			group_id = excluded.group_id,
			updated_at = excluded.updated_at`,
		m.ID(), m.Name(), m.URL(), m.Method(), m.Status(), m.Delay().Milliseconds(), m.Response(), string(headers),
		m.Active(), m.Captured(), m.GroupID(), m.CreatedAt().UnixMilli(), m.UpdatedAt().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save mock: %w", err)
	}

	return nil
}

// DeleteMock removes a mock.
func (s *Store) DeleteMock(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStoreClosed
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM mocks WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete mock: %w", err)
	}

	return nil
}

// SaveGroup inserts or updates a group.
func (s *Store) SaveGroup(ctx context.Context, g *core.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStoreClosed
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mock_groups (id, name, active, position, created_at, updated_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM mock_groups), ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			active = excluded.active,
			updated_at = excluded.updated_at`,
		g.ID(), g.Name(), g.Active(), g.CreatedAt().UnixMilli(), g.UpdatedAt().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	return nil
}

// DeleteGroup removes a group.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStoreClosed
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM mock_groups WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	return nil
}

// Close closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

var _ storage.Store = (*Store)(nil)
