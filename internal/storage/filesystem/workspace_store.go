package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/storage"
	"gopkg.in/yaml.v3"
)

// WorkspaceFile is the file name used inside the workspace directory.
const WorkspaceFile = "workspace.yaml"

// WorkspaceStore persists all mocks and groups to a single YAML file.
type WorkspaceStore struct {
	mu     sync.Mutex
	path   string
	closed bool
}

// NewWorkspaceStore creates a YAML-backed store under basePath.
func NewWorkspaceStore(basePath string) (*WorkspaceStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}

	return &WorkspaceStore{
		path: filepath.Join(basePath, WorkspaceFile),
	}, nil
}

// Path returns the workspace file path.
func (s *WorkspaceStore) Path() string {
	return s.path
}

// Load reads every group and mock in file order.
func (s *WorkspaceStore) Load(ctx context.Context) (storage.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.Snapshot{}, storage.ErrStoreClosed
	}

	data, err := s.read()
	if err != nil {
		return storage.Snapshot{}, err
	}

	snap := storage.Snapshot{
		Groups: make([]*core.Group, 0, len(data.Groups)),
		Mocks:  make([]*core.Mock, 0, len(data.Mocks)),
	}
	for _, g := range data.Groups {
		snap.Groups = append(snap.Groups, g.toGroup())
	}
	for _, m := range data.Mocks {
		snap.Mocks = append(snap.Mocks, m.toMock())
	}

	return snap, nil
}

// SaveMock inserts or updates a mock.
func (s *WorkspaceStore) SaveMock(ctx context.Context, m *core.Mock) error {
	return s.update(func(data *workspaceData) {
		record := fromMock(m)
		for i := range data.Mocks {
			if data.Mocks[i].ID == record.ID {
				data.Mocks[i] = record
				return
			}
		}
		data.Mocks = append(data.Mocks, record)
	})
}

// DeleteMock removes a mock.
func (s *WorkspaceStore) DeleteMock(ctx context.Context, id string) error {
	return s.update(func(data *workspaceData) {
		for i := range data.Mocks {
			if data.Mocks[i].ID == id {
				data.Mocks = append(data.Mocks[:i], data.Mocks[i+1:]...)
				return
			}
		}
	})
}

// SaveGroup inserts or updates a group.
func (s *WorkspaceStore) SaveGroup(ctx context.Context, g *core.Group) error {
	return s.update(func(data *workspaceData) {
		record := fromGroup(g)
		for i := range data.Groups {
			if data.Groups[i].ID == record.ID {
				data.Groups[i] = record
				return
			}
		}
		data.Groups = append(data.Groups, record)
	})
}

// DeleteGroup removes a group.
func (s *WorkspaceStore) DeleteGroup(ctx context.Context, id string) error {
	return s.update(func(data *workspaceData) {
		for i := range data.Groups {
			if data.Groups[i].ID == id {
				data.Groups = append(data.Groups[:i], data.Groups[i+1:]...)
				return
			}
		}
	})
}

// Close marks the store closed.
func (s *WorkspaceStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Internal helpers

func (s *WorkspaceStore) update(fn func(data *workspaceData)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStoreClosed
	}

	data, err := s.read()
	if err != nil {
		return err
	}

	fn(data)

	return s.write(data)
}

func (s *WorkspaceStore) read() (*workspaceData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &workspaceData{Version: workspaceVersion}, nil
		}
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}

	var data workspaceData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workspace: %w", err)
	}

	return &data, nil
}

// write replaces the workspace file through a temp file so readers never see
// a partial document.
func (s *WorkspaceStore) write(data *workspaceData) error {
	content, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal workspace: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".workspace-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp workspace file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write workspace file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write workspace file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace workspace file: %w", err)
	}

	return nil
}

// Storage format types

const workspaceVersion = 1

type workspaceData struct {
	Version int         `yaml:"version"`
	Groups  []groupData `yaml:"groups,omitempty"`
	Mocks   []mockData  `yaml:"mocks,omitempty"`
}

type groupData struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Active    bool      `yaml:"active"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

type mockData struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	URL       string            `yaml:"url"`
	Method    string            `yaml:"method"`
	Status    int               `yaml:"status"`
	Delay     time.Duration     `yaml:"delay,omitempty"`
	Response  string            `yaml:"response,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	Active    bool              `yaml:"active"`
	Captured  bool              `yaml:"captured,omitempty"`
	GroupID   string            `yaml:"group_id,omitempty"`
	CreatedAt time.Time         `yaml:"created_at"`
	UpdatedAt time.Time         `yaml:"updated_at"`
}

func fromGroup(g *core.Group) groupData {
	return groupData{
		ID:        g.ID(),
		Name:      g.Name(),
		Active:    g.Active(),
		CreatedAt: g.CreatedAt(),
		UpdatedAt: g.UpdatedAt(),
	}
}

func (d groupData) toGroup() *core.Group {
	g := core.NewGroupWithID(d.ID, d.Name)
	g.SetActive(d.Active)
	g.SetTimestamps(d.CreatedAt, d.UpdatedAt)
	return g
}

func fromMock(m *core.Mock) mockData {
	return mockData{
		ID:        m.ID(),
		Name:      m.Name(),
		URL:       m.URL(),
		Method:    m.Method(),
		Status:    m.Status(),
		Delay:     m.Delay(),
		Response:  m.Response(),
		Headers:   m.Headers(),
		Active:    m.Active(),
		Captured:  m.Captured(),
		GroupID:   m.GroupID(),
		CreatedAt: m.CreatedAt(),
		UpdatedAt: m.UpdatedAt(),
	}
}

func (d mockData) toMock() *core.Mock {
	m := core.NewMockWithID(d.ID, d.Name, d.URL)
	if d.Method != "" {
		m.SetMethod(d.Method)
	}
	if d.Status != 0 {
		m.SetStatus(d.Status)
	}
	m.SetDelay(d.Delay)
	m.SetResponse(d.Response)
	for k, v := range d.Headers {
		m.SetHeader(k, v)
	}
	m.SetActive(d.Active)
	m.SetCaptured(d.Captured)
	m.SetGroupID(d.GroupID)
	m.SetTimestamps(d.CreatedAt, d.UpdatedAt)
	return m
}

var _ storage.Store = (*WorkspaceStore)(nil)
