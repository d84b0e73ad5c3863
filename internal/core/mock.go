package core

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mock is a canned HTTP response matched by method and URL.
type Mock struct {
	id        string
	name      string
	url       string
	method    string
	status    int
	delay     time.Duration
	response  string
	headers   map[string]string
	active    bool
	captured  bool
	groupID   string
	createdAt time.Time
	updatedAt time.Time
}

// NewMock creates an active mock answering GET requests with 200.
func NewMock(name, url string) *Mock {
	return NewMockWithID(uuid.New().String(), name, url)
}

// NewMockWithID creates a mock with a specific ID (for loading from storage).
func NewMockWithID(id, name, url string) *Mock {
	now := time.Now()
	return &Mock{
		id:        id,
		name:      name,
		url:       url,
		method:    http.MethodGet,
		status:    http.StatusOK,
		headers:   make(map[string]string),
		active:    true,
		createdAt: now,
		updatedAt: now,
	}
}

func (m *Mock) ID() string           { return m.id }
func (m *Mock) Name() string         { return m.name }
func (m *Mock) URL() string          { return m.url }
func (m *Mock) Method() string       { return m.method }
func (m *Mock) Status() int          { return m.status }
func (m *Mock) Delay() time.Duration { return m.delay }
func (m *Mock) Response() string     { return m.response }
func (m *Mock) Active() bool         { return m.active }
func (m *Mock) Captured() bool       { return m.captured }
func (m *Mock) GroupID() string      { return m.groupID }
func (m *Mock) CreatedAt() time.Time { return m.createdAt }
func (m *Mock) UpdatedAt() time.Time { return m.updatedAt }
func (m *Mock) Grouped() bool        { return m.groupID != "" }

func (m *Mock) SetName(name string) {
	m.name = name
	m.touch()
}

func (m *Mock) SetURL(url string) {
	m.url = url
	m.touch()
}

func (m *Mock) SetMethod(method string) {
	m.method = strings.ToUpper(method)
	m.touch()
}

func (m *Mock) SetStatus(status int) {
	m.status = status
	m.touch()
}

func (m *Mock) SetDelay(delay time.Duration) {
	m.delay = delay
	m.touch()
}

func (m *Mock) SetResponse(body string) {
	m.response = body
	m.touch()
}

func (m *Mock) SetActive(active bool) {
	m.active = active
	m.touch()
}

func (m *Mock) SetCaptured(captured bool) {
	m.captured = captured
	m.touch()
}

// SetGroupID assigns the mock to a group. An empty id moves it to the root.
func (m *Mock) SetGroupID(groupID string) {
	m.groupID = groupID
	m.touch()
}

// SetTimestamps sets created and updated timestamps (for loading from storage).
func (m *Mock) SetTimestamps(created, updated time.Time) {
	m.createdAt = created
	m.updatedAt = updated
}

func (m *Mock) touch() {
	m.updatedAt = time.Now()
}

// Headers returns a copy of the response headers.
func (m *Mock) Headers() map[string]string {
	result := make(map[string]string, len(m.headers))
	for k, v := range m.headers {
		result[k] = v
	}
	return result
}

func (m *Mock) SetHeader(key, value string) {
	m.headers[key] = value
	m.touch()
}

// Clone creates a deep copy of the mock, keeping its ID.
func (m *Mock) Clone() *Mock {
	clone := *m
	clone.headers = m.Headers()
	return &clone
}

// MockView is the plain-data form of a mock handed to filter scripts.
type MockView struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	URL      string            `json:"url"`
	Method   string            `json:"method"`
	Status   int               `json:"status"`
	DelayMS  int64             `json:"delay"`
	Response string            `json:"response"`
	Headers  map[string]string `json:"headers"`
	Active   bool              `json:"active"`
	Captured bool              `json:"captured"`
	GroupID  string            `json:"groupId"`
}

// View returns the mock as plain data.
func (m *Mock) View() MockView {
	return MockView{
		ID:       m.id,
		Name:     m.name,
		URL:      m.url,
		Method:   m.method,
		Status:   m.status,
		DelayMS:  m.delay.Milliseconds(),
		Response: m.response,
		Headers:  m.Headers(),
		Active:   m.active,
		Captured: m.captured,
		GroupID:  m.groupID,
	}
}
