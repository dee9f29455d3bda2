// Package testutil provides testing utilities for the operation-log feed.
package testutil

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/Sternrassler/oplog-feed/pkg/oplog"
)

// OperationLogsPath is the paginated staff operation-log endpoint.
const OperationLogsPath = "/staff/operation-logs"

// MockResponse defines a canned response for a path.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockBackend is an httptest server that pages and filters a fixed list of
// operation-log entries the way the admin API does.
type MockBackend struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	entries  []oplog.Entry
	version  int
	delay    time.Duration
	failures []int

	// Tracking
	RequestCount      int
	ConditionalCount  int
	NotModifiedCount  int
	LastRequestHeader http.Header
	LastQuery         map[string]string
}

// NewMockBackend creates a backend serving entries in order.
func NewMockBackend(entries []oplog.Entry) *MockBackend {
	mock := &MockBackend{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		entries:  entries,
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.LastQuery = map[string]string{}
		for name := range r.URL.Query() {
			mock.LastQuery[name] = r.URL.Query().Get(name)
		}
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}

		var failStatus int
		if len(mock.failures) > 0 {
			failStatus = mock.failures[0]
			mock.failures = mock.failures[1:]
		}
		delay := mock.delay
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if failStatus != 0 {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(failStatus)
			fmt.Fprintf(w, `{"error": %q}`, http.StatusText(failStatus))
			return
		}

		if exists {
			handler(w, r)
			return
		}

		if r.URL.Path != OperationLogsPath {
			http.NotFound(w, r)
			return
		}
		mock.serveOperationLogs(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockBackend) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBackend) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockBackend) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.NotModifiedCount = 0
	m.LastRequestHeader = nil
	m.LastQuery = nil
}

// SetEntries replaces the served entries. ETags issued before the call no
// longer match.
func (m *MockBackend) SetEntries(entries []oplog.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
	m.version++
}

// SetDelay delays every response by d.
func (m *MockBackend) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// FailNext makes the next len(statuses) requests answer with the given
// status codes, in order.
func (m *MockBackend) FailNext(statuses ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, statuses...)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockBackend) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockBackend) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockBackend) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockBackend) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// GetNotModifiedCount returns the number of 304 responses sent.
func (m *MockBackend) GetNotModifiedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.NotModifiedCount
}

// GetLastQuery returns a query parameter of the most recent request.
func (m *MockBackend) GetLastQuery(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery[name]
}

type pageBody struct {
	Data       []oplog.Entry `json:"data"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

func (m *MockBackend) serveOperationLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		http.Error(w, `{"error": "invalid page"}`, http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(query.Get("page_size"))
	if err != nil || size < 1 {
		http.Error(w, `{"error": "invalid page_size"}`, http.StatusBadRequest)
		return
	}
	search := query.Get("search")

	m.mu.Lock()
	etag := pageETag(m.version, page, size, search)
	if r.Header.Get("If-None-Match") == etag {
		m.NotModifiedCount++
		m.mu.Unlock()
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	matched := make([]oplog.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.Matches(search) {
			matched = append(matched, e)
		}
	}
	m.mu.Unlock()

	body := pageBody{
		Data:       []oplog.Entry{},
		Page:       page,
		TotalPages: (len(matched) + size - 1) / size,
	}
	if start := (page - 1) * size; start < len(matched) {
		end := start + size
		if end > len(matched) {
			end = len(matched)
		}
		body.Data = matched[start:end]
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

func pageETag(version, page, size int, search string) string {
	h := fnv.New32a()
	h.Write([]byte(search))
	return fmt.Sprintf(`"v%d-p%d-s%d-%x"`, version, page, size, h.Sum32())
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewUnauthorizedResponse creates a 401 Unauthorized response.
func NewUnauthorizedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusUnauthorized,
		Body:       `{"error": "Unauthorized"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewMalformedResponse creates a 200 OK response whose body is not a page.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"data": "not-a-list"`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// GenerateEntries returns n entries attributed to staff, one minute apart,
// with descriptions "<staff> operation <i>".
func GenerateEntries(staff string, n int) []oplog.Entry {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	ops := []string{"create", "update", "delete"}

	entries := make([]oplog.Entry, n)
	for i := range entries {
		entries[i] = oplog.Entry{
			Staff:         staff,
			OperationType: ops[i%len(ops)],
			Time:          base.Add(time.Duration(i) * time.Minute),
			Description:   fmt.Sprintf("%s operation %d", staff, i+1),
			Resource:      "customer",
		}
	}
	return entries
}
