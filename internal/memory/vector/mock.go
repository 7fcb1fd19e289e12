package vector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// MockCall records a method invocation on the mock store.
type MockCall struct {
	Method    string
	Args      []any
	Timestamp time.Time
}

// MockStore is a recording Store double for tests: configurable search
// results and errors, every call captured for verification.
type MockStore struct {
	mu            sync.RWMutex
	records       map[string]Record
	searchResults []Match
	healthStatus  types.HealthStatus
	calls         []MockCall
	upsertError   error
	searchError   error
	getError      error
	deleteError   error
}

// NewMockStore creates a healthy mock with no scripted results.
func NewMockStore() *MockStore {
	return &MockStore{
		records:      make(map[string]Record),
		healthStatus: types.Healthy("mock vector store"),
	}
}

func (m *MockStore) record(method string, args ...any) {
	m.calls = append(m.calls, MockCall{
		Method:    method,
		Args:      args,
		Timestamp: time.Now(),
	})
}

// Upsert records the call and stores the record unless an error is scripted.
func (m *MockStore) Upsert(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Upsert", rec)
	if m.upsertError != nil {
		return m.upsertError
	}
	m.records[rec.ID] = rec
	return nil
}

// UpsertBatch records the call and stores the records unless an error is
// scripted.
func (m *MockStore) UpsertBatch(ctx context.Context, recs []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("UpsertBatch", recs)
	if m.upsertError != nil {
		return m.upsertError
	}
	for _, rec := range recs {
		m.records[rec.ID] = rec
	}
	return nil
}

// Search records the call and returns the scripted results.
func (m *MockStore) Search(ctx context.Context, query Query) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Search", query)
	if m.searchError != nil {
		return nil, m.searchError
	}
	results := make([]Match, len(m.searchResults))
	copy(results, m.searchResults)
	return results, nil
}

// Get records the call and returns the stored record if present.
func (m *MockStore) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Get", id)
	if m.getError != nil {
		return nil, m.getError
	}
	rec, exists := m.records[id]
	if !exists {
		return nil, types.NewError(ErrCodeNotFound,
			fmt.Sprintf("vector record not found: %s", id))
	}
	return &rec, nil
}

// Delete records the call and removes the record.
func (m *MockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Delete", id)
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.records, id)
	return nil
}

// Health records the call and returns the configured status.
func (m *MockStore) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Health")
	return m.healthStatus
}

// Close records the call and clears stored records.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Close")
	m.records = make(map[string]Record)
	return nil
}

// SetSearchResults scripts what Search returns.
func (m *MockStore) SetSearchResults(results []Match) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchResults = results
}

// SetHealthStatus scripts what Health returns.
func (m *MockStore) SetHealthStatus(status types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthStatus = status
}

// SetUpsertError scripts Upsert and UpsertBatch to fail.
func (m *MockStore) SetUpsertError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertError = err
}

// SetSearchError scripts Search to fail.
func (m *MockStore) SetSearchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchError = err
}

// SetGetError scripts Get to fail.
func (m *MockStore) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// SetDeleteError scripts Delete to fail.
func (m *MockStore) SetDeleteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteError = err
}

// GetCalls returns a copy of all recorded calls.
func (m *MockStore) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallsTo returns the recorded calls to one method.
func (m *MockStore) CallsTo(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var calls []MockCall
	for _, call := range m.calls {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// Reset clears recorded calls, stored records and scripted behavior.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[string]Record)
	m.searchResults = nil
	m.calls = nil
	m.upsertError = nil
	m.searchError = nil
	m.getError = nil
	m.deleteError = nil
	m.healthStatus = types.Healthy("mock vector store")
}
