package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// memoryRecord is a rule as held by MemoryStore.
type memoryRecord struct {
	id         string
	name       string
	ruleString string
	tree       []byte
	createdAt  time.Time
}

// MemoryStore implements Store in memory. All data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*memoryRecord
	order   []string // ids in creation order
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*memoryRecord),
	}
}

// Create persists rule.
func (m *MemoryStore) Create(ctx context.Context, rule *Rule) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tree, err := prepare(rule)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", fmt.Errorf("store is closed")
	}
	if _, exists := m.records[rule.ID]; exists {
		return "", fmt.Errorf("%w: duplicate id %s", ErrInvalidRule, rule.ID)
	}

	m.records[rule.ID] = &memoryRecord{
		id:         rule.ID,
		name:       rule.Name,
		ruleString: rule.RuleString,
		tree:       tree,
		createdAt:  rule.CreatedAt,
	}
	m.order = append(m.order, rule.ID)
	return rule.ID, nil
}

// Get returns the rule with the given id.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()

	if !ok {
		return nil, notFound(id)
	}
	return decode(rec.id, rec.name, rec.ruleString, rec.tree, rec.createdAt)
}

// GetByName returns the oldest rule with the given name.
func (m *MemoryStore) GetByName(ctx context.Context, name string) (*Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	var found *memoryRecord
	for _, id := range m.order {
		if rec := m.records[id]; rec.name == name {
			found = rec
			break
		}
	}
	m.mu.RUnlock()

	if found == nil {
		return nil, notFound(name)
	}
	return decode(found.id, found.name, found.ruleString, found.tree, found.createdAt)
}

// List returns all rules in creation order.
func (m *MemoryStore) List(ctx context.Context) ([]*Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	recs := make([]*memoryRecord, 0, len(m.order))
	for _, id := range m.order {
		recs = append(recs, m.records[id])
	}
	m.mu.RUnlock()

	rules := make([]*Rule, 0, len(recs))
	for _, rec := range recs {
		rule, err := decode(rec.id, rec.name, rec.ruleString, rec.tree, rec.createdAt)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Delete removes the rule with the given id.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return notFound(id)
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of stored rules.
func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// Close marks the store closed. Reads keep working.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
