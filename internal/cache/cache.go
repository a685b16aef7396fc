package cache

import (
	"strings"
	"sync"
	"time"
)

// Store is a key-value cache with per-entry expiry.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	DeletePrefix(prefix string) int
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is an in-process Store safe for concurrent use. Expired entries are
// dropped on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

// DeletePrefix removes every key starting with prefix and reports how many were removed.
func (m *Memory) DeletePrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Len counts entries including ones that expired but were not read yet.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
