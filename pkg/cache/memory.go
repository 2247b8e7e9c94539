package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache 进程内LRU缓存，超出容量时淘汰最久未使用的条目
type MemoryCache struct {
	entries    *lru.Cache[string, memoryEntry]
	defaultTTL time.Duration
	now        func() time.Time
}

// NewMemoryCache 创建容量为size的内存缓存
func NewMemoryCache(size int, defaultTTL time.Duration) (*MemoryCache, error) {
	if size <= 0 {
		size = 1024
	}
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{entries: entries, defaultTTL: defaultTTL, now: time.Now}, nil
}

func (m *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	e, ok := m.entries.Get(key)
	if !ok {
		return false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.entries.Remove(key)
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries.Add(key, e)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.entries.Remove(k)
	}
	return nil
}

func (m *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	for _, k := range m.entries.Keys() {
		if strings.HasPrefix(k, prefix) {
			m.entries.Remove(k)
		}
	}
	return nil
}

// Len 当前条目数（含未清理的过期条目）
func (m *MemoryCache) Len() int {
	return m.entries.Len()
}
