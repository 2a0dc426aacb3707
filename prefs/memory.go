package prefs

import (
	"context"
	"sync"
)

// MemoryKV is an in-process KV, used in tests and when no database is
// configured.
type MemoryKV struct {
	mu sync.RWMutex
	m  map[[2]string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[[2]string]string)}
}

func (kv *MemoryKV) Get(_ context.Context, visitor, key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.m[[2]string{visitor, key}]
	return v, ok, nil
}

func (kv *MemoryKV) Set(_ context.Context, visitor, key, value string) error {
	kv.mu.Lock()
	kv.m[[2]string{visitor, key}] = value
	kv.mu.Unlock()
	return nil
}
