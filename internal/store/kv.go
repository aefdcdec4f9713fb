// Package store persists the player's state: the last selected test and the
// answers captured at submit. Writes at the submit boundary are best-effort
// by design; callers log failures and move on, they never block navigation on
// a successful Put.
package store

import (
	"context"
	"errors"
	"sync"
)

// Keys used by the session controller.
const (
	KeyLastTestID = "lastTestId"
	KeyLastFile   = "lastFile"
)

// AnswersKey is the key an AnswerRecord is stored under for one test.
func AnswersKey(testID string) string { return "answers_" + testID }

var ErrNotFound = errors.New("key not found")

type KV interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
}

type memoryKV struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryKV() KV {
	return &memoryKV{m: map[string]string{}}
}

func (s *memoryKV) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *memoryKV) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}
