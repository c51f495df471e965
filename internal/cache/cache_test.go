package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "single part",
			parts: []string{"test"},
		},
		{
			name:  "multiple parts",
			parts: []string{"GET", "/?page=2", "session-token"},
		},
		{
			name:  "empty parts",
			parts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed1 := HashKey(tt.parts...)
			hashed2 := HashKey(tt.parts...)

			if hashed1 != hashed2 {
				t.Errorf("HashKey() should be consistent, got %s and %s", hashed1, hashed2)
			}

			// 32 characters (MD5 hex)
			if len(hashed1) != 32 {
				t.Errorf("HashKey() should return 32 character hex string, got length %d", len(hashed1))
			}
		})
	}
}

func TestHashKeyPartBoundaries(t *testing.T) {
	if HashKey("ab", "c") == HashKey("a", "bc") {
		t.Error("HashKey() should distinguish part boundaries")
	}
	if HashKey("GET", "/", "") == HashKey("GET", "/", "other-session") {
		t.Error("HashKey() should vary with the session part")
	}
}

func TestNamespaceKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "yatube:test",
		},
		{
			name:     "key with colon",
			key:      "test:key",
			expected: "yatube:test:key",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "yatube:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("Get() error = %v, want ErrCacheDisabled", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Second); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("Set() error = %v, want ErrCacheDisabled", err)
	}
	if err := c.Delete(ctx, "k"); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("Delete() error = %v, want ErrCacheDisabled", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil cache should succeed, got %v", err)
	}
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestMemoryExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemoryWithClock(clock.Now)
	ctx := context.Background()

	if err := m.Set(ctx, "index", []byte("page"), 20*time.Second); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	clock.Advance(19 * time.Second)
	got, err := m.Get(ctx, "index")
	if err != nil || string(got) != "page" {
		t.Fatalf("Get() within TTL = %q, %v", got, err)
	}

	clock.Advance(time.Second)
	if _, err := m.Get(ctx, "index"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get() after TTL error = %v, want ErrMiss", err)
	}
	if m.Len() != 0 {
		t.Errorf("expired entry should be evicted, %d left", m.Len())
	}
}

func TestMemorySetCopiesValue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	value := []byte("original")
	_ = m.Set(ctx, "k", value, time.Minute)
	value[0] = 'X'

	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "original" {
		t.Errorf("Get() = %q, %v; want stored copy", got, err)
	}
}

func TestMemoryNonPositiveTTL(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("v"), 0)
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get() error = %v, want ErrMiss for zero TTL", err)
	}
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Set(ctx, "a", []byte("1"), time.Minute)
	_ = m.Set(ctx, "b", []byte("2"), time.Minute)
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", m.Len())
	}
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Set(ctx, "a", []byte("1"), time.Minute)
	_ = m.Set(ctx, "b", []byte("2"), time.Minute)
	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := m.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete() of a missing key error: %v", err)
	}
	if _, err := m.Get(ctx, "a"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get() after Delete error = %v, want ErrMiss", err)
	}
	if got, err := m.Get(ctx, "b"); err != nil || string(got) != "2" {
		t.Errorf("Get(b) = %q, %v; other entries must survive", got, err)
	}
}
