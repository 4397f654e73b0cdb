package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestCache() (*Cache[string, string], *time.Time) {
	c := NewCache[string, string]()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Set and Get", func(t *testing.T) {
		cache.Set("key", "value")

		got, exists := cache.Get("key")
		if !exists {
			t.Error("Expected key to exist")
		}
		if got != "value" {
			t.Errorf("Expected %q, got %q", "value", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		got, exists := cache.Get("missing")
		if exists {
			t.Error("Expected key to not exist")
		}
		if got != "" {
			t.Errorf("Expected zero value, got %q", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		cache.Set("gone", "soon")
		cache.Delete("gone")
		if _, exists := cache.Get("gone"); exists {
			t.Error("Expected key to be deleted")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		cache.Set("a", "1")
		cache.Set("b", "2")
		cache.Clear()
		if cache.Len() != 0 {
			t.Errorf("Expected empty cache, got %d entries", cache.Len())
		}
	})

	t.Run("SetTo replaces contents", func(t *testing.T) {
		cache.Set("old", "x")
		cache.SetTo(map[string]string{"new": "y"})

		if _, exists := cache.Get("old"); exists {
			t.Error("Expected old key to be gone after SetTo")
		}
		if got, _ := cache.Get("new"); got != "y" {
			t.Errorf("Expected 'y', got %q", got)
		}
	})
}

func TestCache_TTL(t *testing.T) {
	cache, now := newTestCache()

	cache.SetWithTTL("token", "revoked", time.Minute)
	cache.Set("forever", "kept")

	if _, ok := cache.Get("token"); !ok {
		t.Fatal("Expected entry before expiry")
	}

	*now = now.Add(59 * time.Second)
	if _, ok := cache.Get("token"); !ok {
		t.Error("Expected entry one second before expiry")
	}

	*now = now.Add(time.Second)
	if _, ok := cache.Get("token"); ok {
		t.Error("Expected entry to expire at its deadline")
	}
	if cache.Len() != 1 {
		t.Errorf("Expected 1 live entry, got %d", cache.Len())
	}

	if dropped := cache.Prune(); dropped != 1 {
		t.Errorf("Expected Prune to drop 1 entry, got %d", dropped)
	}
	if got, _ := cache.Get("forever"); got != "kept" {
		t.Errorf("Expected untimed entry to survive, got %q", got)
	}
}

func TestCache_Concurrency(t *testing.T) {
	cache := NewCache[string, int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%10)
			cache.Set(key, i)
			cache.Get(key)
			cache.SetWithTTL(key+"-ttl", i, time.Hour)
			cache.Prune()
		}(i)
	}
	wg.Wait()

	if cache.Len() != 20 {
		t.Errorf("Expected 20 entries, got %d", cache.Len())
	}
}

func TestStaticHash(t *testing.T) {
	SetStaticHash("/static/site.css", "abc")

	if got, ok := GetStaticHash("/static/site.css"); !ok || got != "abc" {
		t.Errorf("Expected static hash 'abc', got %q (found=%v)", got, ok)
	}
}
