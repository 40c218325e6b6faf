package cache

import (
	"testing"
	"time"
)

func TestLayeredCacheRoundTrip(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Minute)

	key := Key("https://example.com/services")
	if err := c.Set(key, []byte("page body"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get(key)
	if !found {
		t.Fatal("Expected cache hit")
	}
	if string(val) != "page body" {
		t.Errorf("Expected 'page body', got %q", val)
	}
}

func TestLayeredCacheDiskSurvivesMemoryLoss(t *testing.T) {
	dir := t.TempDir()

	first := NewLayeredCache(time.Minute, dir, time.Minute)
	key := Key("https://example.com/pricing")
	if err := first.Set(key, []byte("pricing page"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A new process has an empty memory layer but the same disk dir
	second := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := second.Get(key)
	if !found {
		t.Fatal("Expected disk hit after memory loss")
	}
	if string(val) != "pricing page" {
		t.Errorf("Expected 'pricing page', got %q", val)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	key := Key("https://example.com/old")
	if err := c.Set(key, []byte("stale"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := c.Get(key); found {
		t.Error("Expired entry must miss")
	}
}

func TestKeyStable(t *testing.T) {
	a := Key("https://example.com")
	b := Key("https://example.com")
	other := Key("https://example.org")

	if a != b {
		t.Error("Same URL must produce the same key")
	}
	if a == other {
		t.Error("Different URLs must produce different keys")
	}
}
