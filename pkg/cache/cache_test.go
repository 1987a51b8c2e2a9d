package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("expected miss for unknown key")
	}
	if err := c.Set(ctx, "snapshot:abc", []byte(`{"records":[]}`), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "snapshot:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != `{"records":[]}` {
		t.Errorf("data = %s", data)
	}

	if err := c.Delete(ctx, "snapshot:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "snapshot:abc"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "snapshot:abc"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned as hit")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry file not removed")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry file not removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	app := k.SnapshotKey("summercamp", SnapshotKeyOpts{Variant: "application", Database: "tenant-summercamp"})
	guest := k.SnapshotKey("summercamp", SnapshotKeyOpts{Variant: "guest", Database: "tenant-summercamp"})
	if app == guest {
		t.Error("different variants should produce different keys")
	}
	if !strings.HasPrefix(app, "snapshot:") {
		t.Errorf("SnapshotKey = %q, want snapshot: prefix", app)
	}

	upper := k.SnapshotKey("SummerCamp", SnapshotKeyOpts{Variant: "application", Database: "tenant-summercamp"})
	if upper != app {
		t.Error("tenant slugs should be case-insensitive")
	}

	excluded := k.SnapshotKey("summercamp", SnapshotKeyOpts{
		Variant:        "guest",
		Database:       "tenant-summercamp",
		ExcludeDomains: []string{"@anykrowd.com"},
	})
	if excluded == guest {
		t.Error("excluded domains should be part of the key")
	}

	if k.TenantsKey("camp") == k.TenantsKey("fest") {
		t.Error("different queries should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "db.staging:")

	key := scoped.SnapshotKey("rock", SnapshotKeyOpts{})
	if !strings.HasPrefix(key, "db.staging:snapshot:") {
		t.Errorf("SnapshotKey = %q, want scoped prefix", key)
	}
	if got := scoped.TenantsKey("x"); !strings.HasPrefix(got, "db.staging:tenants:") {
		t.Errorf("TenantsKey = %q, want scoped prefix", got)
	}
}

func TestKeyType(t *testing.T) {
	k := NewDefaultKeyer()
	tests := []struct {
		key  string
		want string
	}{
		{k.SnapshotKey("a", SnapshotKeyOpts{}), "snapshot"},
		{k.TenantsKey("a"), "tenants"},
		{NewScopedKeyer(k, "db.prod:").SnapshotKey("a", SnapshotKeyOpts{}), "snapshot"},
		{"plain", "unknown"},
	}
	for _, tt := range tests {
		if got := KeyType(tt.key); got != tt.want {
			t.Errorf("KeyType(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected error connecting to a closed port")
	}
}
