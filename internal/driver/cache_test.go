package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := cacheKey([]byte("begin skip end"), Options{})
	var out CachePayload
	if hit, err := c.Get(key, &out); hit || err != nil {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}

	in := &CachePayload{Schema: cacheSchemaVersion, Key: key, Asm: "main:\n", Runtime: []string{"p_print_ln"}}
	if err := c.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	hit, err := c.Get(key, &out)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if diff := cmp.Diff(*in, out); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if hit, _ := c.Get(key, &out); hit {
		t.Error("entry survived DropAll")
	}
	if err := c.DropAll(); err != nil {
		t.Errorf("DropAll on empty cache: %v", err)
	}
}

func TestCacheRejectsForeignEntries(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := cacheKey([]byte("a"), Options{})
	if err := c.Put(key, &CachePayload{Schema: cacheSchemaVersion + 1, Key: key, Asm: "x"}); err != nil {
		t.Fatal(err)
	}
	var out CachePayload
	if hit, err := c.Get(key, &out); hit || err != nil {
		t.Errorf("old schema: hit=%v err=%v", hit, err)
	}

	if err := os.WriteFile(c.pathFor(key), []byte{0xc1}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(key, &out); err == nil {
		t.Error("corrupt entry decoded without error")
	}
}

func TestCacheKeyDependsOnContentAndStage(t *testing.T) {
	a := cacheKey([]byte("begin skip end"), Options{Stage: StageCodegen})
	if a != cacheKey([]byte("begin skip end"), Options{Stage: StageCodegen}) {
		t.Error("key is not deterministic")
	}
	if a == cacheKey([]byte("begin  skip end"), Options{Stage: StageCodegen}) {
		t.Error("key ignores content")
	}
	if a == cacheKey([]byte("begin skip end"), Options{Stage: StageSema}) {
		t.Error("key ignores stage")
	}
}

func TestDefaultCacheDirHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	got, err := DefaultCacheDir("waccc")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "waccc"); got != want {
		t.Errorf("DefaultCacheDir = %q, want %q", got, want)
	}
}
