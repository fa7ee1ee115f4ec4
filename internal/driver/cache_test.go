package driver_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"safethunk/internal/driver"
	"safethunk/internal/format"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := driver.CacheKey("indent=4", "Buffer.read", "fn read(p: UnsafePointer<CInt>, n: Int);", `safethunk(countedBy(pointer: .param(1), count: "n"))`)
	entry := &driver.CacheEntry{Name: "Buffer.read", Receiver: "Buffer", Text: "fn read(p: UnsafeBufferPointer<CInt>) {}"}
	if err := cache.Put(key, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(entry, got); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(format.Printed{Receiver: "Buffer", Text: entry.Text}, got.Printed()); diff != "" {
		t.Errorf("printed mismatch (-want +got):\n%s", diff)
	}

	other := driver.CacheKey("indent=4", "Buffer.read", "fn read(p: UnsafePointer<CInt>, n: Int);", `safethunk(countedBy(pointer: .param(1), count: "n + 1"))`)
	if other == key {
		t.Fatal("different annotations share a key")
	}
	if _, ok, err := cache.Get(other); ok || err != nil {
		t.Errorf("Get(other) = %v, %v; want a clean miss", ok, err)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := cache.Get(key); ok {
		t.Error("entry survived DropAll")
	}
}

func TestCacheKeySeparatesParts(t *testing.T) {
	a := driver.CacheKey("l", "f", "ab", "c")
	b := driver.CacheKey("l", "f", "a", "bc")
	if a == b {
		t.Error("part boundaries do not affect the key")
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var cache *driver.DiskCache
	key := driver.CacheKey("", "f", "", "")
	if err := cache.Put(key, &driver.CacheEntry{}); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.Get(key); ok || err != nil {
		t.Fatalf("nil cache Get = %v, %v", ok, err)
	}
}

func TestRunUsesCache(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.sfi", counted)
	cache, err := driver.OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	generate := func() (string, int) {
		var buf bytes.Buffer
		res := run(t, []string{a}, driver.Options{Cache: cache, Output: driver.Output{Mode: driver.OutputStdout, Stdout: &buf}})
		_, _, cached := res.Counts()
		return buf.String(), cached
	}

	first, cached := generate()
	if cached != 0 {
		t.Fatalf("first run: %d cached", cached)
	}
	second, cached := generate()
	if cached != 1 {
		t.Fatalf("second run: %d cached, want 1", cached)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached output differs (-fresh +cached):\n%s", diff)
	}

	// правка декларации меняет ключ
	if err := os.WriteFile(a, []byte(counted+"fn other();\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, cached := generate(); cached != 1 {
		t.Errorf("unrelated edit: %d cached, want 1", cached)
	}
	edited := `@safethunk(countedBy(pointer: .param(1), count: "n"))
fn f(p: UnsafeMutablePointer<CInt>, n: CInt);
`
	if err := os.WriteFile(a, []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, cached := generate(); cached != 0 {
		t.Errorf("edited declaration: %d cached, want 0", cached)
	}

	// doc-строки не входят в span декларации, но попадают в обёртку
	if err := os.WriteFile(a, []byte("/// old doc\n"+edited), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, cached := generate(); cached != 0 {
		t.Errorf("documented declaration: %d cached, want 0", cached)
	}
	if err := os.WriteFile(a, []byte("/// new doc\n"+edited), 0o644); err != nil {
		t.Fatal(err)
	}
	out, cached := generate()
	if cached != 0 {
		t.Errorf("doc-only edit: %d cached, want 0", cached)
	}
	if !strings.Contains(out, "/// new doc") || strings.Contains(out, "/// old doc") {
		t.Errorf("doc-only edit served a stale wrapper:\n%s", out)
	}
}

func TestRunDoesNotCacheFailures(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.sfi", "@safethunk(countedBy(pointer: .param(3), count: \"n\"))\nfn f(_ p: UnsafePointer<CInt>, _ n: Int);\n")
	cache, err := driver.OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	for range 2 {
		res := run(t, []string{a}, driver.Options{Cache: cache})
		if !res.HasErrors() {
			t.Fatal("expected an error on every run")
		}
	}
}
