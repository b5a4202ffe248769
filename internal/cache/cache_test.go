package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evanw/classvars/internal/logger"
	"github.com/evanw/classvars/internal/test"
)

// Counts how often the transform actually runs. It always reports one warning.
type countingTransform struct {
	calls int
}

func (c *countingTransform) run(source logger.Source) func(log logger.Log) ([]byte, bool) {
	return func(log logger.Log) ([]byte, bool) {
		c.calls++
		log.AddIDWithRange(logger.MsgID_JS_UnusedInstanceVariable, &source, logger.Range{}, "warning text")
		return []byte("output:" + source.Contents), true
	}
}

func transformForTest(t *testing.T, c *TransformCache, source logger.Source, optionsKey string, fn func(log logger.Log) ([]byte, bool)) (string, []logger.Msg) {
	t.Helper()
	log := logger.NewDeferLog()
	code, ok, err := c.Transform(log, source, optionsKey, fn)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, ok, true)
	return string(code), log.Done()
}

func TestMemoryCache(t *testing.T) {
	c := New("")
	counter := &countingTransform{}
	source := test.SourceForTest("a")

	code, msgs := transformForTest(t, c, source, "opts", counter.run(source))
	test.AssertEqual(t, code, "output:a")
	test.AssertEqual(t, len(msgs), 1)

	// Messages are replayed on a hit
	code, msgs = transformForTest(t, c, source, "opts", counter.run(source))
	test.AssertEqual(t, code, "output:a")
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Text, "warning text")
	test.AssertEqual(t, counter.calls, 1)

	// Different options or contents are different entries
	transformForTest(t, c, source, "other", counter.run(source))
	test.AssertEqual(t, counter.calls, 2)
	changed := test.SourceForTest("b")
	code, _ = transformForTest(t, c, changed, "opts", counter.run(changed))
	test.AssertEqual(t, code, "output:b")
	test.AssertEqual(t, counter.calls, 3)

	hits, misses := c.Stats()
	test.AssertEqual(t, hits, 1)
	test.AssertEqual(t, misses, 3)
}

func TestOverridesArePartOfTheKey(t *testing.T) {
	source := test.SourceForTest("a")
	silent := map[logger.MsgID]logger.LogLevel{logger.MsgID_JS_UnusedInstanceVariable: logger.LevelSilent}
	test.AssertEqual(t, MakeKey(source, "", nil), MakeKey(source, "", map[logger.MsgID]logger.LogLevel{}))
	test.AssertEqual(t, MakeKey(source, "", nil) == MakeKey(source, "", silent), false)

	c := New("")
	counter := &countingTransform{}
	transformForTest(t, c, source, "", counter.run(source))

	log := logger.NewDeferLog()
	log.Overrides = silent
	if _, _, err := c.Transform(log, source, "", counter.run(source)); err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, len(log.Done()), 0)
	test.AssertEqual(t, counter.calls, 2)
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	source := test.SourceForTest("class A {}")
	counter := &countingTransform{}

	transformForTest(t, New(dir), source, "opts", counter.run(source))
	test.AssertEqual(t, counter.calls, 1)

	// A new cache with the same directory finds the entry from the first one
	c := New(dir)
	code, msgs := transformForTest(t, c, source, "opts", counter.run(source))
	test.AssertEqual(t, counter.calls, 1)
	test.AssertEqual(t, code, "output:class A {}")
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Kind, logger.Warning)
	test.AssertEqual(t, msgs[0].Location.File, "<stdin>")
	hits, misses := c.Stats()
	test.AssertEqual(t, hits, 1)
	test.AssertEqual(t, misses, 0)
}

func TestCorruptDiskEntry(t *testing.T) {
	dir := t.TempDir()
	source := test.SourceForTest("x")
	key := MakeKey(source, "", nil)
	store := &diskStore{dir: dir}
	path := store.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not cbor"), 0o644); err != nil {
		t.Fatal(err)
	}

	counter := &countingTransform{}
	code, _ := transformForTest(t, New(dir), source, "", counter.run(source))
	test.AssertEqual(t, code, "output:x")
	test.AssertEqual(t, counter.calls, 1)

	// The bad entry was replaced
	entry, err := store.load(key)
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, string(entry.Code), "output:x")
}

func TestFailedTransformsAreCached(t *testing.T) {
	c := New("")
	source := test.SourceForTest("bad")
	calls := 0
	fail := func(log logger.Log) ([]byte, bool) {
		calls++
		log.AddError(&source, logger.Loc{}, "failure")
		return nil, false
	}

	for i := 0; i < 2; i++ {
		log := logger.NewDeferLog()
		_, ok, err := c.Transform(log, source, "", fail)
		test.AssertEqual(t, err, nil)
		test.AssertEqual(t, ok, false)
		test.AssertEqual(t, log.HasErrors(), true)
	}
	test.AssertEqual(t, calls, 1)
}

func TestKeyString(t *testing.T) {
	test.AssertEqual(t, Key{Hi: 1, Lo: 2}.String(), "00000000000000010000000000000002")
}
