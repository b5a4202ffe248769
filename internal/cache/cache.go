package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/evanw/classvars/internal/logger"
)

// This is a cache of transform results. The idea is to avoid transforming a
// file again if neither its contents nor the options have changed since the
// last time, either earlier in the same process or in an earlier run when
// a cache directory is used. This only works if:
//
//   - The output of a transform must only depend on the file contents, the
//     path used in log messages, and the options that are part of the key.
//     Anything else that changes the output must be added to the options key.
//
//   - Entries must be considered immutable once they are in the cache. The
//     same entry is handed to every caller with a matching key.
//
// Log messages are cached along with the output and are replayed into the
// caller's log on a hit, so a cached file reports the same warnings as a
// file that was transformed again.
type TransformCache struct {
	mutex   sync.Mutex
	entries map[Key]*Entry
	disk    *diskStore
	hits    int
	misses  int
}

type Entry struct {
	Code []byte       `cbor:"1,keyasint"`
	Msgs []logger.Msg `cbor:"2,keyasint"`
	OK   bool         `cbor:"3,keyasint"`
}

// Pass an empty directory for a cache that only lives in memory
func New(dir string) *TransformCache {
	c := &TransformCache{entries: make(map[Key]*Entry)}
	if dir != "" {
		c.disk = &diskStore{dir: dir}
	}
	return c
}

// Keys are 128-bit hashes of everything that can change the output
type Key struct {
	Hi uint64
	Lo uint64
}

func (k Key) String() string {
	return fmt.Sprintf("%016x%016x", k.Hi, k.Lo)
}

func MakeKey(source logger.Source, optionsKey string, overrides map[logger.MsgID]logger.LogLevel) Key {
	sb := strings.Builder{}
	sb.WriteString(optionsKey)
	sb.WriteByte(0)
	sb.WriteString(overridesKey(overrides))
	sb.WriteByte(0)
	sb.WriteString(source.PrettyPath)
	sb.WriteByte(0)
	sb.WriteString(source.Contents)
	hash := xxh3.HashString128(sb.String())
	return Key{Hi: hash.Hi, Lo: hash.Lo}
}

// Warnings can be turned into errors or silenced, which changes the result
func overridesKey(overrides map[logger.MsgID]logger.LogLevel) string {
	if len(overrides) == 0 {
		return ""
	}
	ids := make([]int, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	sb := strings.Builder{}
	for _, id := range ids {
		sb.WriteString(strconv.Itoa(id))
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(int(overrides[logger.MsgID(id)])))
		sb.WriteByte(',')
	}
	return sb.String()
}

// Returns the cached result for this source if there is one. Otherwise the
// transform is run with a temporary log and its result is saved. Messages
// are added to the given log either way. The returned error is only about
// the cache directory and the returned result is valid even when it's set.
func (c *TransformCache) Transform(
	log logger.Log,
	source logger.Source,
	optionsKey string,
	transform func(log logger.Log) ([]byte, bool),
) (code []byte, ok bool, err error) {
	key := MakeKey(source, optionsKey, log.Overrides)

	// Check the cache
	entry := func() *Entry {
		c.mutex.Lock()
		defer c.mutex.Unlock()
		return c.entries[key]
	}()
	if entry == nil && c.disk != nil {
		entry, err = c.disk.load(key)
		if entry != nil {
			c.mutex.Lock()
			c.entries[key] = entry
			c.mutex.Unlock()
		}
	}

	// Cache hit
	if entry != nil {
		c.mutex.Lock()
		c.hits++
		c.mutex.Unlock()
		for _, msg := range entry.Msgs {
			log.AddMsg(msg)
		}
		return entry.Code, entry.OK, err
	}

	// Cache miss
	tempLog := logger.NewDeferLog()
	tempLog.Overrides = log.Overrides
	code, ok = transform(tempLog)
	msgs := tempLog.Done()
	for _, msg := range msgs {
		log.AddMsg(msg)
	}

	// Save for next time
	entry = &Entry{Code: code, Msgs: msgs, OK: ok}
	c.mutex.Lock()
	c.misses++
	c.entries[key] = entry
	c.mutex.Unlock()
	if c.disk != nil {
		if saveErr := c.disk.save(key, entry); saveErr != nil && err == nil {
			err = saveErr
		}
	}
	return code, ok, err
}

func (c *TransformCache) Stats() (hits int, misses int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.hits, c.misses
}
