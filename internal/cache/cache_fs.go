package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
)

// Entries are stored one per file, named after their key. The contents are
// canonical CBOR so the same entry always produces the same bytes.
//
// A file that can't be decoded is treated as missing. This happens after the
// format changes, or if a previous run was killed while writing.

const formatVersion = 1

type diskEntry struct {
	Version int    `cbor:"1,keyasint"`
	Entry   *Entry `cbor:"2,keyasint"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cache: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

type diskStore struct {
	dir string
}

func (d *diskStore) path(key Key) string {
	name := key.String()
	return filepath.Join(d.dir, name[:2], name+".cbor")
}

func (d *diskStore) load(key Key) (*Entry, error) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache: read entry: %w", err)
	}

	var stored diskEntry
	if err := cbor.Unmarshal(data, &stored); err != nil || stored.Version != formatVersion || stored.Entry == nil {
		return nil, nil
	}
	return stored.Entry, nil
}

// Entries are written to a temporary file first and then renamed, so other
// processes never see a partially-written entry
func (d *diskStore) save(key Key, entry *Entry) error {
	data, err := encMode.Marshal(diskEntry{Version: formatVersion, Entry: entry})
	if err != nil {
		return fmt.Errorf("cache: encode entry: %w", err)
	}

	path := d.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cache: create directory: %w", err)
	}

	temp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("cache: create entry: %w", err)
	}
	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return fmt.Errorf("cache: write entry: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(temp.Name())
		return fmt.Errorf("cache: write entry: %w", err)
	}
	if err := os.Rename(temp.Name(), path); err != nil {
		os.Remove(temp.Name())
		return fmt.Errorf("cache: write entry: %w", err)
	}
	return nil
}
