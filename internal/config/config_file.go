package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

const FileName = "classvars.toml"

// File is a "classvars.toml" project configuration. Command-line flags take
// precedence over everything in it.
type File struct {
	Transform TransformSection `toml:"transform"`
	Runtime   RuntimeSection   `toml:"runtime"`
	Output    OutputSection    `toml:"output"`
	Log       LogSection       `toml:"log"`

	// The path of the file and the directory containing it (set at load time)
	Path string `toml:"-"`
	Dir  string `toml:"-"`

	// Keys that were present in the file but that don't map to any setting
	Unknown []string `toml:"-"`
}

type TransformSection struct {
	TS        bool `toml:"ts"`
	ASCIIOnly bool `toml:"ascii-only"`
}

type RuntimeSection struct {
	Mode   string `toml:"mode"`
	Module string `toml:"module"`
}

type OutputSection struct {
	Dir      string `toml:"outdir"`
	CacheDir string `toml:"cache-dir"`
}

type LogSection struct {
	Level     string            `toml:"level"`
	Overrides map[string]string `toml:"overrides"`
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var file File
	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	file.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	file.Dir = filepath.Dir(file.Path)

	for _, key := range meta.Undecoded() {
		file.Unknown = append(file.Unknown, key.String())
	}
	sort.Strings(file.Unknown)

	if file.Runtime.Mode != "" {
		if _, ok := ParseRuntimeMode(file.Runtime.Mode); !ok {
			return nil, fmt.Errorf("invalid runtime mode %q in %s (valid: inline, import, none)", file.Runtime.Mode, path)
		}
	}

	return &file, nil
}

// FindAndLoad walks up from startDir to find a "classvars.toml" file, then
// loads it. It returns nil without an error if there is no such file.
func FindAndLoad(startDir string) (*File, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Copies the settings from the file into the options. Relative paths in the
// file are relative to the directory containing the file.
func (file *File) ApplyTo(options *Options) {
	options.TS.Parse = options.TS.Parse || file.Transform.TS
	options.ASCIIOnly = options.ASCIIOnly || file.Transform.ASCIIOnly
	if mode, ok := ParseRuntimeMode(file.Runtime.Mode); ok {
		options.Runtime = mode
	}
	if file.Runtime.Module != "" {
		options.RuntimeModule = file.Runtime.Module
	}
}

func (file *File) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(file.Dir, path)
}
