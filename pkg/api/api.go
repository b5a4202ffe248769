// This API exposes the instance variable transform to Go code. The command-line
// tool is a thin layer over this package.
//
// The transform turns instance variables ("let x = 1;" in a class body, used
// as "this::x") into one WeakMap per variable:
//
//	package main
//
//	import (
//		"fmt"
//
//		"github.com/evanw/classvars/pkg/api"
//	)
//
//	func main() {
//		result := api.Transform("class Foo { let x = 1; get() { return this::x } }", api.TransformOptions{})
//		if len(result.Errors) == 0 {
//			fmt.Printf("%s", result.Code)
//		}
//	}
package api

import (
	"github.com/evanw/classvars/internal/cache"
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	// The name of the message ID, if there is one. This can be used as a key
	// in "LogOverride" to change the level of this kind of message.
	ID string

	Text     string
	Location *Location
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

type RuntimeMode uint8

const (
	// Prepend the definitions of the runtime helpers that the output uses
	RuntimeInline RuntimeMode = iota

	// Import the runtime helpers from "RuntimeModule"
	RuntimeImport

	// Leave the runtime helpers undefined
	RuntimeNone
)

////////////////////////////////////////////////////////////////////////////////
// Transform API

type TransformOptions struct {
	Color      StderrColor
	ErrorLimit int
	LogLevel   LogLevel

	// Changes the level of individual kinds of messages. The keys are message
	// IDs such as "unused-instance-variable".
	LogOverride map[string]LogLevel

	// Allow type annotations on variables, parameters, and instance variables
	TS bool

	Runtime       RuntimeMode
	RuntimeModule string // Defaults to "classvars/runtime"
	ASCIIOnly     bool

	// The file name used in log messages
	Sourcefile string

	// Share one cache between many transforms to skip files that haven't
	// changed. This is optional.
	Cache *Cache
}

type TransformResult struct {
	Errors   []Message
	Warnings []Message

	// This is empty if there were any errors
	Code []byte
}

func Transform(input string, options TransformOptions) TransformResult {
	return transformImpl(input, options)
}

////////////////////////////////////////////////////////////////////////////////
// Cache API

// A cache of transform results. It's safe to use the same cache from multiple
// goroutines at once.
type Cache struct {
	impl *cache.TransformCache
}

// Results are also stored in "dir" if it's not empty, which lets separate runs
// reuse each other's results
func NewCache(dir string) *Cache {
	return &Cache{impl: cache.New(dir)}
}

func (c *Cache) Stats() (hits int, misses int) {
	return c.impl.Stats()
}
