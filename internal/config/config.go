package config

type TSOptions struct {
	// Allow type annotations on variables, parameters, and instance
	// variables. Types are skipped by the parser and never printed.
	Parse bool
}

type RuntimeMode uint8

const (
	// Prepend the definitions of the runtime helpers that the output uses
	RuntimeInline RuntimeMode = iota

	// Import the runtime helpers that the output uses from "RuntimeModule"
	RuntimeImport

	// Emit references to the runtime helpers without defining them. This is
	// used by tests and by callers that provide the helpers globally.
	RuntimeNone
)

func (mode RuntimeMode) String() string {
	switch mode {
	case RuntimeInline:
		return "inline"
	case RuntimeImport:
		return "import"
	case RuntimeNone:
		return "none"
	}
	return ""
}

func ParseRuntimeMode(text string) (RuntimeMode, bool) {
	switch text {
	case "inline":
		return RuntimeInline, true
	case "import":
		return RuntimeImport, true
	case "none":
		return RuntimeNone, true
	}
	return 0, false
}

const DefaultRuntimeModule = "classvars/runtime"

type Options struct {
	TS            TSOptions
	Runtime       RuntimeMode
	RuntimeModule string
	ASCIIOnly     bool
}

// Returns a string that is different whenever the output of a transform with
// these options could be different. This is used as part of cache keys.
func (options *Options) CacheKey() string {
	key := options.Runtime.String() + "|" + options.RuntimeModule
	if options.TS.Parse {
		key += "|ts"
	}
	if options.ASCIIOnly {
		key += "|ascii"
	}
	return key
}
