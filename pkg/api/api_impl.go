package api

import (
	"fmt"
	"sort"

	"github.com/evanw/classvars/internal/config"
	"github.com/evanw/classvars/internal/helpers"
	"github.com/evanw/classvars/internal/js_lower"
	"github.com/evanw/classvars/internal/js_parser"
	"github.com/evanw/classvars/internal/js_printer"
	"github.com/evanw/classvars/internal/logger"
	"github.com/evanw/classvars/internal/runtime"
)

func validateColor(value StderrColor) logger.UseColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

func validateRuntimeMode(value RuntimeMode) config.RuntimeMode {
	switch value {
	case RuntimeInline:
		return config.RuntimeInline
	case RuntimeImport:
		return config.RuntimeImport
	case RuntimeNone:
		return config.RuntimeNone
	default:
		panic("Invalid runtime mode")
	}
}

// Unknown IDs are ignored so that a newer config still works with an older
// version of this package
func validateLogOverrides(input map[string]LogLevel) map[logger.MsgID]logger.LogLevel {
	if len(input) == 0 {
		return nil
	}
	output := make(map[logger.MsgID]logger.LogLevel)
	for id, level := range input {
		logger.StringToMsgIDs(id, validateLogLevel(level), output)
	}
	return output
}

func convertLocationToPublic(loc *logger.MsgLocation) *Location {
	if loc == nil {
		return nil
	}
	return &Location{
		File:     loc.File,
		Line:     loc.Line,
		Column:   loc.Column,
		Length:   loc.Length,
		LineText: loc.LineText,
	}
}

func convertMessagesToPublic(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			filtered = append(filtered, Message{
				ID:       logger.MsgIDToString(msg.ID),
				Text:     msg.Text,
				Location: convertLocationToPublic(msg.Location),
			})
		}
	}
	return filtered
}

func transformImpl(input string, options TransformOptions) TransformResult {
	overrides := validateLogOverrides(options.LogOverride)
	var log logger.Log
	if options.LogLevel == LogLevelSilent {
		log = logger.NewDeferLog()
		log.Overrides = overrides
	} else {
		log = logger.NewStderrLog(logger.OutputOptions{
			IncludeSource: true,
			ErrorLimit:    options.ErrorLimit,
			Color:         validateColor(options.Color),
			LogLevel:      validateLogLevel(options.LogLevel),
			Overrides:     overrides,
		})
	}

	// Convert and validate the options
	transformOptions := config.Options{
		TS:            config.TSOptions{Parse: options.TS},
		Runtime:       validateRuntimeMode(options.Runtime),
		RuntimeModule: options.RuntimeModule,
		ASCIIOnly:     options.ASCIIOnly,
	}
	if transformOptions.RuntimeModule == "" {
		transformOptions.RuntimeModule = config.DefaultRuntimeModule
	}
	prettyPath := options.Sourcefile
	if prettyPath == "" {
		prettyPath = "<stdin>"
	}
	source := logger.Source{
		PrettyPath: prettyPath,
		Contents:   input,
	}

	run := func(log logger.Log) ([]byte, bool) {
		return transformSource(log, source, &transformOptions)
	}

	var code []byte
	var ok bool
	if options.Cache != nil {
		var err error
		code, ok, err = options.Cache.impl.Transform(log, source, transformOptions.CacheKey(), run)
		if err != nil {
			log.AddIDWithRange(logger.MsgID_Cache_Unavailable, nil, logger.Range{},
				fmt.Sprintf("Failed to use the cache: %s", err.Error()))
		}
	} else {
		code, ok = run(log)
	}

	msgs := log.Done()
	result := TransformResult{
		Errors:   convertMessagesToPublic(logger.Error, msgs),
		Warnings: convertMessagesToPublic(logger.Warning, msgs),
	}
	if ok && len(result.Errors) == 0 {
		result.Code = code
	}
	return result
}

// The result is only used if "ok" is true. Errors have already been logged.
func transformSource(log logger.Log, source logger.Source, options *config.Options) (code []byte, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.AddError(nil, logger.Loc{},
				fmt.Sprintf("panic: %v (while transforming %q)\n%s", r, source.PrettyPath, helpers.ModuleStack()))
			code = nil
			ok = false
		}
	}()

	tree, ok := js_parser.Parse(log, source, js_parser.OptionsFromConfig(options))
	if !ok || log.HasErrors() {
		return nil, false
	}

	result, ok := js_lower.Lower(log, source, &tree)
	if !ok {
		return nil, false
	}

	js := js_printer.Print(tree, js_printer.Options{ASCIIOnly: options.ASCIIOnly}).JS

	// The runtime helpers that the output uses go before it
	var prelude string
	switch options.Runtime {
	case config.RuntimeInline:
		prelude = runtime.Code(result.UsedHelpers)
	case config.RuntimeImport:
		prelude = runtime.ImportCode(result.UsedHelpers, options.RuntimeModule, func(text string) string {
			return string(helpers.QuoteForJS(text, options.ASCIIOnly))
		})
	}
	if prelude == "" {
		return js, true
	}
	code = make([]byte, 0, len(prelude)+len(js))
	code = append(code, prelude...)
	return append(code, js...), true
}

// Returns the message IDs that can be used with "LogOverride", sorted
func LogOverrideIDs() []string {
	var ids []string
	for id := logger.MsgID_None; id < logger.MsgID_END; id++ {
		if str := logger.MsgIDToString(id); str != "" {
			ids = append(ids, str)
		}
	}
	sort.Strings(ids)
	return ids
}
