package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/evanw/classvars/internal/config"
	"github.com/evanw/classvars/internal/helpers"
	"github.com/evanw/classvars/pkg/api"
)

type cliOptions struct {
	transform api.TransformOptions

	outfile    string
	outdir     string
	cacheDir   string
	configPath string
	files      []string
}

func newCLIOptions() cliOptions {
	return cliOptions{
		transform: api.TransformOptions{
			// Apply defaults appropriate for the CLI
			ErrorLimit:    10,
			LogLevel:      api.LogLevelInfo,
			LogOverride:   make(map[string]api.LogLevel),
			RuntimeModule: config.DefaultRuntimeModule,
		},
	}
}

// Settings from the config file are applied first so that flags can override
// them. Returns the path of the config file given with "--config=" if any.
func findConfigFlag(osArgs []string) string {
	path := ""
	for _, arg := range osArgs {
		if strings.HasPrefix(arg, "--config=") {
			path = arg[len("--config="):]
		}
	}
	return path
}

func parseOptionsImpl(osArgs []string, options *cliOptions) error {
	hasOutfileFlag := false
	hasOutdirFlag := false

	for _, arg := range osArgs {
		switch {
		case arg == "--ts":
			options.transform.TS = true

		case arg == "--ascii-only":
			options.transform.ASCIIOnly = true

		case strings.HasPrefix(arg, "--runtime="):
			value := arg[len("--runtime="):]
			mode, ok := config.ParseRuntimeMode(value)
			if !ok {
				return fmt.Errorf("Invalid runtime: %q (valid: inline, import, none)", value)
			}
			options.transform.Runtime = runtimeModeToPublic(mode)

		case strings.HasPrefix(arg, "--runtime-module="):
			value := arg[len("--runtime-module="):]
			if value == "" {
				return fmt.Errorf("Invalid runtime module: %q", value)
			}
			options.transform.RuntimeModule = value

		case strings.HasPrefix(arg, "--sourcefile="):
			options.transform.Sourcefile = arg[len("--sourcefile="):]

		case strings.HasPrefix(arg, "--outfile="):
			options.outfile = arg[len("--outfile="):]
			hasOutfileFlag = true

		case strings.HasPrefix(arg, "--outdir="):
			options.outdir = arg[len("--outdir="):]
			hasOutdirFlag = true

		case strings.HasPrefix(arg, "--cache-dir="):
			options.cacheDir = arg[len("--cache-dir="):]

		case strings.HasPrefix(arg, "--config="):
			options.configPath = arg[len("--config="):]

		case strings.HasPrefix(arg, "--error-limit="):
			value := arg[len("--error-limit="):]
			limit, err := strconv.Atoi(value)
			if err != nil || limit < 0 {
				return fmt.Errorf("Invalid error limit: %q", value)
			}
			options.transform.ErrorLimit = limit

		case strings.HasPrefix(arg, "--log-level="):
			value := arg[len("--log-level="):]
			level, err := parseLogLevel(value)
			if err != nil {
				return err
			}
			options.transform.LogLevel = level

		case strings.HasPrefix(arg, "--log-override:"):
			value := arg[len("--log-override:"):]
			equals := strings.IndexByte(value, '=')
			if equals == -1 {
				return fmt.Errorf("Missing \"=\" in %q", arg)
			}
			if err := addLogOverride(options, value[:equals], value[equals+1:]); err != nil {
				return err
			}

		case arg == "--color=true":
			options.transform.Color = api.ColorAlways

		case arg == "--color=false":
			options.transform.Color = api.ColorNever

		case strings.HasPrefix(arg, "--color="):
			return fmt.Errorf("Invalid color: %q (valid: true, false)", arg[len("--color="):])

		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("Invalid flag: %q", arg)

		default:
			options.files = append(options.files, arg)
		}
	}

	if hasOutfileFlag && hasOutdirFlag {
		return fmt.Errorf("Cannot use both \"outfile\" and \"outdir\"")
	}
	if hasOutfileFlag {
		// This replaces an "outdir" from the config file
		options.outdir = ""
	}
	if options.outfile != "" && len(options.files) > 1 {
		return fmt.Errorf("Must use \"outdir\" when there are multiple input files")
	}
	return nil
}

func parseLogLevel(value string) (api.LogLevel, error) {
	switch value {
	case "info":
		return api.LogLevelInfo, nil
	case "warning":
		return api.LogLevelWarning, nil
	case "error":
		return api.LogLevelError, nil
	case "silent":
		return api.LogLevelSilent, nil
	default:
		return 0, fmt.Errorf("Invalid log level: %q (valid: info, warning, error, silent)", value)
	}
}

func addLogOverride(options *cliOptions, id string, value string) error {
	valid := api.LogOverrideIDs()
	found := false
	for _, name := range valid {
		if name == id {
			found = true
			break
		}
	}
	if !found {
		if corrected, ok := helpers.MakeTypoDetector(valid).MaybeCorrectTypo(id); ok {
			return fmt.Errorf("Invalid message ID: %q (did you mean %q?)", id, corrected)
		}
		return fmt.Errorf("Invalid message ID: %q (valid: %s)", id, helpers.QuotedList(valid))
	}
	level, err := parseLogLevel(value)
	if err != nil {
		return err
	}
	options.transform.LogOverride[id] = level
	return nil
}

func runtimeModeToPublic(mode config.RuntimeMode) api.RuntimeMode {
	switch mode {
	case config.RuntimeImport:
		return api.RuntimeImport
	case config.RuntimeNone:
		return api.RuntimeNone
	default:
		return api.RuntimeInline
	}
}

// Copies the settings from a "classvars.toml" file. Paths in the file are
// relative to the directory that contains it.
func applyConfigFile(file *config.File, options *cliOptions) error {
	fromFile := config.Options{RuntimeModule: options.transform.RuntimeModule}
	file.ApplyTo(&fromFile)
	options.transform.TS = fromFile.TS.Parse
	options.transform.ASCIIOnly = fromFile.ASCIIOnly
	options.transform.Runtime = runtimeModeToPublic(fromFile.Runtime)
	options.transform.RuntimeModule = fromFile.RuntimeModule

	options.outdir = file.ResolvePath(file.Output.Dir)
	options.cacheDir = file.ResolvePath(file.Output.CacheDir)

	if file.Log.Level != "" {
		level, err := parseLogLevel(file.Log.Level)
		if err != nil {
			return fmt.Errorf("%s in %s", err.Error(), file.Path)
		}
		options.transform.LogLevel = level
	}
	for id, value := range file.Log.Overrides {
		if err := addLogOverride(options, id, value); err != nil {
			return fmt.Errorf("%s in %s", err.Error(), file.Path)
		}
	}
	return nil
}
