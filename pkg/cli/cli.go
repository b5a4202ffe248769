// This package implements the "classvars" command-line tool. It's a separate
// package from "cmd/classvars" so that other Go programs can embed the tool.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/evanw/classvars/internal/config"
	"github.com/evanw/classvars/internal/logger"
	"github.com/evanw/classvars/pkg/api"
)

// Returns the exit code. Input comes from the files in the arguments, or from
// stdin if there are none.
func Run(osArgs []string) int {
	return runImpl(osArgs, os.Stdin, os.Stdout)
}

type outputFile struct {
	inputPath  string
	outputPath string
	result     api.TransformResult
}

func runImpl(osArgs []string, stdin io.Reader, stdout io.Writer) int {
	options, log, err := parseOptionsForRun(osArgs)
	if err != nil {
		logger.PrintErrorToStderr(osArgs, err.Error())
		return 1
	}

	// Each transform collects its own messages and they are all printed here
	// at the end, sorted, with a single summary line
	transformOptions := options.transform
	transformOptions.LogLevel = api.LogLevelSilent
	if options.cacheDir != "" {
		transformOptions.Cache = api.NewCache(options.cacheDir)
	}

	var outputs []outputFile

	if len(options.files) == 0 {
		bytes, err := io.ReadAll(stdin)
		if err != nil {
			logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
				"Could not read from stdin: %s", err.Error()))
			return 1
		}
		outputs = append(outputs, outputFile{
			outputPath: options.outfile,
			result:     api.Transform(string(bytes), transformOptions),
		})
	} else {
		outputs = make([]outputFile, len(options.files))
		for i, path := range options.files {
			outputs[i].inputPath = path
			outputs[i].outputPath = outputPathFor(path, options)
		}
		if err := checkForOutputCollisions(outputs); err != nil {
			logger.PrintErrorToStderr(osArgs, err.Error())
			return 1
		}

		// Files are independent so they are transformed in parallel
		waitGroup := sync.WaitGroup{}
		for i := range outputs {
			waitGroup.Add(1)
			go func(output *outputFile) {
				defer waitGroup.Done()
				output.result = transformFile(output.inputPath, transformOptions)
			}(&outputs[i])
		}
		waitGroup.Wait()
	}

	// Report the messages from every file
	hasErrors := false
	for _, output := range outputs {
		for _, msg := range output.result.Errors {
			log.AddMsg(messageFromPublic(logger.Error, msg))
			hasErrors = true
		}
		for _, msg := range output.result.Warnings {
			log.AddMsg(messageFromPublic(logger.Warning, msg))
		}
	}
	log.Done()
	if hasErrors {
		return 1
	}

	// Only write output once every file has succeeded
	for _, output := range outputs {
		if err := writeOutput(output, stdout); err != nil {
			logger.PrintErrorToStderr(osArgs, err.Error())
			return 1
		}
	}
	return 0
}

func parseOptionsForRun(osArgs []string) (cliOptions, logger.Log, error) {
	options := newCLIOptions()

	// Load the config file before parsing flags since flags take precedence
	file, err := loadConfigFile(findConfigFlag(osArgs))
	if err != nil {
		return cliOptions{}, logger.Log{}, err
	}
	if file != nil {
		if err := applyConfigFile(file, &options); err != nil {
			return cliOptions{}, logger.Log{}, err
		}
	}

	if err := parseOptionsImpl(osArgs, &options); err != nil {
		return cliOptions{}, logger.Log{}, err
	}

	overrides := make(map[logger.MsgID]logger.LogLevel)
	for id, level := range options.transform.LogOverride {
		logger.StringToMsgIDs(id, logLevelFromPublic(level), overrides)
	}
	log := logger.NewStderrLog(logger.OutputOptions{
		IncludeSource: true,
		ErrorLimit:    options.transform.ErrorLimit,
		Color:         colorFromPublic(options.transform.Color),
		LogLevel:      logLevelFromPublic(options.transform.LogLevel),
		Overrides:     overrides,
	})

	// Unknown keys in the config file are probably typos
	if file != nil {
		for _, key := range file.Unknown {
			log.AddIDWithRange(logger.MsgID_Config_UnknownField, nil, logger.Range{},
				fmt.Sprintf("Ignoring unknown setting %q in %s", key, file.Path))
		}
	}

	return options, log, nil
}

// An explicit path must exist. Otherwise the directory tree is searched
// upward from the working directory.
func loadConfigFile(explicitPath string) (*config.File, error) {
	if explicitPath != "" {
		return config.Load(explicitPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("Cannot get the working directory: %w", err)
	}
	return config.FindAndLoad(cwd)
}

func transformFile(path string, options api.TransformOptions) api.TransformResult {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return api.TransformResult{Errors: []api.Message{{
			Text: fmt.Sprintf("Could not read from file: %s", path),
		}}}
	}
	options.Sourcefile = filepath.ToSlash(path)
	return api.Transform(string(bytes), options)
}

// Output files keep the name of their input file with a ".js" extension. An
// empty path means stdout.
func outputPathFor(inputPath string, options cliOptions) string {
	if options.outfile != "" {
		return options.outfile
	}
	if options.outdir == "" {
		return ""
	}
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".js"
	return filepath.Join(options.outdir, base)
}

func checkForOutputCollisions(outputs []outputFile) error {
	seen := make(map[string]string)
	for _, output := range outputs {
		if output.outputPath == "" {
			if len(outputs) > 1 {
				return fmt.Errorf("Must use \"outdir\" when there are multiple input files")
			}
			continue
		}
		if other, ok := seen[output.outputPath]; ok {
			return fmt.Errorf("Two input files would be written to %q: %q and %q", output.outputPath, other, output.inputPath)
		}
		seen[output.outputPath] = output.inputPath
	}
	return nil
}

func writeOutput(output outputFile, stdout io.Writer) error {
	if output.outputPath == "" {
		if _, err := stdout.Write(output.result.Code); err != nil {
			return fmt.Errorf("Failed to write to stdout: %s", err.Error())
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(output.outputPath), 0755); err != nil {
		return fmt.Errorf("Failed to create output directory: %s", err.Error())
	}
	if err := os.WriteFile(output.outputPath, output.result.Code, 0644); err != nil {
		return fmt.Errorf("Failed to write to output file: %s", err.Error())
	}
	return nil
}

func messageFromPublic(kind logger.MsgKind, msg api.Message) logger.Msg {
	var location *logger.MsgLocation
	if msg.Location != nil {
		location = &logger.MsgLocation{
			File:     msg.Location.File,
			Line:     msg.Location.Line,
			Column:   msg.Location.Column,
			Length:   msg.Location.Length,
			LineText: msg.Location.LineText,
		}
	}
	return logger.Msg{Kind: kind, Text: msg.Text, Location: location}
}

func logLevelFromPublic(level api.LogLevel) logger.LogLevel {
	switch level {
	case api.LogLevelInfo:
		return logger.LevelInfo
	case api.LogLevelWarning:
		return logger.LevelWarning
	case api.LogLevelError:
		return logger.LevelError
	default:
		return logger.LevelSilent
	}
}

func colorFromPublic(color api.StderrColor) logger.UseColor {
	switch color {
	case api.ColorNever:
		return logger.ColorNever
	case api.ColorAlways:
		return logger.ColorAlways
	default:
		return logger.ColorIfTerminal
	}
}
