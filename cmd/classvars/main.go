package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/evanw/classvars/internal/logger"
	"github.com/evanw/classvars/pkg/cli"
)

const classvarsVersion = "0.1.0"

const helpText = `
Usage:
  classvars [options] [files]

Instance variables are declared in a class body with "let" or "const" and
accessed with "::", as in "this::x". They are rewritten into WeakMaps.

Options:
  --outfile=...         The output file (for one input file)
  --outdir=...          The output directory (for multiple input files)
  --runtime=...         How to provide the runtime helpers (inline, import,
                        none; default inline)
  --runtime-module=...  The module to import the helpers from when using
                        --runtime=import (default classvars/runtime)
  --ts                  Allow type annotations and drop them from the output
  --color=...           Force use of color terminal escapes (true or false)

Advanced options:
  --version                 Print the current version and exit (` + classvarsVersion + `)
  --ascii-only              Escape non-ASCII characters in the output
  --cache-dir=...           Reuse results from earlier runs stored here
  --config=...              Use this file instead of looking for classvars.toml
  --error-limit=...         Maximum error count or 0 to disable (default 10)
  --log-level=...           Disable logging (info, warning, error, silent)
  --log-override:X=Y        Use log level Y for message X (e.g.
                            --log-override:unused-instance-variable=silent)
  --sourcefile=...          Set the file name used in messages (for stdin)

Examples:
  # Transform every file into the "out" directory
  classvars src/a.js src/b.js --outdir=out

  # Load the helpers from a shared module instead of repeating them
  classvars --runtime=import --runtime-module=./helpers.js < input.js > output.js
`

func main() {
	osArgs := os.Args[1:]
	traceFile := ""
	cpuprofileFile := ""

	// Do an initial scan over the argument list
	argsEnd := 0
	for _, arg := range osArgs {
		switch {
		// Show help if a common help flag is provided
		case arg == "-h", arg == "-help", arg == "--help", arg == "/?":
			fmt.Fprintf(os.Stderr, "%s\n", helpText)
			os.Exit(0)

		// Special-case the version flag here
		case arg == "--version":
			fmt.Fprintf(os.Stderr, "%s\n", classvarsVersion)
			os.Exit(0)

		case strings.HasPrefix(arg, "--trace="):
			traceFile = arg[len("--trace="):]

		case strings.HasPrefix(arg, "--cpuprofile="):
			cpuprofileFile = arg[len("--cpuprofile="):]

		default:
			// Strip any arguments that were handled above
			osArgs[argsEnd] = arg
			argsEnd++
		}
	}
	osArgs = osArgs[:argsEnd]

	// Print help text when there are no arguments
	if len(osArgs) == 0 && logger.GetTerminalInfo(os.Stdin).IsTTY {
		fmt.Fprintf(os.Stderr, "%s\n", helpText)
		os.Exit(0)
	}

	// Capture the defer statements below so they run before exiting
	exitCode := 1
	func() {
		// To view a trace, use "go tool trace [file]"
		if traceFile != "" {
			f, err := os.Create(traceFile)
			if err != nil {
				logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
					"Failed to create trace file: %s", err.Error()))
				return
			}
			defer f.Close()
			trace.Start(f)
			defer trace.Stop()
		}

		if cpuprofileFile != "" {
			f, err := os.Create(cpuprofileFile)
			if err != nil {
				logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
					"Failed to create cpuprofile file: %s", err.Error()))
				return
			}
			defer f.Close()
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		exitCode = cli.Run(osArgs)
	}()

	os.Exit(exitCode)
}
