// Package cli contains the command line interface for eidolon.
//
// # Commands
//
//	eidolon [eval] -e '2 + 2 * 2'           evaluate (the default command)
//	eidolon fmt {canonical|tokens|ast|json|yaml} FILE
//	eidolon check -g r=2 -e 'PI * $r ^ 2'   compare with the reference evaluator
//	eidolon builtins                        list constants and functions
//	eidolon repl                            interactive session
//	eidolon serve                           MCP tools on stdio
//	eidolon init                            write the configuration file
//
// Programs are read from -e text, from files (or '-' for stdin), or by
// resource name with -r, which searches the --include directories,
// $EIDOLON_PATH, and the configuration directory for NAME or NAME.eid.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory, then config.json beside it, then EIDOLON_* environment
// variables. See [resolve] for the YAML key forms. The init command writes
// the current global flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, kitchen, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o eidolon .
//
//   - --pprof-mode: enable profiling (cpu, mem, block, ...)
//   - --pprof-dir: profile output directory (default: the pprof
//     subdirectory of the user cache directory)
package cli
