// Package cmd implements the eidolon subcommands.
//
// Each command is a kong command struct with a Run(context.Context) method.
// Commands read their program from files, stdin, or a named resource, and
// write results to the writer stored by [WithOutput] (stdout by default).
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file.
	ConfigIdentifier = "config"

	// MaxDepthIdentifier is the kong variable holding the default bound on
	// nesting and recursion depth.
	MaxDepthIdentifier = "maxDepth"

	// ResourceExt is the file extension tried when a resource name has none.
	ResourceExt = ".eid"

	// PathEnv names the environment variable listing resource directories.
	PathEnv = "EIDOLON_PATH"
)
