package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/eidolon/cli/cmd"
	"github.com/ardnew/eidolon/lang"
	"github.com/ardnew/eidolon/pkg"
)

// CLI is the top-level command-line interface for eidolon.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print the version and exit." short:"V"`

	Eval     cmd.Eval     `cmd:"" default:"withargs" help:"Evaluate a program."`
	Fmt      cmd.Fmt      `cmd:""                    help:"Print a program in a structural form."`
	Check    cmd.Check    `cmd:""                    help:"Compare evaluation against the reference evaluator."`
	Builtins cmd.Builtins `cmd:""                    help:"List builtin constants and functions."`
	Repl     cmd.Repl     `cmd:""                    help:"Start an interactive session."`
	Serve    cmd.Serve    `cmd:""                    help:"Serve the evaluator as MCP tools on stdio."`
	Init     cmd.Init     `cmd:""                    help:"Write the configuration file."`
}

// Run executes the eidolon CLI with the given context and arguments.
// The exit function is called with the exit code when kong terminates
// early, such as after printing help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFile := configPath(baseConfigYAML)

	vars := kong.Vars{
		"version":              pkg.Version(),
		cmd.ConfigIdentifier:   configFile,
		cmd.CacheIdentifier:    cacheDir(),
		cmd.MaxDepthIdentifier: strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before kong reports any parse errors.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.DefaultEnvars(pkg.EnvPrefix),
		// Resolved when a command first runs, after ctx carries the kong
		// context.
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfigJSON)),
		kong.Configuration(resolve(ctx), configFile),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// No-op unless built with the pprof tag and a mode was selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
