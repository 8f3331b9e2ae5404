package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/eidolon/lang"
	"github.com/ardnew/eidolon/log"
)

// Fmt prints a program in one of several structural forms.
type Fmt struct {
	Canonical Canonical `cmd:"" default:"withargs" help:"Print the program with minimal parentheses."`
	Tokens    Tokens    `cmd:""                    help:"Print the token stream."`
	AST       AST       `cmd:""                    help:"Print the syntax tree."`
	JSON      JSON      `cmd:""                    help:"Print the syntax tree as JSON."`
	YAML      YAML      `cmd:""                    help:"Print the syntax tree as YAML."`
}

// parse reads and parses the program selected by in.
func parse(ctx context.Context, in *Input, format string) (*lang.Program, error) {
	name, source, err := in.read(ctx)
	if err != nil {
		return nil, err
	}

	prog, err := lang.ParseString(ctx, source, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, lang.WrapError(err).With(
			slog.String("format", format),
			slog.String("source", name),
		)
	}

	return prog, nil
}

// Canonical prints the canonical source form of a program.
type Canonical struct {
	Input `embed:""`
}

// Run executes the fmt canonical command.
func (f *Canonical) Run(ctx context.Context) error {
	prog, err := parse(ctx, &f.Input, "canonical")
	if err != nil {
		return err
	}

	_, err = outputFrom(ctx).Write([]byte(prog.String() + "\n"))

	return err
}

// Tokens prints one token per line.
type Tokens struct {
	Input `embed:""`
}

// Run executes the fmt tokens command.
func (f *Tokens) Run(ctx context.Context) error {
	name, source, err := f.read(ctx)
	if err != nil {
		return err
	}

	tokens, err := lang.Tokenize(source)
	if err != nil {
		return lang.WrapError(err).With(
			slog.String("format", "tokens"),
			slog.String("source", name),
		)
	}

	return lang.FormatTokens(outputFrom(ctx), tokens)
}

// AST prints the syntax tree as an indented outline.
type AST struct {
	Input `embed:""`
}

// Run executes the fmt ast command.
func (f *AST) Run(ctx context.Context) error {
	prog, err := parse(ctx, &f.Input, "ast")
	if err != nil {
		return err
	}

	return lang.Print(outputFrom(ctx), prog)
}

// JSON prints the syntax tree as JSON.
type JSON struct {
	Input `embed:""`

	Indent int `default:"2" help:"Indent width; 0 prints compact JSON." short:"i"`
}

// Run executes the fmt json command.
func (f *JSON) Run(ctx context.Context) error {
	prog, err := parse(ctx, &f.Input, "json")
	if err != nil {
		return err
	}

	return lang.FormatJSON(outputFrom(ctx), prog, f.Indent)
}

// YAML prints the syntax tree as YAML.
type YAML struct {
	Input `embed:""`

	Indent int `default:"2" help:"Indent width; 0 prints flow style." short:"i"`
}

// Run executes the fmt yaml command.
func (f *YAML) Run(ctx context.Context) error {
	prog, err := parse(ctx, &f.Input, "yaml")
	if err != nil {
		return err
	}

	return lang.FormatYAML(ctx, outputFrom(ctx), prog, f.Indent)
}
