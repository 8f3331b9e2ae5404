package cmd

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/eidolon/log"
	"github.com/ardnew/eidolon/pkg"
	"github.com/ardnew/eidolon/profile"
)

// configIndent is the indentation of generated configuration files.
const configIndent = 2

// Init writes the configuration file from the current global flag values.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	path := varFrom(ctx, ConfigIdentifier)
	if path == "" {
		return ErrWriteConfig.With(slog.String("reason", "no configuration path"))
	}

	if _, err := os.Stat(path); err == nil && !i.Force {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(ErrFileExists)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	data, err := yaml.MarshalContext(ctx, i.values(kongContextFrom(ctx)),
		yaml.Indent(configIndent))
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	header := fmt.Sprintf("# %s %s configuration\n", pkg.Name, pkg.Version())

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	if err := os.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", slog.String("path", path))

	return nil
}

// values maps each global flag name to its current value. Flags that cannot
// be configured from a file are omitted.
func (i *Init) values(ktx *kong.Context) map[string]any {
	values := map[string]any{}
	if ktx == nil {
		return values
	}

	skip := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(skip, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := configValue(ktx.FlagValue(flag)); v != nil {
			values[flag.Name] = v
		}
	}

	return values
}

// configValue converts a flag value to a YAML-friendly form, or nil if the
// flag is unset.
func configValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if x == "" {
			return nil
		}

		return x
	case []string:
		if len(x) == 0 {
			return nil
		}

		return x
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		if err != nil {
			return nil
		}

		return string(text)
	case fmt.Stringer:
		return x.String()
	default:
		return x
	}
}
