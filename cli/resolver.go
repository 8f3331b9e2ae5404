package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/eidolon/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files,
// such as the one written by the init command.
//
// Keys name flags without their leading dashes, with either hyphens or
// underscores between words. Nested mappings are joined with hyphens, so
// the following are equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// A file that cannot be decoded is ignored with a warning, so that a broken
// configuration never prevents init --force from replacing it. Command-line
// flags override configured values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			log.WarnContext(ctx, "ignoring invalid configuration file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		c := config{}
		c.flatten("", doc)

		return c, nil
	}
}

// config implements [kong.Resolver] over flattened configuration keys.
type config map[string]any

// flatten stores the entries of m under prefix. Mappings are also stored
// whole under their own key.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		key = normalize(key)
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := value.(map[string]any); ok {
			c.flatten(key, sub)
		}

		c[key] = scalar(value)
	}
}

// normalize maps a configuration key onto the kong flag naming convention.
func normalize(key string) string {
	return strings.ReplaceAll(strings.TrimSpace(key), "_", "-")
}

// scalar converts numbers to the strings kong decodes flags from.
func scalar(value any) any {
	switch v := value.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = fmt.Sprint(scalar(e))
		}

		return out
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[normalize(flag.Name)]; ok {
		return value, nil
	}

	return nil, nil
}
