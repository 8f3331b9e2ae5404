package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/eidolon/lang"
)

type (
	kongKey   struct{}
	outputKey struct{}
	inputKey  struct{}
)

// WithContext returns a copy of ctx carrying ktx.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, kongKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(kongKey{}).(*kong.Context)

	return ktx
}

// WithOutput returns a copy of ctx whose commands write results to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithInput returns a copy of ctx whose commands read "-" from r.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// varFrom returns the kong variable name, or "" outside a kong command.
func varFrom(ctx context.Context, name string) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Model.Vars()[name]
	}

	return ""
}

// stdinSource selects standard input.
const stdinSource = "-"

// Input selects the program a command operates on: expression text, a named
// resource, or a list of files concatenated in order.
type Input struct {
	Expr     string   `help:"Program text, used instead of files."                    short:"e"`
	Resource string   `help:"Name of a program on the resource path."                 short:"r"`
	Include  []string `help:"Directory searched for resources before $EIDOLON_PATH." short:"I" type:"path"`
	Sources  []string `arg:"" help:"Program files, or '-' for stdin." name:"source" optional:""`
}

// read returns a display name for the program and its text.
func (in *Input) read(ctx context.Context) (name, source string, err error) {
	given := 0

	for _, set := range []bool{in.Expr != "", in.Resource != "", len(in.Sources) > 0} {
		if set {
			given++
		}
	}

	if given > 1 {
		return "", "", ErrConflictingInput
	}

	switch {
	case in.Expr != "":
		return "<expr>", in.Expr, nil

	case in.Resource != "":
		path, err := in.findResource(ctx)
		if err != nil {
			return "", "", err
		}

		source, err := readFiles(ctx, []string{path})

		return path, source, err

	default:
		sources := in.Sources
		if len(sources) == 0 {
			sources = []string{stdinSource}
		}

		source, err := readFiles(ctx, sources)

		return strings.Join(sources, ","), source, err
	}
}

// searchPath composes the resource directories: --include directories, then
// $EIDOLON_PATH, then the configuration directory. Duplicates and entries
// that are not directories are removed.
func (in *Input) searchPath(ctx context.Context) []string {
	subject := []string{os.Getenv(PathEnv)}

	if conf := varFrom(ctx, ConfigIdentifier); conf != "" {
		subject = append(subject, filepath.Dir(conf))
	}

	list := mung.Make(
		mung.WithSubjectItems(subject...),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(in.Include...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

func (in *Input) findResource(ctx context.Context) (string, error) {
	names := []string{in.Resource}
	if filepath.Ext(in.Resource) == "" {
		names = append(names, in.Resource+ResourceExt)
	}

	dirs := in.searchPath(ctx)

	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				return path, nil
			}
		}
	}

	return "", ErrResourceNotFound.With(
		slog.String("name", in.Resource),
		slog.Any("path", dirs),
	)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// fileKey identifies a file by device and inode, so one file named through
// different paths or symlinks is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// readFiles concatenates the named files, one per line, reading each file at
// most once. Every "-" refers to the same standard input.
func readFiles(ctx context.Context, paths []string) (string, error) {
	var (
		parts = make([]string, 0, len(paths))
		seen  = make(map[fileKey]struct{})
		stdin bool
	)

	for _, path := range paths {
		if path == stdinSource {
			if !stdin {
				stdin = true

				text, err := lang.ReadSource(inputFrom(ctx))
				if err != nil {
					return "", ErrReadSource.Wrap(err).With(slog.String("file", path))
				}

				parts = append(parts, text)
			}

			continue
		}

		text, ok, err := readUnique(path, seen)
		if err != nil {
			return "", ErrReadSource.Wrap(err).With(slog.String("file", path))
		}

		if ok {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n"), nil
}

// readUnique reads the file at path unless its key is already in seen.
func readUnique(path string, seen map[fileKey]struct{}) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			return "", false, nil
		}

		seen[key] = struct{}{}
	}

	text, err := lang.ReadSource(f)
	if err != nil {
		return "", false, err
	}

	return text, true, nil
}
