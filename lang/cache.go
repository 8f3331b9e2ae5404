package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// CacheSize is the number of parsed programs retained by [ParseString].
// The least recently used program is evicted beyond this bound.
const CacheSize = 1024

// parseCache stores parsed programs keyed by source hash and options.
// Programs are immutable, so cached values are shared between callers.
var parseCache = func() *lru.Cache[string, *state] {
	c, err := lru.New[string, *state](CacheSize)
	if err != nil {
		panic(err)
	}

	return c
}()

// state tracks parsing state for one cached source.
type state struct {
	once   sync.Once
	source string
	prog   *Program
	err    error
}

// cacheKey combines the xxh3 hash of source with the options that affect
// the parse result.
func cacheKey(source string, cfg config) string {
	return strconv.FormatUint(xxh3.HashString(source), 36) +
		":" + strconv.Itoa(cfg.maxDepth)
}

// ParseString tokenizes and parses source. The result, including any error,
// is cached so identical content is parsed only once even when requested
// from multiple goroutines. At most [CacheSize] programs are retained.
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Program, error) {
	cfg := makeConfig(opts...)
	key := cacheKey(source, cfg)

	entry, hit := parseCache.Get(key)
	if !hit {
		fresh := &state{source: source}

		if prev, ok, _ := parseCache.PeekOrAdd(key, fresh); ok {
			entry, hit = prev, true
		} else {
			entry = fresh
		}
	}

	if entry.source != source {
		// Hash collision; parse without caching.
		return parseSource(ctx, source, cfg)
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.prog, entry.err = parseSource(ctx, source, cfg)
	})

	return entry.prog, entry.err
}

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	source, err := ReadSource(r)
	if err != nil {
		return nil, err
	}

	return ParseString(ctx, source, opts...)
}

// ReadSource reads all of r through an asynchronous read-ahead buffer, so
// data is prefetched while earlier chunks are copied.
func ReadSource(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	return string(data), nil
}

func parseSource(ctx context.Context, source string, cfg config) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	prog, err := parse(tokens, source, cfg)
	if err != nil {
		return nil, err
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(source)),
		slog.Int("tokens", len(tokens)),
		slog.Int("statements", len(prog.Statements)),
	)

	return prog, nil
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	parseCache.Purge()
}

// CacheLen returns the number of programs currently cached.
func CacheLen() int {
	return parseCache.Len()
}
