// Package profile starts optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	eidolon --pprof-mode cpu eval expr.eid
//	go tool pprof -http=: "$XDG_CACHE_HOME/eidolon/pprof/cpu.pprof"
//
// Without the tag, [Modes] is empty and [Profiler.Start] always returns a
// no-op [Stopper], so callers never need their own build constraints.
package profile
