//go:build !pprof

package profile

// Modes returns nil when built without the pprof tag.
func Modes() []string { return nil }

var mode map[string]struct{}

func start(Profiler) Stopper { return ignore{} }
