package profile

// Tag names the build tag that enables profiling. It is also the name of the
// output subdirectory beneath the cache directory.
const Tag = "pprof"

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Path is the output directory. The profiler default is used if empty.
	Path string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Enabled reports whether p would start a profiler.
func (p Profiler) Enabled() bool {
	_, ok := mode[p.Mode]

	return ok
}

// Start begins profiling and returns the handle that stops it. Stop is
// always safe to call, including on the no-op handle returned when p is not
// [Profiler.Enabled].
func (p Profiler) Start() Stopper {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
