// Package engine is the host-facing façade over package lang.
//
// An [Engine] parses and evaluates source against a fresh environment on
// every call, renders the result as text, and forwards log events produced
// during evaluation to a [Sink] on a dedicated goroutine:
//
//	e := engine.New()
//	defer e.Close()
//
//	e.SetLogSink(engine.LogTo(log.Default()))
//
//	out, err := e.Evaluate(ctx, "let x = $v * 2\nx + 5", lang.Globals{"v": 10})
//	// out == "25"
//
// Errors are the typed errors of package lang, returned unchanged so hosts
// can match them with [errors.Is] and [errors.As].
//
// Hosts that cannot hold Go pointers (for example, a foreign function
// boundary) manage engines through a [Table] of opaque [Handle] values.
package engine
