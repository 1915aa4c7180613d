// Package trace records what a check run is doing: which entry files are
// analysed, which files each of them pulls in and how long every step
// takes. It is meant for diagnosing slow or stuck runs, not for users.
//
// Enable tracing with the check command flags:
//
//	plint check --trace=- --trace-level=detail src/
//
// Events are written immediately (stream mode), kept in a bounded ring
// buffer that is dumped when the run crashes (ring mode), or both.
//
// Levels select scopes: phase shows the run and its entry files, detail
// adds every parsed file and debug adds the rest.
//
// Tracers travel through the driver in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeEntry, "check", 0)
//	defer span.End("")
package trace
