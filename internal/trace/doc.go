// Package trace records what the compiler is doing, phase by phase.
//
// Tracing is off unless requested:
//
//	waccc build --trace=- --trace-level=detail prog.wacc
//
// Tracers:
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last events in memory and dumps them when the
//     compiler hits an internal error
//   - MultiTracer: fans events out to several tracers
//
// Levels select how much is recorded: phase emits driver and pass
// boundaries (parse, build, returns, codegen), detail adds one span per
// function, debug adds per-statement points.
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "codegen", 0)
//	defer span.End("")
package trace
