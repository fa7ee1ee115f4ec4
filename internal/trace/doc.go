// Package trace records what a safethunk run spends its time on.
//
// Events form a tree of spans: one per run, one per input file, one per
// annotated declaration and one per synthesis stage (parse, resolve,
// validate, build, emit). The level picks how deep the tree is recorded:
//
//	safethunk gen --trace=- --trace-level=decl api.sfi
//
// A tracer travels with the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:api.sfi")
//	defer span.End("")
//
// StreamTracer writes events as they happen, RingTracer keeps the last N
// in memory for a dump after a failure, MultiTracer feeds several tracers.
package trace
