// Package trace provides span tracing for codetidy runs.
//
// It is the structured logging layer of the tool: each pipeline stage is a
// span, each processed file is a point event, and the output is written as
// text or NDJSON to stderr or a file.
//
// # Usage
//
//	codetidy --trace=- --trace-level=detail check .
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failures
//   - LevelPhase: Driver and stage boundaries
//   - LevelDetail: Per-file events
//   - LevelDebug: Everything, including per-match events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeStage, "docs", parentID)
//	defer span.End("")
package trace
