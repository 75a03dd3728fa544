// Package pipeline sequences raster operations over an advancing working
// input.
//
// A pipeline holds one piece of mutable state: the current input path.
// It starts at the original input and advances only when an
// artifact-producing step succeeds, so every step consumes the newest
// good artifact and a failed or skipped step is isolated — the next step
// runs against the last good input, never a half-written file.
//
// # Step lifecycle
//
// Each step moves Pending → Running → {Succeeded, Failed, Skipped}.
// Skips are reported preconditions (a georeference step with no control
// points configured); failures are broken work (unreadable input, a
// control point file that will not parse, a singular fit). Neither aborts
// the run: every configured step is attempted and the Summary enumerates
// per-step outcomes for the caller to judge.
//
// # Artifact naming
//
// Output names are derived from the current input's stem plus the
// operation name, so chains accumulate suffixes:
//
//	map.png → map_convert.tif → map_convert_georeference.tif
//
// A repeated operation that did not advance the input gets its step index
// appended instead of silently overwriting.
package pipeline
