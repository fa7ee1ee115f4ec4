// Package diag defines the diagnostic model shared by the front end, the
// wrapper synthesizer and the driver.
//
// A Diagnostic carries a Severity, a numeric Code with a stable string ID
// (LEX, SYN, THK, IO, PRJ, OBS, FUT prefixes), a message, a primary
// source.Span and optional notes and fix suggestions.
//
// Producers emit through a Reporter, usually via ReportBuilder:
//
//	diag.ReportError(r, diag.ThkIndexOutOfRange, span, "pointer index out of bounds").
//		WithNote(fnSpan, "function fill has parameter indices 1..2").
//		Emit()
//
// BagReporter collects into a Bag with a size limit. A Reporter given to one
// synthesis run is used only by that run; the driver merges per-run bags in
// declaration order afterwards. LockedReporter exists for sinks that really are
// shared between goroutines.
//
// Rendering lives in internal/diagfmt; FormatShortDiagnostics here is the
// single-line form shared by the CLI and tests.
package diag
