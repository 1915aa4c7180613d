// Package diag defines the core diagnostic model shared by all analysis phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the scanner, the package parser and the semantic checks.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting, IO or CLI integration.
// Rendering lives in internal/diagfmt, orchestration in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Notice, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – the source.Location the message is stamped with. A zero
//     Location is valid and means "no position".
//   - Notes – optional secondary locations/messages, e.g. "declared here".
//
// Counts are authoritative for the pass/fail verdict: a Bag keeps counting
// after its storage limit is reached.
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter. ReportBuilder (ReportError/ReportWarning/
// ReportNotice) chains WithNote before Emit. DedupReporter drops repeated
// findings, CountingReporter lets a caller observe totals of a nested step.
package diag
