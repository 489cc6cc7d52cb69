// Package diag defines the finding model shared by all stages of the error
// code check.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     by the registry, explanation, UI-test and usage stages.
//   - Offer light-weight utilities (Reporter, Bag) that let stages emit
//     findings without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not perform any IO or CLI integration. Rendering lives in
// internal/diagfmt (pretty/json/sarif) with the exception of the stable
// one-line form in short.go, which tests and baselines rely on.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – SevWarning or SevError (SevInfo exists for completeness).
//   - Rule – stable numeric identifier (see rules.go) rendered as REG1003,
//     DOC2005, etc.
//   - Code – the compiler error code the finding is about, if any.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – path and optional line/column.
//   - Snippet – the offending line, when one exists.
//   - Notes – secondary locations, e.g. the first declaration of a duplicate.
//
// # Accumulation
//
// A single Bag is created per run and handed to every stage through a
// BagReporter. Stages only append; nothing is ever removed or reordered, so
// two runs over the same tree produce identical ordered findings. Warnings
// are kept in the Bag even when the caller is not verbose; hiding them is a
// rendering decision.
package diag
