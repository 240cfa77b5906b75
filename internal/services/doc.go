// Package services defines shared utilities consumed by the pipeline stages
// and the external media tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and beat IDs for
//     logging.
//   - Structured error markers plus the Wrap helper, mirroring the failure
//     taxonomy of a run: missing inputs, external tool failures, and
//     malformed tool output.
//   - Classify, which turns a wrapped error into the short failure kind
//     persisted in reports and history.
package services
