// Package domain defines the core business entities for Apunto.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - AnalysisResult: The structured output of one document analysis
//   - HistoryItem: A persisted record of a past analysis
//   - AnalysisError: A classified failure from the analysis pipeline
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
