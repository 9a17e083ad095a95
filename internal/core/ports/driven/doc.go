// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - AnalysisBackend: Sends one analysis request to the remote backend
//   - HistorySlot: Persists the history collection as a single blob
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryBackend: Remote history source. Without it, history is
//     local-only.
//   - Connectivity: Reachability precheck. Without it, every analysis
//     proceeds optimistically.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
