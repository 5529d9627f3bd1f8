// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - ReportStore: Report run state persistence, including the per-report lock
//   - MemoryStore: Learned outline persistence
//   - DocumentStore: Document and chunk persistence
//   - RetrievalService: Scoped passage retrieval (the external vector index)
//   - CompletionService: Text completion (the external language model)
//
// # Optional Interfaces
//
// These can be nil - the engine degrades gracefully:
//
//   - PromptStore: Prompt template overrides. Without it, compiled-in defaults are used.
//   - EventSink: Streaming generation events. Without it, no events are emitted.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
