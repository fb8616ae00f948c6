// Package memory implements interchangeable conversational memory strategies.
//
// Every strategy records a conversation through AddMessage and produces a
// single textual context through Context. Strategies range from verbatim
// recording (Sequential) through bounded windows (SlidingWindow, Paged) to
// model-assisted consolidation (Summarizing, Hierarchical, Compression) and
// similarity retrieval (Retrieval, EmbeddingAugmented).
//
// Consolidating strategies depend on a Completer; retrieval depends on an
// Indexer. Both are injected at construction so tests can substitute fakes
// from the memorytest package.
//
// A strategy instance is owned by a single conversation. Instances are not
// safe for concurrent use; callers serialize AddMessage, Context and Clear.
package memory
