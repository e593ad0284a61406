// Package memory implements per-user long-term memory for
// conversational agents: an append-mostly collection of semantically
// embedded facts with vector-similarity search and periodic
// near-duplicate consolidation.
//
// Architecture:
//   - Embedder: text-to-vector conversion (ONNX locally, mock in tests)
//   - BlobStore: persistence of one serialized collection per user
//     (S3-compatible object store, in-memory for tests)
//   - Cache: path-keyed copy of the last loaded collection, valid for
//     the process lifetime only; the blob stays authoritative
//   - index: exact search at query time, approximate HNSW search for
//     the deduplication pass
//   - LongTermStore: the facade the tool layer talks to (Add, Search,
//     DeleteAll)
//
// Deduplication is time-gated: collections above a size floor are
// consolidated at most once per interval, at the start of a search,
// keeping redundant facts from accumulating without paying the index
// build on every call.
package memory
