// Package cache defines the key-value tiers that sit in front of the origin
// store: a TTL-aware Store contract with memory, Redis, bbolt and disk
// implementations, plus the detached Writer that performs best-effort cache
// population outside the request path. Entries are always written whole: the
// disk store writes a temp file and renames it, Redis and bbolt replace the
// value in one command/transaction, so readers never observe partial payloads.
package cache
