// Package pebblestore wraps a Pebble database with the durability policy
// and small helpers the rest of tidemark needs: single-key get/set/delete,
// atomic batches, and prefix iteration. All persistent state — document
// log entries and journals, dataset metadata, author identity, and the
// content-addressed blob store — lives in one Pebble instance.
package pebblestore
