package doclog

import (
	"encoding/binary"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - ds/{id}/e/{key}       latest entry revision per logical key
// - ds/{id}/ev/{seq_be8}  journal record
// - ds/{id}/m             journal metadata (last sequence)

var (
	dsPrefix   = []byte("ds/")
	entrySeg   = []byte("/e/")
	journalSeg = []byte("/ev/")
	metaSuffix = []byte("/m")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyEntry builds the latest-revision key for a logical key.
func KeyEntry(id string, key []byte) []byte {
	k := make([]byte, 0, len(dsPrefix)+len(id)+len(entrySeg)+len(key))
	k = append(k, dsPrefix...)
	k = append(k, id...)
	k = append(k, entrySeg...)
	k = append(k, key...)
	return k
}

// KeyEntryPrefix returns the range prefix covering all entries of a dataset.
func KeyEntryPrefix(id string) []byte {
	k := make([]byte, 0, len(dsPrefix)+len(id)+len(entrySeg))
	k = append(k, dsPrefix...)
	k = append(k, id...)
	k = append(k, entrySeg...)
	return k
}

// KeyJournal builds the journal key with a big-endian sequence for ordering.
func KeyJournal(id string, seq uint64) []byte {
	k := make([]byte, 0, len(dsPrefix)+len(id)+len(journalSeg)+8)
	k = append(k, dsPrefix...)
	k = append(k, id...)
	k = append(k, journalSeg...)
	k = appendBE8(k, seq)
	return k
}

// KeyJournalMeta builds the journal metadata key.
func KeyJournalMeta(id string) []byte {
	k := make([]byte, 0, len(dsPrefix)+len(id)+len(metaSuffix))
	k = append(k, dsPrefix...)
	k = append(k, id...)
	k = append(k, metaSuffix...)
	return k
}
