package dataset

import (
	"encoding/json"
	"time"

	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
)

// Meta holds dataset metadata persisted alongside its document log.
type Meta struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	CreatedAtMs int64  `json:"createdAtMs"`
}

var metaPrefix = []byte("dsmeta/")

func metaKey(name string) []byte {
	k := make([]byte, 0, len(metaPrefix)+len(name))
	k = append(k, metaPrefix...)
	k = append(k, name...)
	return k
}

// Ensure creates a dataset meta record if absent, returning the effective
// meta. Idempotent: a dataset already bound to an id keeps that id even
// when a different one is offered.
func Ensure(db *pebblestore.DB, name, id string) (Meta, error) {
	key := metaKey(name)
	if b, err := db.Get(key); err == nil && len(b) > 0 {
		var m Meta
		if err := json.Unmarshal(b, &m); err == nil {
			return m, nil
		}
		// fallthrough to rewrite if corrupted
	}
	m := Meta{Name: name, ID: id, CreatedAtMs: time.Now().UnixMilli()}
	bytes, err := json.Marshal(m)
	if err != nil {
		return Meta{}, err
	}
	if err := db.Set(key, bytes); err != nil {
		return Meta{}, err
	}
	return m, nil
}
