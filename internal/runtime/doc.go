// Package runtime wires storage, identity, config, and the content store
// into a single-node tidemark instance. It exposes Open/Close, a basic
// health check, and helpers to open the per-dataset components used by
// higher layers.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	log, _ := rt.OpenLog("node", "ds-id")
//	_ = log.SetEntry(context.Background(), []byte("k"), digest, size, rt.Author().ID())
package runtime
