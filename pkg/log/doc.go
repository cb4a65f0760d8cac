// Package log provides structured logging for tidemark components.
//
// Components receive a Logger by injection and tag themselves with
// Component. Fields are typed helpers over log/slog attributes:
//
//	logger := log.New(log.Options{Level: log.InfoLevel})
//	logger = logger.With(log.Component("syncer"), log.Str("dataset", "folder"))
//	logger.Info("session started", log.Int("buffer", 1000))
//
// Output format is text by default; JSON is available for machine
// consumption via Options.Format.
package log
