// Package logging provides the small logging facade used by rsakey.
//
// Logger wraps the context-aware subset of log/slog so that applications can
// plug in their own implementation or handler:
//
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})
//	gen := rsakey.NewGenerator(rsakey.Config{
//	    Logger: logging.New(slog.New(handler)),
//	})
//
// Key material is never logged. Redacted marks an attribute whose value was
// intentionally left out:
//
//	logger.Info(ctx, "generated key pair", "bits", 2048, logging.Redacted("d"))
//	// d="[redacted]"
package logging
