// Package logging provides structured logging for epdwave.
//
// This package wraps zap with a global logger and a few helpers for the
// values the decoder reports: pointer records, raw waveform bytes and
// publish server connections.
//
// # Log Levels
//
//   - Debug: Pointer records, raw waveform streams, per-waveform decode results
//   - Info: File loaded, decode summary, server start and connections
//   - Warn: Checksum faults, file size mismatches
//   - Error: Failed decodes, server errors
//
// # Configuration
//
// Logging is silent by default so that CLI output stays clean. Set
// EPDWAVE_LOG_LEVEL (or pass --log-level) to enable it:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Logs are written to stderr in console format, leaving stdout free for
// decoded documents.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once initialized.
package logging
