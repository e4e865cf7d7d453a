// Package log provides simple leveled logging for restd.
//
// The package exposes global Printf-style functions for four levels:
//
//   - DEBUG: dispatch decisions, routing misses, configuration details
//   - INFO: server lifecycle and request access lines
//   - WARN: recoverable problems (for example an unparsable request body)
//   - ERROR: handler failures and panics
//
// Debug output is hidden unless the level is lowered with SetVerbose(true)
// or SetLevel(LevelDebug). ERROR lines go to stderr, everything else to stdout;
// SetOutput sends all levels to a single writer, which tests use to capture logs.
//
// # Example Usage
//
//	log.Infof("Listening on %s", addr)
//	log.Debugf("dispatch %s %s -> %s", method, path, action)
//	log.Errorf("handler failed: %v", err)
package log
