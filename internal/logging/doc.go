// Package logging provides structured logging for formwiz.
//
// This package wraps a zap logger with package-level helpers so callers do
// not have to thread a logger through every constructor. Logging is silent
// by default: the wizard owns the terminal, and any stray line written to
// stdout would corrupt the Bubble Tea frame.
//
// # Log Levels
//
//   - Debug: section transitions, validation results, request bodies
//   - Info: gateway requests and responses, login outcome, submission
//   - Warn: recoverable problems (schema missing, retries)
//   - Error: failures surfaced to the user
//
// # Configuration
//
// The level comes from the explicit argument, then FORMWIZ_LOG_LEVEL.
// Output goes to the file named by FORMWIZ_LOG_FILE (or the config file's
// logging.file), otherwise to stdout, which is only sensible for the
// non-interactive commands and the development gateway:
//
//	if err := logging.Initialize(logging.Options{Level: "debug", File: "/tmp/formwiz.log"}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Structured Logging
//
//	logging.Info("Schema fetched",
//	    zap.String("roll_number", id),
//	    zap.Int("sections", len(form.Sections)),
//	)
package logging
