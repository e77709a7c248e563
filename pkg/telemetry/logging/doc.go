// Package logging provides structured logging with PHI redaction.
//
// The Logger wraps log/slog with JSON, text and console output and masks
// patient data before it reaches a handler:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json", RedactPHI: true})
//
//	logger.Info("value set",
//	    "path", "PID-5-1",
//	    "value", "DOE",  // logged as [redacted 3 bytes]
//	)
//
// Values under keys such as value, text or patient are masked entirely.
// Other strings are scrubbed for SSNs, e-mail addresses, phone numbers and
// patient-bearing HL7 segments (PID|..., NK1|..., ...).
//
// Context helpers attach the operation ID, operation name, HL7 version and
// file to a context; the *Context methods add them to every record.
package logging
