// hl7edit inspects, edits and validates HL7 v2 messages.
//
// It keeps three views of a message in step: the raw text, terser paths
// with their values, and validation findings anchored to text spans.
//
// Usage:
//
//	# Describe the unit under a caret and list the findings
//	hl7edit inspect adt.hl7 --caret 120
//
//	# Read and write values by terser path
//	hl7edit get adt.hl7 PID-5-1
//	hl7edit set adt.hl7 PID-5-1 SMITH --write
//
//	# Validate files or directories
//	hl7edit validate inbound/
//
//	# Re-validate on every change, serving metrics on :9464
//	hl7edit watch inbound/ --metrics-addr :9464
//
//	# Browse the data dictionary
//	hl7edit dictionary PID --hl7-version 2.3
//
// Configuration is read from hl7edit.yaml, or the file given with --config,
// and HL7_* environment variables.
package main

func main() {
	Execute()
}
