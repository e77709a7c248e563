// Package hl7 is the entry point of the HL7 v2 editing core.
//
// The core keeps three views of a message in step: the raw text, path based
// access to its values, and validation findings anchored to text spans. The
// work is split over subpackages:
//
//   - separator: delimiter tables and detection from the MSH header
//   - message: parsing, encoding and value access
//   - mapper: conversion between text offsets and positions
//   - dictionary: segment, field and datatype definitions per version
//   - validator: independent rules producing findings
//   - terser: path strings such as "PID-5-1" or "OBX(1)-5"
//   - editor: the operations an editing surface calls
//
// The functions in this package run editor operations with the built-in
// dictionaries and no telemetry:
//
//	findings, err := hl7.ParseAndValidate(text, "2.5")
//	res, err := hl7.SetValue(text, "2.5", "PID-5-1", "SMITH")
//	// res.Text is the re-encoded message, res.Caret the start of PID-5-1
package hl7
