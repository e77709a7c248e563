// Package dictionary provides the HL7 v2 data dictionaries: segment and
// field definitions, datatypes and coded value tables for each version.
//
// The built-in dictionaries are embedded YAML files. Version 2.5 is the base;
// other versions extend it and override what differs (field counts, removed
// segments, shorter composite types). Several releases share one layout and
// are registered as aliases.
//
// # Basic Usage
//
//	reg := dictionary.Default()
//	v, err := reg.Version("2.5")
//	if err != nil {
//	    return err
//	}
//
//	f, ok := v.Field("PID", 5)        // Patient Name (XPN)
//	label := v.Describe(pos)          // "PID-5-1 Patient Name (XPN) / Family Name (FN)"
//
// # Site Dictionaries
//
// Load adds YAML or TOML files on top of the built-in data. A file that names
// an existing version without extends is applied to that version:
//
//	version: "2.5"
//	segments:
//	  ZPI:
//	    description: Patient Extra Info
//	    fields:
//	      - {name: Preferred Pharmacy, type: ST, length: 60}
//
// Registries are immutable once loaded and safe for concurrent use.
package dictionary
