// Package validator checks HL7 v2 messages against the data dictionary of a
// version and reports findings anchored to positions and text spans.
//
// Validation is a list of independent rules. Each rule inspects the parsed
// message and reports issues at positions; the validator turns positions
// into spans through the mapper package, so findings for a missing unit
// point at its deepest existing ancestor. Findings are data, not errors: a
// message with findings still validates successfully.
//
// # Basic Usage
//
//	v := validator.New(nil)
//	findings, err := v.ValidateText(text, "2.5")
//	if err != nil {
//	    return err // unknown version or malformed text
//	}
//	for _, f := range findings {
//	    fmt.Println(f)
//	}
//
// # Rules
//
//   - header: MSH first, required MSH fields, trigger event, declared version
//   - segment-known: segment types the version does not define (INFO)
//   - field-count: values beyond the last defined field (INFO)
//   - required: required fields without a value
//   - repeatable: repetitions in fields that do not repeat
//   - max-length: repetitions longer than the dictionary allows (INFO)
//   - datatype: NM, SI, DT, DTM, TM and coded ID/IS values
//   - consistency: MSH-9-3 structure, PID-7 against MSH-7, OBX-2 with OBX-5
//
// In strict mode every INFO finding is reported as an ERROR.
package validator
