package separator

import (
	"fmt"
	"sort"
)

// versions maps every supported HL7 v2 version identifier to its delimiter
// table. All published v2 versions share the standard table; the map exists so
// that a version the core does not know is rejected instead of silently
// parsed with guessed delimiters.
var versions = map[string]Set{
	"2.1":   Standard,
	"2.2":   Standard,
	"2.3":   Standard,
	"2.3.1": Standard,
	"2.4":   Standard,
	"2.5":   Standard,
	"2.5.1": Standard,
	"2.6":   Standard,
	"2.7":   Standard,
	"2.7.1": Standard,
	"2.8":   Standard,
	"2.8.1": Standard,
	"2.8.2": Standard,
}

// ForVersion returns the default delimiter table for a message version.
func ForVersion(version string) (Set, error) {
	set, ok := versions[version]
	if !ok {
		return Set{}, fmt.Errorf("unsupported message version %q", version)
	}
	return set, nil
}

// Versions returns the supported version identifiers in ascending order.
func Versions() []string {
	out := make([]string, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// IsSupported reports whether a version identifier has a delimiter table.
func IsSupported(version string) bool {
	_, ok := versions[version]
	return ok
}
