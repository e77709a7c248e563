package dictionary

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/oracle-Solution/hl7/pkg/hl7/message"
)

// FieldDef describes one field of a segment.
type FieldDef struct {
	// Name is the human-readable field name, e.g. "Patient Name".
	Name string `yaml:"name" toml:"name"`

	// DataType is the HL7 datatype code, e.g. "XPN".
	DataType string `yaml:"type" toml:"type"`

	// Required marks fields that must carry a value.
	Required bool `yaml:"required" toml:"required"`

	// Repeatable marks fields that may hold more than one repetition.
	Repeatable bool `yaml:"repeatable" toml:"repeatable"`

	// MaxLength is the maximum encoded length of one repetition.
	// Zero means unlimited.
	MaxLength int `yaml:"length" toml:"length"`

	// Table is the coded value table for ID and IS fields.
	Table string `yaml:"table" toml:"table"`
}

// SegmentDef describes a segment type.
type SegmentDef struct {
	Name        string
	Description string
	Fields      []FieldDef // Fields[i] describes field i+1
}

// ComponentDef describes one component of a composite datatype.
type ComponentDef struct {
	Name     string `yaml:"name" toml:"name"`
	DataType string `yaml:"type" toml:"type"`
	Table    string `yaml:"table" toml:"table"`
}

// DataTypeDef describes a datatype. Primitive datatypes have no components.
type DataTypeDef struct {
	Name        string
	Description string
	Components  []ComponentDef
}

// IsComposite reports whether the datatype has components.
func (d *DataTypeDef) IsComposite() bool {
	return len(d.Components) > 0
}

// Table is a coded value table.
type Table struct {
	ID          string
	Description string
	Values      map[string]string // code -> meaning
}

// Contains reports whether code is a value of the table.
func (t *Table) Contains(code string) bool {
	_, ok := t.Values[code]
	return ok
}

// Codes returns the table codes in sorted order.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.Values))
	for c := range t.Values {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Version is the dictionary of one HL7 version. It is immutable once loaded;
// callers must not modify the definitions it returns.
type Version struct {
	ID          string
	Description string

	segments   map[string]*SegmentDef
	dataTypes  map[string]*DataTypeDef
	tables     map[string]*Table
	structures map[string]string
}

// Segment returns the definition of a segment type.
func (v *Version) Segment(name string) (*SegmentDef, bool) {
	s, ok := v.segments[name]
	return s, ok
}

// SegmentNames returns all defined segment types in sorted order.
func (v *Version) SegmentNames() []string {
	names := make([]string, 0, len(v.segments))
	for n := range v.segments {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Field returns the definition of field n (1-based) of a segment type.
func (v *Version) Field(segment string, n int) (*FieldDef, bool) {
	s, ok := v.segments[segment]
	if !ok || n < 1 || n > len(s.Fields) {
		return nil, false
	}
	return &s.Fields[n-1], true
}

// MaxField returns the number of fields defined for a segment type.
func (v *Version) MaxField(segment string) (int, bool) {
	s, ok := v.segments[segment]
	if !ok {
		return 0, false
	}
	return len(s.Fields), true
}

// DataType returns the definition of a datatype.
func (v *Version) DataType(name string) (*DataTypeDef, bool) {
	d, ok := v.dataTypes[name]
	return d, ok
}

// Component returns component n (1-based) of a composite datatype.
func (v *Version) Component(dataType string, n int) (*ComponentDef, bool) {
	d, ok := v.dataTypes[dataType]
	if !ok || n < 1 || n > len(d.Components) {
		return nil, false
	}
	return &d.Components[n-1], true
}

// Table returns a coded value table.
func (v *Version) Table(id string) (*Table, bool) {
	t, ok := v.tables[id]
	return t, ok
}

// Structure returns the message structure expected for a message type and
// trigger event, e.g. "ADT_A01" for ADT^A04.
func (v *Version) Structure(messageType, trigger string) (string, bool) {
	if s, ok := v.structures[messageType+"^"+trigger]; ok {
		return s, true
	}
	s, ok := v.structures[messageType]
	return s, ok
}

// Describe returns a human-readable label for pos, e.g.
// "PID-5-1 Patient Name (XPN) / Family Name (FN)". Levels the dictionary does
// not know are left out of the label.
func (v *Version) Describe(pos message.Position) string {
	pos = pos.Normalize()
	if pos.IsZero() {
		return ""
	}

	label := pos.String()
	seg, ok := v.segments[pos.Segment]
	if !ok {
		return label
	}
	if pos.Field == 0 {
		return label + " " + seg.Description
	}

	f, ok := v.Field(pos.Segment, pos.Field)
	if !ok {
		return label
	}
	parts := []string{fmt.Sprintf("%s (%s)", f.Name, f.DataType)}

	if pos.Component > 0 {
		if c, ok := v.Component(f.DataType, pos.Component); ok {
			parts = append(parts, fmt.Sprintf("%s (%s)", c.Name, c.DataType))
			if pos.Subcomponent > 0 {
				if sc, ok := v.Component(c.DataType, pos.Subcomponent); ok {
					parts = append(parts, fmt.Sprintf("%s (%s)", sc.Name, sc.DataType))
				}
			}
		}
	}
	return label + " " + strings.Join(parts, " / ")
}

// LeafType returns the datatype of the unit at pos, resolving components and
// subcomponents through composite datatypes. It returns "" when the
// dictionary does not know the unit.
func (v *Version) LeafType(pos message.Position) string {
	pos = pos.Normalize()
	f, ok := v.Field(pos.Segment, pos.Field)
	if !ok {
		return ""
	}
	dt := f.DataType
	if pos.Component == 0 {
		return dt
	}
	c, ok := v.Component(dt, pos.Component)
	if !ok {
		return ""
	}
	if pos.Subcomponent == 0 {
		return c.DataType
	}
	sc, ok := v.Component(c.DataType, pos.Subcomponent)
	if !ok {
		return ""
	}
	return sc.DataType
}

// Registry holds the dictionaries of all known versions.
type Registry struct {
	versions map[string]*Version
}

// Version returns the dictionary for a version identifier.
func (r *Registry) Version(id string) (*Version, error) {
	v, ok := r.versions[id]
	if !ok {
		return nil, fmt.Errorf("no dictionary for HL7 version %q (known: %s)", id, strings.Join(r.Versions(), ", "))
	}
	return v, nil
}

// Versions returns the known version identifiers in sorted order.
func (r *Registry) Versions() []string {
	ids := make([]string, 0, len(r.versions))
	for id := range r.versions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
