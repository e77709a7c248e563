package dictionary

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var builtin embed.FS

// file is the on-disk form of one version dictionary. A file either defines
// a version from scratch or extends another version, overriding parts of it.
type file struct {
	Version        string                 `yaml:"version" toml:"version"`
	Extends        string                 `yaml:"extends" toml:"extends"`
	Aliases        []string               `yaml:"aliases" toml:"aliases"`
	Description    string                 `yaml:"description" toml:"description"`
	RemoveSegments []string               `yaml:"remove_segments" toml:"remove_segments"`
	Segments       map[string]segmentDoc  `yaml:"segments" toml:"segments"`
	DataTypes      map[string]dataTypeDoc `yaml:"datatypes" toml:"datatypes"`
	Tables         map[string]tableDoc    `yaml:"tables" toml:"tables"`
	Structures     map[string]string      `yaml:"structures" toml:"structures"`

	source string
}

type segmentDoc struct {
	Description string     `yaml:"description" toml:"description"`
	Fields      []FieldDef `yaml:"fields" toml:"fields"`
	MaxFields   int        `yaml:"max_fields" toml:"max_fields"`
	AddFields   []FieldDef `yaml:"add_fields" toml:"add_fields"`
}

type dataTypeDoc struct {
	Description   string         `yaml:"description" toml:"description"`
	Components    []ComponentDef `yaml:"components" toml:"components"`
	MaxComponents int            `yaml:"max_components" toml:"max_components"`
}

type tableDoc struct {
	Description string            `yaml:"description" toml:"description"`
	Values      map[string]string `yaml:"values" toml:"values"`
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry built from the embedded dictionaries. It is
// loaded once per process and shared; it panics if the embedded data is
// invalid, which can only happen on a broken build.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Load()
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("dictionary: embedded data is invalid: %v", defaultErr))
	}
	return defaultRegistry
}

// Load builds a registry from the embedded dictionaries plus the given
// files. Files ending in .toml are decoded as TOML, everything else as YAML.
// A file naming a version that already exists, without extends, is applied
// on top of that version only; this is how site-specific Z-segments are
// added. Naming an alias such as "2.5.1" turns the alias into a version of
// its own that extends the aliased one.
func Load(paths ...string) (*Registry, error) {
	files, err := readBuiltin()
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		f, err := readFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return build(files)
}

func readBuiltin() ([]*file, error) {
	entries, err := fs.Glob(builtin, "data/*.yaml")
	if err != nil {
		return nil, err
	}

	files := make([]*file, 0, len(entries))
	for _, name := range entries {
		data, err := builtin.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded dictionary %q: %w", name, err)
		}
		f, err := decode(name, data)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func readFile(path string) (*file, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file %q: %w", path, err)
	}
	return decode(path, data)
}

func decode(name string, data []byte) (*file, error) {
	f := &file{source: name}
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		if _, err := toml.Decode(string(data), f); err != nil {
			return nil, fmt.Errorf("failed to parse dictionary file %q: %w", name, err)
		}
	} else {
		if err := yaml.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("failed to parse dictionary file %q: %w", name, err)
		}
	}

	if f.Version == "" {
		return nil, fmt.Errorf("dictionary file %q: version is required", name)
	}
	return f, nil
}

// build resolves extends chains and overlays in file order.
func build(files []*file) (*Registry, error) {
	reg := &Registry{versions: make(map[string]*Version)}

	byVersion := make(map[string]*file)
	aliasOf := make(map[string]string)
	var overlays []*file
	for _, f := range files {
		if _, exists := byVersion[f.Version]; exists && f.Extends == "" {
			overlays = append(overlays, f)
			continue
		}
		if base, ok := aliasOf[f.Version]; ok && f.Extends == "" {
			f.Extends = base
		}
		byVersion[f.Version] = f
		for _, alias := range f.Aliases {
			aliasOf[alias] = f.Version
		}
	}

	resolving := make(map[string]bool)
	var resolve func(id string) (*Version, error)
	resolve = func(id string) (*Version, error) {
		if v, ok := reg.versions[id]; ok {
			return v, nil
		}
		f, ok := byVersion[id]
		if !ok {
			return nil, fmt.Errorf("unknown dictionary version %q", id)
		}
		if resolving[id] {
			return nil, fmt.Errorf("dictionary %q: extends cycle through version %q", f.source, id)
		}
		resolving[id] = true
		defer delete(resolving, id)

		v := &Version{
			ID:         id,
			segments:   make(map[string]*SegmentDef),
			dataTypes:  make(map[string]*DataTypeDef),
			tables:     make(map[string]*Table),
			structures: make(map[string]string),
		}
		if f.Extends != "" {
			base, err := resolve(f.Extends)
			if err != nil {
				return nil, fmt.Errorf("dictionary %q: %w", f.source, err)
			}
			v = base.clone(id)
		}
		if err := v.apply(f); err != nil {
			return nil, err
		}
		reg.versions[id] = v
		return v, nil
	}

	for id := range byVersion {
		if _, err := resolve(id); err != nil {
			return nil, err
		}
	}

	for _, f := range overlays {
		if err := reg.versions[f.Version].apply(f); err != nil {
			return nil, err
		}
	}

	for _, f := range byVersion {
		for _, alias := range f.Aliases {
			if _, taken := byVersion[alias]; taken {
				continue
			}
			reg.versions[alias] = reg.versions[f.Version].clone(alias)
		}
	}

	return reg, nil
}

// apply overlays the definitions of f onto v.
func (v *Version) apply(f *file) error {
	if f.Description != "" {
		v.Description = f.Description
	}

	for _, name := range f.RemoveSegments {
		delete(v.segments, name)
	}

	for name, doc := range f.Segments {
		seg, exists := v.segments[name]
		if !exists {
			seg = &SegmentDef{Name: name}
			v.segments[name] = seg
		}
		if doc.Description != "" {
			seg.Description = doc.Description
		}
		if doc.Fields != nil {
			seg.Fields = append([]FieldDef(nil), doc.Fields...)
		}
		if doc.MaxFields > 0 && doc.MaxFields < len(seg.Fields) {
			seg.Fields = seg.Fields[:doc.MaxFields]
		}
		seg.Fields = append(seg.Fields, doc.AddFields...)

		for i, fd := range seg.Fields {
			if fd.Name == "" || fd.DataType == "" {
				return fmt.Errorf("dictionary %q: %s-%d needs a name and a type", f.source, name, i+1)
			}
		}
	}

	for name, doc := range f.DataTypes {
		dt, exists := v.dataTypes[name]
		if !exists {
			dt = &DataTypeDef{Name: name}
			v.dataTypes[name] = dt
		}
		if doc.Description != "" {
			dt.Description = doc.Description
		}
		if doc.Components != nil {
			dt.Components = append([]ComponentDef(nil), doc.Components...)
		}
		if doc.MaxComponents > 0 && doc.MaxComponents < len(dt.Components) {
			dt.Components = dt.Components[:doc.MaxComponents]
		}
	}

	for id, doc := range f.Tables {
		t := &Table{ID: id, Description: doc.Description, Values: make(map[string]string, len(doc.Values))}
		for code, meaning := range doc.Values {
			t.Values[code] = meaning
		}
		v.tables[id] = t
	}

	for key, structure := range f.Structures {
		v.structures[key] = structure
	}
	return nil
}

// clone returns a deep copy of v under a new identifier.
func (v *Version) clone(id string) *Version {
	out := &Version{
		ID:          id,
		Description: v.Description,
		segments:    make(map[string]*SegmentDef, len(v.segments)),
		dataTypes:   make(map[string]*DataTypeDef, len(v.dataTypes)),
		tables:      make(map[string]*Table, len(v.tables)),
		structures:  make(map[string]string, len(v.structures)),
	}
	for name, s := range v.segments {
		out.segments[name] = &SegmentDef{
			Name:        s.Name,
			Description: s.Description,
			Fields:      append([]FieldDef(nil), s.Fields...),
		}
	}
	for name, d := range v.dataTypes {
		out.dataTypes[name] = &DataTypeDef{
			Name:        d.Name,
			Description: d.Description,
			Components:  append([]ComponentDef(nil), d.Components...),
		}
	}
	for id, t := range v.tables {
		out.tables[id] = t
	}
	for k, s := range v.structures {
		out.structures[k] = s
	}
	return out
}
