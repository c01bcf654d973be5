// Package resources keeps per-syntax tables of named abbreviations, snippets
// and element classifications and resolves names against them following
// declared syntax inheritance.
package resources

import (
	"bytes"
	_ "embed"
	"fmt"
	"maps"
	"slices"

	yaml "gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinTable []byte

type (
	// ElementTypes classifies element names of a syntax.
	ElementTypes struct {
		Empty       []string `yaml:"empty,omitempty"`
		BlockLevel  []string `yaml:"block_level,omitempty"`
		InlineLevel []string `yaml:"inline_level,omitempty"`
	}

	// Syntax is a resource table of a single syntax as it is written in YAML.
	// Abbreviation values starting with "<" define elements, all other values
	// are aliases - abbreviations to be expanded in place of the name.
	// Snippets are literal templates with a single "${child}" injection point.
	Syntax struct {
		Extends       []string          `yaml:"extends,omitempty"`
		Filters       []string          `yaml:"filters,omitempty"`
		Profile       string            `yaml:"profile,omitempty"`
		Abbreviations map[string]string `yaml:"abbreviations,omitempty"`
		Snippets      map[string]string `yaml:"snippets,omitempty"`
		ElementTypes  ElementTypes      `yaml:"element_types,omitempty"`
	}

	// Table is a complete set of resources.
	Table struct {
		Variables map[string]string  `yaml:"variables,omitempty"`
		Syntaxes  map[string]*Syntax `yaml:"syntaxes"`
	}
)

// Load decodes resource table from YAML. Unknown keys are errors.
func Load(data []byte) (*Table, error) {
	t := &Table{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(t); err != nil {
		return nil, fmt.Errorf("failed to decode resource table: %w", err)
	}
	for name, s := range t.Syntaxes {
		if s == nil {
			t.Syntaxes[name] = &Syntax{}
		}
	}
	if t.Syntaxes == nil {
		t.Syntaxes = make(map[string]*Syntax)
	}
	return t, nil
}

// Default returns freshly decoded built-in table.
func Default() (*Table, error) {
	return Load(builtinTable)
}

// Merge superimposes user table on t. Maps are merged key by key with user
// values winning, lists present in the user table replace existing ones and
// unknown syntaxes are added as is.
func (t *Table) Merge(user *Table) {
	if user == nil {
		return
	}
	t.Variables = mergeMap(t.Variables, user.Variables)
	if t.Syntaxes == nil {
		t.Syntaxes = make(map[string]*Syntax, len(user.Syntaxes))
	}
	for name, us := range user.Syntaxes {
		if us == nil {
			continue
		}
		if s, ok := t.Syntaxes[name]; ok {
			s.merge(us)
			continue
		}
		t.Syntaxes[name] = us.clone()
	}
}

func (s *Syntax) merge(u *Syntax) {
	if u.Extends != nil {
		s.Extends = slices.Clone(u.Extends)
	}
	if u.Filters != nil {
		s.Filters = slices.Clone(u.Filters)
	}
	if u.Profile != "" {
		s.Profile = u.Profile
	}
	s.Abbreviations = mergeMap(s.Abbreviations, u.Abbreviations)
	s.Snippets = mergeMap(s.Snippets, u.Snippets)
	if u.ElementTypes.Empty != nil {
		s.ElementTypes.Empty = slices.Clone(u.ElementTypes.Empty)
	}
	if u.ElementTypes.BlockLevel != nil {
		s.ElementTypes.BlockLevel = slices.Clone(u.ElementTypes.BlockLevel)
	}
	if u.ElementTypes.InlineLevel != nil {
		s.ElementTypes.InlineLevel = slices.Clone(u.ElementTypes.InlineLevel)
	}
}

func (s *Syntax) clone() *Syntax {
	return &Syntax{
		Extends:       slices.Clone(s.Extends),
		Filters:       slices.Clone(s.Filters),
		Profile:       s.Profile,
		Abbreviations: maps.Clone(s.Abbreviations),
		Snippets:      maps.Clone(s.Snippets),
		ElementTypes: ElementTypes{
			Empty:       slices.Clone(s.ElementTypes.Empty),
			BlockLevel:  slices.Clone(s.ElementTypes.BlockLevel),
			InlineLevel: slices.Clone(s.ElementTypes.InlineLevel),
		},
	}
}

func mergeMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	maps.Copy(dst, src)
	return dst
}
