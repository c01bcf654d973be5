package resources

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ElementType is element classification: inline elements flow with text,
// everything else is block-level. Empty elements have no content or closing
// tag.
type ElementType uint8

const (
	TypeEmpty ElementType = 1 << iota
	TypeInline
)

func (t ElementType) IsEmpty() bool  { return t&TypeEmpty != 0 }
func (t ElementType) IsInline() bool { return t&TypeInline != 0 }
func (t ElementType) IsBlock() bool  { return !t.IsInline() }

// DefaultFilters are applied to syntaxes which do not declare their own.
var DefaultFilters = []string{"format", "html"}

// DefaultProfile is used for syntaxes which do not declare their own.
const DefaultProfile = "xhtml"

type compiled struct {
	parents       []string
	abbreviations map[string]*Entry
	snippets      map[string]*Entry
	types         map[string]ElementType
	filters       []string
	profile       string
}

// Resolver answers lookups against compiled resource table. It is immutable
// after creation and safe for concurrent use.
type Resolver struct {
	syntaxes  map[string]*compiled
	chains    map[string][]string
	variables map[string]string
	log       *zap.Logger
}

// NewResolver compiles table. All problems found are reported together, the
// resolver is not returned in this case.
func NewResolver(t *Table, log *zap.Logger) (*Resolver, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		syntaxes:  make(map[string]*compiled, len(t.Syntaxes)),
		chains:    make(map[string][]string, len(t.Syntaxes)),
		variables: maps.Clone(t.Variables),
		log:       log.Named("resolver"),
	}

	var err error
	for name, s := range t.Syntaxes {
		c := &compiled{
			parents:       slices.Clone(s.Extends),
			abbreviations: make(map[string]*Entry, len(s.Abbreviations)),
			snippets:      make(map[string]*Entry, len(s.Snippets)),
			types:         make(map[string]ElementType),
			filters:       slices.Clone(s.Filters),
			profile:       s.Profile,
		}
		for k, v := range s.Abbreviations {
			e, er := newAbbreviation(name, k, v)
			if er != nil {
				err = multierr.Append(err, er)
				continue
			}
			c.abbreviations[k] = e
		}
		for k, v := range s.Snippets {
			c.snippets[k] = newSnippet(name, k, v)
		}
		// lists are independent: "br" is both empty and inline
		for _, n := range s.ElementTypes.BlockLevel {
			c.types[strings.ToLower(n)] |= 0
		}
		for _, n := range s.ElementTypes.InlineLevel {
			c.types[strings.ToLower(n)] |= TypeInline
		}
		for _, n := range s.ElementTypes.Empty {
			c.types[strings.ToLower(n)] |= TypeEmpty
		}
		r.syntaxes[name] = c
	}

	for name, c := range r.syntaxes {
		for _, p := range c.parents {
			if _, ok := r.syntaxes[p]; !ok {
				err = multierr.Append(err, fmt.Errorf("syntax %q extends unknown syntax %q", name, p))
			}
		}
	}
	for name := range r.syntaxes {
		chain, er := r.buildChain(name, nil)
		if er != nil {
			err = multierr.Append(err, er)
			continue
		}
		r.chains[name] = chain
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resolver) buildChain(name string, path []string) ([]string, error) {
	if slices.Contains(path, name) {
		return nil, fmt.Errorf("syntax inheritance cycle: %s -> %s", strings.Join(path, " -> "), name)
	}
	path = append(path, name)
	chain := []string{name}
	c, ok := r.syntaxes[name]
	if !ok {
		return chain, nil
	}
	for _, p := range c.parents {
		sub, err := r.buildChain(p, path)
		if err != nil {
			return nil, err
		}
		for _, s := range sub {
			if !slices.Contains(chain, s) {
				chain = append(chain, s)
			}
		}
	}
	return chain, nil
}

// Chain returns syntax followed by all syntaxes it inherits from, in lookup
// order. Unknown syntax has a chain consisting of itself.
func (r *Resolver) Chain(syntax string) []string {
	if chain, ok := r.chains[syntax]; ok {
		return chain
	}
	return []string{syntax}
}

// Lookup finds named resource probing syntax and then its parents,
// abbreviations before snippets on each level.
func (r *Resolver) Lookup(syntax, name string) (*Entry, bool) {
	for _, s := range r.Chain(syntax) {
		c, ok := r.syntaxes[s]
		if !ok {
			continue
		}
		if e, ok := c.abbreviations[name]; ok {
			return e, true
		}
		if e, ok := c.snippets[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// ElementType classifies element name. The first syntax in the chain which
// mentions the name decides, unknown names are block-level.
func (r *Resolver) ElementType(syntax, name string) ElementType {
	name = strings.ToLower(name)
	for _, s := range r.Chain(syntax) {
		c, ok := r.syntaxes[s]
		if !ok {
			continue
		}
		if t, ok := c.types[name]; ok {
			return t
		}
	}
	return 0
}

// Filters returns default filter list for syntax.
func (r *Resolver) Filters(syntax string) []string {
	for _, s := range r.Chain(syntax) {
		if c, ok := r.syntaxes[s]; ok && len(c.filters) > 0 {
			return slices.Clone(c.filters)
		}
	}
	return slices.Clone(DefaultFilters)
}

// Profile returns default output profile name for syntax.
func (r *Resolver) Profile(syntax string) string {
	for _, s := range r.Chain(syntax) {
		if c, ok := r.syntaxes[s]; ok && c.profile != "" {
			return c.profile
		}
	}
	return DefaultProfile
}

var reVariable = regexp.MustCompile(`\$\{([A-Za-z_][\w-]*)\}`)

// SubstituteVariables replaces every "${name}" with registered value. Unknown
// names and escaped references ("\${name}") are left untouched.
func (r *Resolver) SubstituteVariables(text string) string {
	if !strings.Contains(text, "${") {
		return text
	}
	var (
		b    strings.Builder
		last int
	)
	for _, m := range reVariable.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > 0 && text[m[0]-1] == '\\' {
			continue
		}
		v, ok := r.variables[text[m[2]:m[3]]]
		if !ok {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(v)
		last = m[1]
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// Variable returns registered variable value.
func (r *Resolver) Variable(name string) (string, bool) {
	v, ok := r.variables[name]
	return v, ok
}

// Names lists all abbreviation and snippet names visible from syntax in
// natural order.
func (r *Resolver) Names(syntax string) []string {
	seen := make(map[string]struct{})
	for _, s := range r.Chain(syntax) {
		c, ok := r.syntaxes[s]
		if !ok {
			continue
		}
		for k := range c.abbreviations {
			seen[k] = struct{}{}
		}
		for k := range c.snippets {
			seen[k] = struct{}{}
		}
	}
	names := slices.Collect(maps.Keys(seen))
	sort.Sort(natural.StringSlice(names))
	return names
}

// Syntaxes lists known syntax names.
func (r *Resolver) Syntaxes() []string {
	names := slices.Collect(maps.Keys(r.syntaxes))
	sort.Sort(natural.StringSlice(names))
	return names
}
