// Package filters turns rolled out trees into text. Each filter is a pass
// over the whole tree, passes are selected by name and run in order.
package filters

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"zen/config"
	"zen/resources"
	"zen/tree"
)

// Context is what filters know about requested output.
type Context struct {
	Profile *config.Profile
	// Indent is a single indentation step, used only when profile asks for
	// indentation.
	Indent  string
	Newline string
	// Caret marks the place where editor cursor should go.
	Caret string
	Log   *zap.Logger
}

func (fc *Context) indent() string {
	if fc.Profile.Indent {
		return fc.Indent
	}
	return ""
}

func (fc *Context) caret() string {
	if fc.Profile.PlaceCursor {
		return fc.Caret
	}
	return ""
}

// Filter rewrites tree in place and returns its root.
type Filter func(root *tree.Node, fc *Context) *tree.Node

// Registry keeps filters by syntax and name. Filters registered for empty
// syntax are available everywhere.
type Registry struct {
	filters map[string]map[string]Filter
}

func NewRegistry() *Registry {
	return &Registry{filters: make(map[string]map[string]Filter)}
}

// Default returns registry with all built-in filters.
func Default() *Registry {
	r := NewRegistry()
	r.Register("", "format", Format)
	r.Register("", "html", HTML)
	r.Register("", "haml", HAML)
	r.Register("", "c", Comment)
	r.Register("", "e", Escape)
	r.Register("xsl", "xsl", XSL)
	return r
}

func (r *Registry) Register(syntax, name string, f Filter) {
	m, ok := r.filters[syntax]
	if !ok {
		m = make(map[string]Filter)
		r.filters[syntax] = m
	}
	m[name] = f
}

// Lookup finds filter walking syntax chain first, common filters last.
func (r *Registry) Lookup(chain []string, name string) (Filter, bool) {
	for _, s := range chain {
		if f, ok := r.filters[s][name]; ok {
			return f, true
		}
	}
	f, ok := r.filters[""][name]
	return f, ok
}

// Names lists registered filter names, syntax specific ones included.
func (r *Registry) Names() []string {
	seen := make(map[string]struct{})
	for _, m := range r.filters {
		for name := range m {
			seen[name] = struct{}{}
		}
	}
	names := slices.Collect(maps.Keys(seen))
	sort.Sort(natural.StringSlice(names))
	return names
}

// Pipeline runs named filters over trees.
type Pipeline struct {
	registry *Registry
	log      *zap.Logger
}

func NewPipeline(r *Registry, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{registry: r, log: log.Named("filters")}
}

// Apply runs filters in order. Unknown names are skipped.
func (p *Pipeline) Apply(root *tree.Node, chain, names []string, fc *Context) *tree.Node {
	for _, name := range names {
		f, ok := p.registry.Lookup(chain, name)
		if !ok {
			p.log.Debug("Unknown filter, skipping", zap.String("filter", name), zap.Strings("chain", chain))
			continue
		}
		root = f(root, fc)
	}
	return root
}

// placeholder marks where serializer puts markup inside Start and End
// prepared by layout.
const placeholder = "%s"

// fill puts value in place of the placeholder, when layout did not run there
// is no placeholder and value is returned as is.
func fill(s, value string) string {
	if i := strings.Index(s, placeholder); i >= 0 {
		return s[:i] + value + s[i+len(placeholder):]
	}
	if s == "" {
		return value
	}
	return s + value
}

// padString inserts padding after every line break of text.
func padString(text, padding string) string {
	if padding == "" || !strings.ContainsAny(text, "\r\n") {
		return text
	}
	var b strings.Builder
	for l := range strings.Lines(text) {
		if b.Len() > 0 {
			b.WriteString(padding)
		}
		b.WriteString(l)
	}
	return b.String()
}

// replaceCaret replaces every unescaped '|' with caret, "\|" becomes '|'.
func replaceCaret(s, caret string) string {
	if !strings.Contains(s, "|") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '|':
			b.WriteByte('|')
			i++
		case s[i] == '|':
			b.WriteString(caret)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// splitTemplate returns template parts before and after child injection
// point.
func splitTemplate(t string) (string, string) {
	before, after, _ := strings.Cut(t, resources.ChildToken)
	return before, after
}
