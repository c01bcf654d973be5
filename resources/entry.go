package resources

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// EntryKind tells what a named resource resolves to.
type EntryKind int

const (
	EntryElement EntryKind = iota
	EntryTemplate
	EntryAlias
)

func (k EntryKind) String() string {
	switch k {
	case EntryElement:
		return "element"
	case EntryTemplate:
		return "template"
	case EntryAlias:
		return "alias"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// Attribute is a single name/value pair, order of attributes is significant.
type Attribute struct {
	Name  string
	Value string
}

// Element is a predefined element: tag name, default attributes and
// notation.
type Element struct {
	Tag         string
	Attributes  []Attribute
	SelfClosing bool
}

// Entry is an immutable named resource. Exactly one of Element, Template or
// Alias is meaningful, according to Kind.
type Entry struct {
	Kind     EntryKind
	Syntax   string
	Name     string
	Element  *Element
	Template string
	Alias    string
}

// ChildToken marks the place in a template where children and content go.
const ChildToken = "${child}"

// CaretMark stands for '|' written in attribute values of element
// definitions. Serializers replace it with the caret, values typed in
// abbreviations never contain it.
const CaretMark = "\x00"

func newAbbreviation(syntax, name, value string) (*Entry, error) {
	e := &Entry{Syntax: syntax, Name: name}
	def := strings.TrimSpace(value)
	if !strings.HasPrefix(def, "<") {
		if def == "" {
			return nil, fmt.Errorf("syntax %q abbreviation %q: empty alias", syntax, name)
		}
		e.Kind, e.Alias = EntryAlias, def
		return e, nil
	}
	el, err := parseElement(def)
	if err != nil {
		return nil, fmt.Errorf("syntax %q abbreviation %q: %w", syntax, name, err)
	}
	e.Kind, e.Element = EntryElement, el
	return e, nil
}

func newSnippet(syntax, name, value string) *Entry {
	return &Entry{Kind: EntryTemplate, Syntax: syntax, Name: name, Template: value}
}

// parseElement reads element definition written as markup, for example
// `<img src="" alt="" />`. Only the outermost element is considered.
func parseElement(def string) (*Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(def); err != nil {
		return nil, fmt.Errorf("malformed element definition: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("element definition has no element")
	}
	el := &Element{
		Tag:         root.FullTag(),
		SelfClosing: strings.HasSuffix(def, "/>"),
		Attributes:  make([]Attribute, 0, len(root.Attr)),
	}
	for _, a := range root.Attr {
		el.Attributes = append(el.Attributes, Attribute{Name: a.FullKey(), Value: markCaret(a.Value)})
	}
	return el, nil
}

// markCaret turns every unescaped '|' into CaretMark, "\|" becomes '|'.
func markCaret(v string) string {
	if !strings.Contains(v, "|") {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		switch {
		case v[i] == '\\' && i+1 < len(v) && v[i+1] == '|':
			b.WriteByte('|')
			i++
		case v[i] == '|':
			b.WriteString(CaretMark)
		default:
			b.WriteByte(v[i])
		}
	}
	return b.String()
}
