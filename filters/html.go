package filters

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"zen/abbr"
	"zen/common"
	"zen/resources"
	"zen/tree"
)

// casers are stateful, so every filter run makes its own.
func newCaser(c common.Case) cases.Caser {
	if c == common.CaseUpper {
		return cases.Upper(language.Und)
	}
	return cases.Lower(language.Und)
}

// HTML serializes elements and templates into markup according to profile.
func HTML(root *tree.Node, fc *Context) *tree.Node {
	s := &htmlSerializer{
		fc:       fc,
		tagCase:  newCaser(fc.Profile.TagCase),
		attrCase: newCaser(fc.Profile.AttrCase),
		quote:    fc.Profile.AttrQuotes.Char(),
		cursor:   fc.caret(),
	}
	root.Walk(s.node)
	return root
}

type htmlSerializer struct {
	fc       *Context
	tagCase  cases.Caser
	attrCase cases.Caser
	quote    string
	cursor   string
}

func (s *htmlSerializer) node(n *tree.Node) {
	switch n.Type {
	case abbr.NodeElement:
		s.element(n)
	case abbr.NodeTemplate:
		s.template(n)
	case abbr.NodeText:
		n.Start, n.End = fill(n.Start, ""), fill(n.End, "")
	}
}

// attrValue escapes active quote character and puts caret where element
// definition asked for it.
func attrValue(v, quote, cursor string) string {
	switch quote {
	case `"`:
		v = strings.ReplaceAll(v, `"`, "&quot;")
	case "'":
		v = strings.ReplaceAll(v, "'", "&apos;")
	}
	return strings.ReplaceAll(v, resources.CaretMark, cursor)
}

func (s *htmlSerializer) attributes(n *tree.Node) string {
	var b strings.Builder
	for _, a := range n.Attributes {
		value := attrValue(a.Value, s.quote, s.cursor)
		if value == "" {
			value = s.cursor
		}
		b.WriteByte(' ')
		b.WriteString(s.attrCase.String(a.Name))
		b.WriteByte('=')
		b.WriteString(s.quote)
		b.WriteString(value)
		b.WriteString(s.quote)
	}
	return b.String()
}

func (s *htmlSerializer) element(n *tree.Node) {
	name := s.tagCase.String(n.Name)
	attrs := s.attributes(n)

	if n.IsUnary() {
		n.Start = fill(n.Start, "<"+name+attrs+s.fc.Profile.SelfClosing.Closer()+">")
		n.End = ""
		return
	}

	n.Start = fill(n.Start, "<"+name+attrs+">")
	n.End = fill(n.End, "</"+name+">")
	if len(n.Children) == 0 && n.Content == "" {
		n.Start += s.cursor
	}
}

func (s *htmlSerializer) template(n *tree.Node) {
	before, after := splitTemplate(n.Template)
	padding := ""
	if n.Parent != nil {
		padding = n.Parent.Padding
	}
	n.Start = fill(n.Start, padString(replaceCaret(before, s.cursor), padding))
	n.End = fill(n.End, padString(replaceCaret(after, s.cursor), padding))
}
