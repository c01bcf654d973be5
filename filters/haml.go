package filters

import (
	"strings"

	"golang.org/x/text/cases"

	"zen/abbr"
	"zen/common"
	"zen/resources"
	"zen/tree"
)

// HAML serializes tree into HAML. Nesting is expressed by indentation so
// this filter does its own layout and does not need Format.
func HAML(root *tree.Node, fc *Context) *tree.Node {
	unit := fc.Indent
	if unit == "" {
		unit = "  "
	}
	h := &hamlSerializer{
		fc:       fc,
		unit:     unit,
		tagCase:  newCaser(fc.Profile.TagCase),
		attrCase: newCaser(fc.Profile.AttrCase),
		quote:    fc.Profile.AttrQuotes.Char(),
		cursor:   fc.caret(),
	}
	root.Walk(h.node)
	return root
}

type hamlSerializer struct {
	fc       *Context
	unit     string
	tagCase  cases.Caser
	attrCase cases.Caser
	quote    string
	cursor   string
	started  bool
}

func (h *hamlSerializer) node(n *tree.Node) {
	padding := n.Parent.Padding
	nl := ""
	if h.started {
		nl = h.fc.Newline
	}
	h.started = true

	switch n.Type {
	case abbr.NodeElement:
		n.Start = nl + padding + h.tag(n)
		n.End = ""
		n.Padding = padding + h.unit
		switch {
		case n.Content == "":
			if len(n.Children) == 0 && !n.IsUnary() && h.cursor != "" {
				n.Start += " " + h.cursor
			}
		case strings.ContainsAny(n.Content, "\r\n"):
			n.Content = h.fc.Newline + n.Padding + padString(n.Content, n.Padding)
		default:
			n.Start += " "
		}

	case abbr.NodeText:
		n.Start, n.End = nl+padding, ""
		n.Content = padString(n.Content, padding)
		n.Padding = padding

	case abbr.NodeTemplate:
		before, after := splitTemplate(n.Template)
		n.Start = nl + padding + padString(replaceCaret(before, h.cursor), padding)
		n.End = padString(replaceCaret(after, h.cursor), padding)
		n.Padding = padding + childIndent(before, h.unit)
	}
}

func (h *hamlSerializer) tag(n *tree.Node) string {
	var short, other []string
	for _, a := range n.Attributes {
		value := strings.ReplaceAll(a.Value, resources.CaretMark, h.cursor)
		switch strings.ToLower(a.Name) {
		case "id":
			if value = firstNonEmpty(value, h.cursor); value != "" {
				short = append(short, "#"+value)
			}
		case "class":
			if classes := strings.Fields(value); len(classes) > 0 {
				short = append(short, "."+strings.Join(classes, "."))
			} else if h.cursor != "" {
				short = append(short, "."+h.cursor)
			}
		default:
			other = append(other, ":"+h.attrCase.String(a.Name)+" => "+h.quote+strings.ReplaceAll(firstNonEmpty(value, h.cursor), h.quote, `\`+h.quote)+h.quote)
		}
	}

	var b strings.Builder
	if !strings.EqualFold(n.Name, "div") || len(short) == 0 || len(other) > 0 {
		b.WriteString("%")
		b.WriteString(h.tagCase.String(n.Name))
	}
	for _, s := range short {
		b.WriteString(s)
	}
	if len(other) > 0 {
		b.WriteString("{")
		b.WriteString(strings.Join(other, ", "))
		b.WriteString("}")
	}
	if n.IsUnary() && h.fc.Profile.SelfClosing != common.SelfClosingHtml {
		b.WriteString("/")
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
