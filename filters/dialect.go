package filters

import (
	"regexp"
	"strings"

	"zen/common"
	"zen/tree"
)

// Comment surrounds block elements having id or class with comments naming
// them. It only makes sense for serialized trees with line breaks.
func Comment(root *tree.Node, fc *Context) *tree.Node {
	if fc.Profile.TagNewline == common.TagNewlineOff {
		return root
	}
	root.Walk(func(n *tree.Node) {
		if !n.IsElement() || !n.IsBlock() {
			return
		}
		id, _ := n.Attribute("id")
		class, _ := n.Attribute("class")
		if id == "" && class == "" {
			return
		}

		var label strings.Builder
		if id != "" {
			label.WriteString("#" + id)
		}
		if classes := strings.Fields(class); len(classes) > 0 {
			label.WriteString("." + strings.Join(classes, "."))
		}

		nl, padding := fc.Newline, n.Parent.Padding
		if i := strings.IndexByte(n.Start, '<'); i >= 0 {
			n.Start = n.Start[:i] + "<!-- " + label.String() + " -->" + nl + padding + n.Start[i:]
		}
		if i := strings.IndexByte(n.End, '>'); i >= 0 {
			n.End = n.End[:i+1] + nl + padding + "<!-- /" + label.String() + " -->" + n.End[i+1:]
		}
	})
	return root
}

var escaper = strings.NewReplacer("<", "&lt;", ">", "&gt;", "&", "&amp;")

// Escape replaces markup characters in generated tags so output can be
// pasted as text. Content is not touched.
func Escape(root *tree.Node, _ *Context) *tree.Node {
	root.Walk(func(n *tree.Node) {
		n.Start = escaper.Replace(n.Start)
		n.End = escaper.Replace(n.End)
	})
	return root
}

var reSelect = regexp.MustCompile(`\s+select\s*=\s*("[^"]*"|'[^']*')`)

// XSL drops select attribute from variables and parameters which get their
// value from children.
func XSL(root *tree.Node, _ *Context) *tree.Node {
	root.Walk(func(n *tree.Node) {
		if !n.IsElement() || len(n.Children) == 0 {
			return
		}
		switch strings.ToLower(n.Name) {
		case "xsl:variable", "xsl:with-param":
			n.Start = reSelect.ReplaceAllString(n.Start, "")
		}
	})
	return root
}
