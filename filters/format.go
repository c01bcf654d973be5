package filters

import (
	"strings"

	"zen/abbr"
	"zen/common"
	"zen/tree"
)

// Format lays out the tree: decides where line breaks go and computes
// padding of every node. Start and End get a placeholder for the markup
// which serializer puts there later.
func Format(root *tree.Node, fc *Context) *tree.Node {
	root.Walk(func(n *tree.Node) {
		if n.Type == abbr.NodeTemplate {
			layoutTemplate(n, fc)
		} else {
			layoutTag(n, fc)
		}
		if n.Content != "" {
			n.Content = padString(n.Content, n.Padding)
		}
	})
	return root
}

func isVeryFirstChild(n *tree.Node) bool {
	return n.Parent != nil && n.Parent.Parent == nil && n.Prev == nil
}

func hasBlockChildren(n *tree.Node) bool {
	return n.HasTagsInContent() && n.IsBlock() || n.HasBlockChildren()
}

// shouldBreakLine reports if node belongs to a run of inline siblings long
// enough to be broken into lines.
func shouldBreakLine(n *tree.Node, p int) bool {
	if p <= 0 {
		return false
	}
	for n.Prev != nil && n.Prev.IsInline() {
		n = n.Prev
	}
	if !n.IsInline() {
		return false
	}
	count := 1
	for s := n.Next; s != nil && s.IsInline(); s = s.Next {
		count++
	}
	return count >= p
}

func shouldBreakChild(n *tree.Node, p int) bool {
	return len(n.Children) > 0 && shouldBreakLine(n.Children[0], p)
}

func layoutTag(n *tree.Node, fc *Context) {
	n.Start, n.End = placeholder, placeholder

	profile := fc.Profile
	if profile.TagNewline == common.TagNewlineOff {
		return
	}

	var (
		nl        = fc.Newline
		padding   = n.Parent.Padding
		forceNl   = profile.TagNewline == common.TagNewlineForced
		unary     = n.IsUnary()
		breakLine = shouldBreakLine(n, profile.InlineBreak)
	)

	switch {
	case n.Type == abbr.NodeText:
		// text has no tags to break around, only its position matters
		if (forceNl || breakLine || n.HasBlockSibling()) && !isVeryFirstChild(n) && n.Parent.Type != abbr.NodeTemplate {
			n.Start = nl + padding + n.Start
		}
	case n.IsBlock() || breakLine || forceNl:
		if n.Parent.Type != abbr.NodeTemplate && !isVeryFirstChild(n) {
			n.Start = nl + padding + n.Start
		}
		if hasBlockChildren(n) || shouldBreakChild(n, profile.InlineBreak) || forceNl && !unary {
			n.End = nl + padding + n.End
		}
		if n.HasTagsInContent() || forceNl && len(n.Children) == 0 && !unary {
			n.Start += nl + padding + fc.indent()
		}
	case n.HasBlockSibling() && !isVeryFirstChild(n):
		n.Start = nl + padding + n.Start
	case hasBlockChildren(n):
		n.End = nl + padding + n.End
	}
	n.Padding = padding + fc.indent()
}

func layoutTemplate(n *tree.Node, fc *Context) {
	n.Start, n.End = placeholder, placeholder

	padding := n.Parent.Padding
	if fc.Profile.TagNewline != common.TagNewlineOff && !isVeryFirstChild(n) {
		n.Start = fc.Newline + padding + n.Start
	}

	before, _ := splitTemplate(n.Template)
	n.Padding = padding + childIndent(before, fc.indent())
}

// childIndent returns indentation of the last line of template part before
// injection point, children are placed at it. When the part is a single line
// unit is used.
func childIndent(before, unit string) string {
	i := strings.LastIndexAny(before, "\r\n")
	if i < 0 {
		return unit
	}
	last := before[i+1:]
	if ws := last[:len(last)-len(strings.TrimLeft(last, " \t"))]; ws != "" {
		return ws
	}
	return unit
}
