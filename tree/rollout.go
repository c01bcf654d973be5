package tree

import (
	"slices"
	"strings"

	"zen/abbr"
)

// Rollout expands parsed abbreviation into output tree: every node is copied
// Count times (or once per line of its content when repeated by line) and
// copies of multiplied groups are spliced into their parent. The result root
// is a fragment with Index 1.
func Rollout(t *abbr.Tree) *Node {
	root := &Node{Type: abbr.NodeFragment, Index: 1}
	if t != nil && t.Root != nil {
		root.Content = t.Root.Content
		rollChildren(t.Root, root)
	}
	link(root)
	return root
}

func rollChildren(src *abbr.Node, dst *Node) {
	for _, c := range src.Children {
		rollNode(c, dst)
	}
}

func rollNode(src *abbr.Node, parent *Node) {
	count := max(src.Count, 1)
	var lines []string
	if src.RepeatByLine {
		lines = splitLines(src.Content)
		count = max(len(lines), 1)
	}
	multiplied := src.Count > 1 || src.RepeatByLine

	for i := range count {
		index := parent.Index
		if multiplied {
			index = i + 1
		}

		if src.Type == abbr.NodeFragment {
			holder := &Node{Index: index}
			rollChildren(src, holder)
			parent.Children = append(parent.Children, holder.Children...)
			continue
		}

		n := copyNode(src, index)
		rollChildren(src, n)
		if src.RepeatByLine {
			n.Content = ""
			if i < len(lines) {
				n.DeepestLast().Content = lines[i]
			}
		}
		parent.Children = append(parent.Children, n)
	}
}

func copyNode(src *abbr.Node, index int) *Node {
	return &Node{
		Type:        src.Type,
		Name:        src.Name,
		Attributes:  slices.Clone(src.Attributes),
		SelfClosing: src.SelfClosing,
		Template:    src.Template,
		ElementType: src.ElementType,
		Index:       index,
		Content:     src.Content,
	}
}

// splitLines returns trimmed non-empty lines of text.
func splitLines(text string) []string {
	var lines []string
	for l := range strings.Lines(text) {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func link(n *Node) {
	var prev *Node
	for _, c := range n.Children {
		c.Parent, c.Prev, c.Next = n, prev, nil
		if prev != nil {
			prev.Next = c
		}
		prev = c
		link(c)
	}
}
