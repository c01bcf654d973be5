// Package tree holds output trees: parsed abbreviation with all multipliers
// expanded. Filters rewrite output nodes in place, serialization concatenates
// what they produced.
package tree

import (
	"strings"

	"zen/abbr"
	"zen/resources"
)

// Node is a single instance of abbreviation node after rollout. Start, End,
// Content and Padding are filled and changed by filters.
type Node struct {
	Type        abbr.NodeType
	Name        string
	Attributes  []resources.Attribute
	SelfClosing bool
	Template    string
	ElementType resources.ElementType
	// Index is 1-based number of the copy, used for counters.
	Index int

	Start   string
	End     string
	Content string
	Padding string

	Children []*Node
	Parent   *Node
	Prev     *Node
	Next     *Node
}

// IsBlock reports if node should be placed on its own line. Templates are
// always blocks, text never is.
func (n *Node) IsBlock() bool {
	switch n.Type {
	case abbr.NodeText:
		return false
	case abbr.NodeElement:
		return n.ElementType.IsBlock()
	default:
		return true
	}
}

// IsInline is the opposite of IsBlock.
func (n *Node) IsInline() bool {
	return !n.IsBlock()
}

// IsUnary reports element which is written without content and closing tag.
func (n *Node) IsUnary() bool {
	return n.Type == abbr.NodeElement && n.SelfClosing && len(n.Children) == 0
}

// IsElement reports if node is a markup element.
func (n *Node) IsElement() bool {
	return n.Type == abbr.NodeElement
}

// HasBlockChildren reports if any child is a block.
func (n *Node) HasBlockChildren() bool {
	for _, c := range n.Children {
		if c.IsBlock() {
			return true
		}
	}
	return false
}

// HasBlockSibling reports if node or any of its siblings is a block.
func (n *Node) HasBlockSibling() bool {
	return n.Parent != nil && n.Parent.HasBlockChildren()
}

// HasTagsInContent reports if content looks like it has markup in it.
func (n *Node) HasTagsInContent() bool {
	s := n.Content
	for i := strings.IndexByte(s, '<'); i >= 0 && i+1 < len(s); {
		c := s[i+1]
		if c == '/' || c == '!' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			return true
		}
		j := strings.IndexByte(s[i+1:], '<')
		if j < 0 {
			break
		}
		i += j + 1
	}
	return false
}

// Attribute returns value of the named attribute.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// DeepestLast follows last children down and returns the final one, or n
// itself when it has no children.
func (n *Node) DeepestLast() *Node {
	for len(n.Children) > 0 {
		n = n.Children[len(n.Children)-1]
	}
	return n
}

// Depth is number of ancestors, children of the root have depth 1.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Walk calls fn for every descendant of n in pre-order. Children of a node
// are visited after fn returned for it, so fn may rewrite them.
func (n *Node) Walk(fn func(*Node)) {
	for _, c := range n.Children {
		fn(c)
		c.Walk(fn)
	}
}

// Serialize concatenates Start, Content, serialized children and End of
// every node in pre-order.
func (n *Node) Serialize() string {
	var b strings.Builder
	n.serialize(&b)
	return b.String()
}

func (n *Node) serialize(b *strings.Builder) {
	b.WriteString(n.Start)
	b.WriteString(n.Content)
	for _, c := range n.Children {
		c.serialize(b)
	}
	b.WriteString(n.End)
}
