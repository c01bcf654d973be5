// Package abbr parses abbreviations ("div#page>ul.nav>li*3>a") into a tree
// of nodes with names resolved against syntax resources. The tree describes
// what to build, multipliers are kept as counts and expanded later.
package abbr

import (
	"fmt"
	"slices"

	"zen/resources"
)

// NodeType distinguishes what a node turns into on output.
type NodeType int

const (
	// NodeElement is a markup element with attributes.
	NodeElement NodeType = iota
	// NodeTemplate is a snippet, its children go to the injection point.
	NodeTemplate
	// NodeText is literal text without tag ("{Click me}").
	NodeText
	// NodeFragment is a transparent container used for root and for
	// multiplied groups, its children are spliced into the parent on rollout.
	NodeFragment
)

func (t NodeType) String() string {
	switch t {
	case NodeElement:
		return "element"
	case NodeTemplate:
		return "template"
	case NodeText:
		return "text"
	case NodeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node is a single node of parsed abbreviation.
type Node struct {
	Type NodeType
	// Name is element tag or resource name of the template.
	Name         string
	Count        int
	RepeatByLine bool
	Attributes   []resources.Attribute
	Content      string
	SelfClosing  bool
	Template     string
	ElementType  resources.ElementType
	Children     []*Node
}

// Tree is parsed abbreviation. Last is the most recently created node and
// ByLine is the first node marked for repetition by line, if any. Both are
// used when wrapping text.
type Tree struct {
	Root   *Node
	Last   *Node
	ByLine *Node
}

type parser struct {
	syntax  string
	res     *resources.Resolver
	aliases bool
	last    *Node
	byLine  *Node
}

// Parse builds tree for abbreviation in the context of syntax. On error
// nothing is returned and error wraps ErrMalformed.
func Parse(abbreviation, syntax string, res *resources.Resolver) (*Tree, error) {
	p := &parser{syntax: syntax, res: res, aliases: true}
	return p.parse(abbreviation)
}

func (p *parser) parse(s string) (*Tree, error) {
	g, err := splitGroups(s)
	if err != nil {
		return nil, err
	}
	root := &Node{Type: NodeFragment, Count: 1}
	if _, err := p.buildGroup(g, root); err != nil {
		return nil, err
	}
	return &Tree{Root: root, Last: p.last, ByLine: p.byLine}, nil
}

// buildGroup appends group members to container and returns the last node
// appended to container directly. '>' following the group attaches to it.
func (p *parser) buildGroup(g *group, container *Node) (*Node, error) {
	var (
		ctx    = container
		anchor *Node
		top    *Node
	)
	for _, it := range g.items {
		if it.op == '>' {
			ctx = anchor
		}

		var (
			added *Node
			err   error
		)
		if it.group != nil {
			target := ctx
			if it.group.count > 1 {
				frag := &Node{Type: NodeFragment, Count: it.group.count}
				ctx.Children = append(ctx.Children, frag)
				target = frag
			}
			if anchor, err = p.buildGroup(it.group, target); err != nil {
				return nil, err
			}
			added = anchor
			if target != ctx {
				added = target
			}
		} else {
			if anchor, err = p.buildTerm(it, ctx); err != nil {
				return nil, err
			}
			added = anchor
		}

		if ctx == container {
			top = added
		}
	}
	return top, nil
}

// buildTerm appends nodes for the term to ctx and returns the last of them.
func (p *parser) buildTerm(it item, ctx *Node) (*Node, error) {
	t, err := parseTerm(it.term, it.pos)
	if err != nil {
		return nil, err
	}
	nodes, last, err := p.resolve(t, it.pos)
	if err != nil {
		return nil, err
	}

	first := nodes[0]
	if t.count > 1 {
		first.Count = t.count
	}
	if t.byLine {
		first.RepeatByLine = true
		if p.byLine == nil {
			p.byLine = first
		}
	}
	ctx.Children = append(ctx.Children, nodes...)
	p.last = last
	return nodes[len(nodes)-1], nil
}

// resolve turns term into nodes. Only aliases produce more than one node.
func (p *parser) resolve(t *term, pos int) ([]*Node, *Node, error) {
	name := t.name
	if name == "" {
		if len(t.attrs) == 0 {
			n := &Node{Type: NodeText, Count: 1, Content: t.text, ElementType: resources.TypeInline}
			return []*Node{n}, n, nil
		}
		name = "div"
	}

	if t.plus {
		if nodes, last, ok, err := p.lookup(name+"+", t, pos); ok || err != nil {
			return nodes, last, err
		}
	}
	if nodes, last, ok, err := p.lookup(name, t, pos); ok || err != nil {
		return nodes, last, err
	}

	et := p.res.ElementType(p.syntax, name)
	n := &Node{
		Type:        NodeElement,
		Name:        name,
		Count:       1,
		Attributes:  t.attrs,
		Content:     t.text,
		SelfClosing: et.IsEmpty(),
		ElementType: et,
	}
	return []*Node{n}, n, nil
}

func (p *parser) lookup(name string, t *term, pos int) ([]*Node, *Node, bool, error) {
	e, ok := p.res.Lookup(p.syntax, name)
	if !ok {
		return nil, nil, false, nil
	}

	switch e.Kind {
	case resources.EntryTemplate:
		n := &Node{Type: NodeTemplate, Name: name, Count: 1, Template: e.Template, Content: t.text}
		return []*Node{n}, n, true, nil

	case resources.EntryElement:
		n := &Node{
			Type:        NodeElement,
			Name:        e.Element.Tag,
			Count:       1,
			Attributes:  MergeAttributes(slices.Clone(e.Element.Attributes), t.attrs),
			Content:     t.text,
			SelfClosing: e.Element.SelfClosing,
			ElementType: p.res.ElementType(p.syntax, e.Element.Tag),
		}
		return []*Node{n}, n, true, nil

	case resources.EntryAlias:
		if !p.aliases {
			return nil, nil, false, nil
		}
		sub := &parser{syntax: p.syntax, res: p.res}
		tree, err := sub.parse(e.Alias)
		if err != nil {
			return nil, nil, true, errorf(pos, "alias %q: %v", name, err)
		}
		nodes := tree.Root.Children
		first := nodes[0]
		first.Attributes = MergeAttributes(first.Attributes, t.attrs)
		if t.hasText {
			first.Content = t.text
		}
		if p.byLine == nil {
			p.byLine = tree.ByLine
		}
		return nodes, tree.Last, true, nil
	}
	return nil, nil, false, nil
}
