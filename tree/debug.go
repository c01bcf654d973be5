package tree

import (
	"zen/utils/debug"
)

// String dumps node and its descendants for logs and debug reports.
func (n *Node) String() string {
	tw := debug.NewTreeWriter()
	n.dump(tw, 0)
	return tw.String()
}

func (n *Node) dump(tw *debug.TreeWriter, depth int) {
	switch {
	case n.Name != "":
		tw.Line(depth, "%s %s #%d", n.Type, n.Name, n.Index)
	default:
		tw.Line(depth, "%s #%d", n.Type, n.Index)
	}
	kv := make([]string, 0, 2*len(n.Attributes))
	for _, a := range n.Attributes {
		kv = append(kv, a.Name, a.Value)
	}
	tw.Pairs(depth+1, "attrs", kv...)
	tw.TextBlock(depth+1, "start", n.Start)
	tw.TextBlock(depth+1, "content", n.Content)
	tw.TextBlock(depth+1, "end", n.End)
	for _, c := range n.Children {
		c.dump(tw, depth+1)
	}
}
