package abbr

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"zen/resources"
)

func newResolver(t *testing.T) *resources.Resolver {
	t.Helper()
	tbl, err := resources.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	r, err := resources.NewResolver(tbl, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	return r
}

// shape renders tree compactly: name*count{content}[attrs](children).
func shape(n *Node) string {
	var b strings.Builder
	switch n.Type {
	case NodeFragment:
		b.WriteString("@")
	case NodeText:
		b.WriteString("~")
	default:
		b.WriteString(n.Name)
	}
	if n.Count > 1 {
		fmt.Fprintf(&b, "*%d", n.Count)
	}
	if n.RepeatByLine {
		b.WriteString("*")
	}
	if len(n.Attributes) > 0 {
		b.WriteString("[")
		for i, a := range n.Attributes {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%s=%q", a.Name, a.Value)
		}
		b.WriteString("]")
	}
	if n.Content != "" {
		fmt.Fprintf(&b, "{%s}", n.Content)
	}
	if len(n.Children) > 0 {
		b.WriteString("(")
		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(shape(c))
		}
		b.WriteString(")")
	}
	return b.String()
}

func TestParse_Shape(t *testing.T) {
	res := newResolver(t)
	tests := []struct {
		abbr string
		want string
	}{
		{"div", "@(div)"},
		{"div>p", "@(div(p))"},
		{"div+p", "@(div p)"},
		{"div>p+span", "@(div(p span))"},
		{"div>p>span+em", "@(div(p(span em)))"},
		{"ul>li*5", "@(ul(li*5))"},
		{"div#main.title", `@(div[id="main" class="title"])`},
		{"#main", `@(div[id="main"])`},
		{".a.b", `@(div[class="a b"])`},
		{"p.a.b.a", `@(p[class="a b a"])`},
		{"a", `@(a[href=""])`},
		{"a[href=x title='T t']", `@(a[href="x" title="T t"])`},
		{`td[colspan=2 rowspan="3" nowrap]`, `@(td[colspan="2" rowspan="3" nowrap=""])`},
		{"p{Hello world}", "@(p{Hello world})"},
		{"p>{Click}+a", `@(p(~{Click} a[href=""]))`},
		{"ul>li*", "@(ul(li*))"},
		{"(div>p)+span", "@(div(p) span)"},
		{"(div>p)>span", "@(div(p span))"},
		{"div>(ul>li)+p", "@(div(ul(li) p))"},
		{"(li>a)*3", "@(@*3(li(a[href=\"\"])))"},
		{"ul+", "@(ul(li))"},
		{"ul++p", "@(ul(li) p)"},
		{"ul.nav+", `@(ul[class="nav"](li))`},
		{"dl+", "@(dl(dt dd))"},
		{"bq.quote", `@(blockquote[class="quote"])`},
		{"img.photo", `@(img[src="" alt="" class="photo"])`},
		{"h$*3", "@(h$*3)"},
		{"custom-element", "@(custom-element)"},
	}
	for _, tt := range tests {
		t.Run(tt.abbr, func(t *testing.T) {
			tree, err := Parse(tt.abbr, "html", res)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.abbr, err)
			}
			if diff := cmp.Diff(tt.want, shape(tree.Root)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.abbr, diff)
			}
		})
	}
}

func TestParse_Resolution(t *testing.T) {
	res := newResolver(t)

	tree, err := Parse("img+br+html:5+tm", "xsl", res)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	nodes := tree.Root.Children
	if len(nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(nodes))
	}
	if n := nodes[0]; n.Type != NodeElement || !n.SelfClosing || !n.ElementType.IsInline() {
		t.Errorf("img = %+v, want inline self-closing element", n)
	}
	if n := nodes[1]; n.Name != "br" || !n.SelfClosing {
		t.Errorf("br = %+v, want self-closing literal element", n)
	}
	if n := nodes[2]; n.Type != NodeTemplate || !strings.Contains(n.Template, resources.ChildToken) {
		t.Errorf("html:5 = %+v, want template", n)
	}
	if n := nodes[3]; n.Name != "xsl:template" || n.SelfClosing {
		t.Errorf("tm = %+v, want xsl:template element", n)
	}
}

func TestParse_LastAndByLine(t *testing.T) {
	res := newResolver(t)
	tests := []struct {
		abbr   string
		last   string
		byLine string
	}{
		{"div>p", "p", ""},
		{"ul>li*>a", "a", "li"},
		{"div>(ul>li)+p", "p", ""},
		{"ul+", "li", ""},
		{"table+", "td", ""},
	}
	for _, tt := range tests {
		t.Run(tt.abbr, func(t *testing.T) {
			tree, err := Parse(tt.abbr, "html", res)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.abbr, err)
			}
			if tree.Last == nil || tree.Last.Name != tt.last {
				t.Errorf("Last = %+v, want %q", tree.Last, tt.last)
			}
			got := ""
			if tree.ByLine != nil {
				got = tree.ByLine.Name
			}
			if got != tt.byLine {
				t.Errorf("ByLine = %q, want %q", got, tt.byLine)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	res := newResolver(t)
	tests := []struct {
		abbr string
		pos  int
	}{
		{"", 0},
		{"div>", 4},
		{">div", 0},
		{"div>>p", 4},
		{"div>+p", 4},
		{"div)", 3},
		{"(div", 0},
		{"()", 1},
		{"a[href=x", 1},
		{`a[title="x]`, 1},
		{"p{text", 1},
		{"li*0", 3},
		{"(li)*0", 5},
		{"(li)*", 4},
		{"div#", 3},
		{"div.", 3},
		{"div p", 3},
		{"(a)b", 3},
		{"a*3b", 3},
		{"a[=x]", 2},
	}
	for _, tt := range tests {
		t.Run(tt.abbr, func(t *testing.T) {
			tree, err := Parse(tt.abbr, "html", res)
			if err == nil {
				t.Fatalf("Parse(%q) = %s, want error", tt.abbr, shape(tree.Root))
			}
			if tree != nil {
				t.Error("Parse() returned tree together with error")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v does not wrap ErrMalformed", err)
			}
			var pe *Error
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *Error", err)
			}
			if pe.Pos != tt.pos {
				t.Errorf("Pos = %d, want %d (%v)", pe.Pos, tt.pos, err)
			}
		})
	}
}

func TestParse_ClassMerge(t *testing.T) {
	res := newResolver(t)
	tests := []struct {
		abbr string
		want string
	}{
		{"p.a[class=b]", "a b"},
		{"p[class=' a  b ']", "a b"},
		{"p[class=]", ""},
		{"p.a[class='']", "a"},
	}
	for _, tt := range tests {
		tree, err := Parse(tt.abbr, "html", res)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.abbr, err)
		}
		n := tree.Root.Children[0]
		if len(n.Attributes) != 1 || n.Attributes[0].Value != tt.want {
			t.Errorf("Parse(%q) class = %+v, want %q", tt.abbr, n.Attributes, tt.want)
		}
	}
}

func TestParse_LaterAttributeWins(t *testing.T) {
	res := newResolver(t)
	tree, err := Parse("a#x[href=one id=y][href=two]", "html", res)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []resources.Attribute{{Name: "href", Value: "two"}, {Name: "id", Value: "y"}}
	if diff := cmp.Diff(want, tree.Root.Children[0].Attributes); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		in      string
		rest    string
		filters []string
	}{
		{"ul>li", "ul>li", nil},
		{"ul>li|e", "ul>li", []string{"e"}},
		{"ul>li|e|c", "ul>li", []string{"e", "c"}},
		{"div|haml", "div", []string{"haml"}},
		{"a[title=x|y]", "a[title=x|y]", nil},
		{"p|", "p", nil},
	}
	for _, tt := range tests {
		rest, filters := ParseFilters(tt.in)
		if rest != tt.rest {
			t.Errorf("ParseFilters(%q) rest = %q, want %q", tt.in, rest, tt.rest)
		}
		if diff := cmp.Diff(tt.filters, filters); diff != "" {
			t.Errorf("ParseFilters(%q) filters mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
