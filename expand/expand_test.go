package expand

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"zen/abbr"
	"zen/common"
	"zen/config"
	"zen/filters"
	"zen/matcher"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Output.Caret = "|"
	log := zaptest.NewLogger(t)
	res, err := LoadResources(cfg, log)
	if err != nil {
		t.Fatalf("LoadResources() error = %v", err)
	}
	return NewEngine(cfg, res, filters.Default(), log)
}

func TestExpand(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		abbr   string
		syntax string
		want   string
	}{
		{"ul>li.item$*3", "html", "<ul>\n\t<li class=\"item1\">|</li>\n\t<li class=\"item2\">|</li>\n\t<li class=\"item3\">|</li>\n</ul>"},
		{"li.item$$$*2", "html", "<li class=\"item001\">|</li>\n<li class=\"item002\">|</li>"},
		{"div#main.title", "html", `<div id="main" class="title">|</div>`},
		{"div.a.b", "html", `<div class="a b">|</div>`},
		{"p{\\$5}", "html", "<p>$5</p>"},
		{"p{Hello}|e", "html", "&lt;p&gt;Hello&lt;/p&gt;"},
		{"(p>span)*2", "html", "<p><span>|</span></p>\n<p><span>|</span></p>"},
	}
	for _, tt := range tests {
		t.Run(tt.abbr, func(t *testing.T) {
			got, err := e.Expand(NewSession(), tt.abbr, tt.syntax, nil)
			if err != nil {
				t.Fatalf("Expand(%q) error = %v", tt.abbr, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Expand(%q) mismatch (-want +got):\n%s", tt.abbr, diff)
			}
		})
	}
}

func TestExpand_UserAttributeKeepsPipes(t *testing.T) {
	e := newEngine(t)
	got, err := e.Expand(NewSession(), `a[onclick="x||y"]`, "html", e.Profile("plain", "html"))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if want := `<a href="" onclick="x||y"></a>`; got != want {
		t.Errorf("Expand() = %q, want %q", got, want)
	}
}

func TestExpand_Variables(t *testing.T) {
	e := newEngine(t)
	got, err := e.Expand(NewSession(), "html:5", "html", nil)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	for _, want := range []string{`<html lang="en">`, `<meta charset="UTF-8" />`, "<!DOCTYPE html>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expand(html:5) = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "${") {
		t.Errorf("Expand(html:5) = %q, has unresolved variables", got)
	}
}

func TestExpand_Malformed(t *testing.T) {
	e := newEngine(t)
	for _, in := range []string{"", "div>", "(div", "div*0"} {
		t.Run(in, func(t *testing.T) {
			_, err := e.Expand(NewSession(), in, "html", nil)
			if !errors.Is(err, ErrUnchanged) {
				t.Errorf("Expand(%q) error = %v, want ErrUnchanged", in, err)
			}
			if !errors.Is(err, abbr.ErrMalformed) {
				t.Errorf("Expand(%q) error = %v, want ErrMalformed", in, err)
			}
		})
	}
}

func TestExpand_TabStops(t *testing.T) {
	e := newEngine(t)
	s := NewSession()

	expand := func() string {
		t.Helper()
		got, err := e.Expand(s, "p{${1:name} $2 $0}", "html", nil)
		if err != nil {
			t.Fatalf("Expand() error = %v", err)
		}
		return got
	}

	if got, want := expand(), "<p>${1:name} $2 $0</p>"; got != want {
		t.Errorf("first expansion = %q, want %q", got, want)
	}
	if s.TabStopOffset() != 2 {
		t.Errorf("TabStopOffset() = %d, want 2", s.TabStopOffset())
	}
	if got, want := expand(), "<p>${3:name} $4 $0</p>"; got != want {
		t.Errorf("second expansion = %q, want %q", got, want)
	}

	s.Reset()
	if got, want := expand(), "<p>${1:name} $2 $0</p>"; got != want {
		t.Errorf("expansion after reset = %q, want %q", got, want)
	}
}

func TestReplaceCounters(t *testing.T) {
	tests := []struct {
		in     string
		index  int
		offset int
		want   string
		top    int
	}{
		{"item$", 3, 0, "item3", 0},
		{"item$$$", 7, 0, "item007", 0},
		{"$$", 123, 0, "123", 0},
		{`a\$b`, 1, 0, "a$b", 0},
		{"$1 $2", 1, 10, "$11 $12", 2},
		{"${1:x}", 1, 5, "${6:x}", 1},
		{"${0}", 1, 5, "${0}", 0},
		{"$$1", 4, 0, "4$1", 1},
		{"${name}", 1, 0, "${name}", 0},
		{"${1", 1, 0, "${1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var top int
			got := replaceCounters(tt.in, tt.index, tt.offset, &top)
			if got != tt.want {
				t.Errorf("replaceCounters(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if top != tt.top {
				t.Errorf("replaceCounters(%q) top = %d, want %d", tt.in, top, tt.top)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		name string
		abbr string
		text string
		want string
	}{
		{"by line", "ul>li*", "one\ntwo\n\nthree", "<ul>\n\t<li>one</li>\n\t<li>two</li>\n\t<li>three</li>\n</ul>"},
		{"markup", "div", "<p>text</p>", "<div>\n\t<p>text</p>\n</div>"},
		{"last node", "div>span", "x", "<div><span>x</span></div>"},
		{"unindent", "div", "\n    a\n      b\n", "<div>a\n\t  b</div>"},
		{"dollar kept", "p", "cost $5", "<p>cost $5</p>"},
		{"numbered lines", "ol>li.l$*", "a\nb", "<ol>\n\t<li class=\"l1\">a</li>\n\t<li class=\"l2\">b</li>\n</ol>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Wrap(NewSession(), tt.abbr, tt.text, "html", nil)
			if err != nil {
				t.Fatalf("Wrap(%q) error = %v", tt.abbr, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Wrap(%q) mismatch (-want +got):\n%s", tt.abbr, diff)
			}
		})
	}
}

func TestWrapMatch(t *testing.T) {
	e := newEngine(t)
	text := "<div>\n\t<p>hi</p>\n</div>"
	cursor := strings.Index(text, "hi") + 1

	got, err := e.WrapMatch(NewSession(), "div.w", text, cursor, "html", nil)
	if err != nil {
		t.Fatalf("WrapMatch() error = %v", err)
	}
	want := "<div>\n\t<div class=\"w\">\n\t\t<p>hi</p>\n\t</div>\n</div>"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WrapMatch() mismatch (-want +got):\n%s", diff)
	}

	if _, err := e.WrapMatch(NewSession(), "div", "plain text", 3, "html", nil); !errors.Is(err, ErrUnchanged) {
		t.Errorf("WrapMatch() on plain text error = %v, want ErrUnchanged", err)
	}
}

func TestExpand_CaretMatchesEmptyElement(t *testing.T) {
	e := newEngine(t)
	out, err := e.Expand(NewSession(), "div>p", "html", nil)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	text, pos := ExtractCaret(out, "|")
	if pos < 0 {
		t.Fatalf("no caret in %q", out)
	}
	p, ok := matcher.FindPair(text, pos, "html")
	if !ok {
		t.Fatalf("FindPair(%q, %d) found nothing", text, pos)
	}
	if p.Open.Name != "p" {
		t.Errorf("pair around caret = %q, want p", p.Open.Name)
	}
	if r := p.Selection(pos); r.Len() != 0 {
		t.Errorf("selection = %v, want empty content", r)
	}
}

func TestExpand_DistinctCounters(t *testing.T) {
	e := newEngine(t)
	got, err := e.Expand(NewSession(), "ul>li.item$*5", "html", nil)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	var want strings.Builder
	want.WriteString("<ul>\n")
	for i := 1; i <= 5; i++ {
		want.WriteString("\t<li class=\"item" + strconv.Itoa(i) + "\">|</li>\n")
	}
	want.WriteString("</ul>")
	if diff := cmp.Diff(want.String(), got); diff != "" {
		t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
	}
}

// element is a pair of tags located in generated markup by plain text
// search, independent of the matcher.
type element struct {
	open, close matcher.Range
}

func elements(t *testing.T, text string) (pairs []element, single []matcher.Range) {
	t.Helper()
	var stack []matcher.Range
	for at := 0; at < len(text); {
		start := strings.IndexByte(text[at:], '<')
		if start < 0 {
			break
		}
		start += at
		end := strings.IndexByte(text[start:], '>')
		if end < 0 {
			t.Fatalf("unterminated tag at %d in %q", start, text)
		}
		r := matcher.Range{Start: start, End: start + end + 1}
		tag := text[r.Start:r.End]
		name := strings.Fields(strings.Trim(tag, "</>"))[0]
		switch {
		case strings.HasPrefix(tag, "</"):
			if len(stack) == 0 {
				t.Fatalf("stray %s in %q", tag, text)
			}
			pairs = append(pairs, element{open: stack[len(stack)-1], close: r})
			stack = stack[:len(stack)-1]
		case strings.HasSuffix(tag, "/>") || name == "img" || name == "br":
			single = append(single, r)
		default:
			stack = append(stack, r)
		}
		at = r.End
	}
	if len(stack) != 0 {
		t.Fatalf("unclosed tags in %q", text)
	}
	return pairs, single
}

func TestExpand_FindPairRoundTrip(t *testing.T) {
	e := newEngine(t)
	for _, abbr := range []string{"table>tr*2>td{c}*2", "div>p{x}+p>span", "ul>li.item$*3>a", "div>(p>b)*2+img"} {
		for _, profile := range []string{"plain", "xhtml"} {
			t.Run(abbr+"/"+profile, func(t *testing.T) {
				out, err := e.Expand(NewSession(), abbr, "html", e.Profile(profile, "html"))
				if err != nil {
					t.Fatalf("Expand(%q) error = %v", abbr, err)
				}
				text, _ := ExtractCaret(out, "|")
				pairs, single := elements(t, text)
				if len(pairs) == 0 {
					t.Fatalf("no elements in %q", text)
				}

			positions:
				for pos := 1; pos < len(text); pos++ {
					for _, r := range single {
						if r.Start < pos && pos < r.End {
							continue positions
						}
					}
					// innermost element holding pos strictly inside
					var want *element
					for i := range pairs {
						el := &pairs[i]
						if el.open.Start < pos && pos < el.close.End &&
							(want == nil || el.close.End-el.open.Start < want.close.End-want.open.Start) {
							want = el
						}
					}
					if want == nil {
						continue
					}
					p, ok := matcher.FindPair(text, pos, "html")
					if !ok {
						t.Fatalf("FindPair(%q, %d) found nothing", text, pos)
					}
					if p.Close == nil || p.Open.Range != want.open || p.Close.Range != want.close {
						t.Errorf("FindPair(%q, %d) = %+v %+v, want %v %v", text, pos, p.Open, p.Close, want.open, want.close)
					}
				}
			})
		}
	}
}

func TestExtractCaret(t *testing.T) {
	text, pos := ExtractCaret("<a href=\"|\">|</a>", "|")
	if text != `<a href=""></a>` || pos != 9 {
		t.Errorf("ExtractCaret() = %q, %d", text, pos)
	}
	if _, pos := ExtractCaret("abc", "|"); pos != -1 {
		t.Errorf("ExtractCaret() without caret = %d, want -1", pos)
	}
}

func TestProfile(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		name, syntax string
		tagNewline   common.TagNewline
		selfClosing  common.SelfClosing
	}{
		{"", "html", common.TagNewlineAuto, common.SelfClosingXhtml},
		{"", "xml", common.TagNewlineForced, common.SelfClosingXml},
		{"html", "xml", common.TagNewlineAuto, common.SelfClosingHtml},
		{"missing", "html", common.TagNewlineOff, common.SelfClosingXhtml},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.syntax, func(t *testing.T) {
			p := e.Profile(tt.name, tt.syntax)
			if p.TagNewline != tt.tagNewline || p.SelfClosing != tt.selfClosing {
				t.Errorf("Profile(%q, %q) = %+v", tt.name, tt.syntax, p)
			}
		})
	}
}

func TestLoadResources_UserTable(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Output.Caret = "|"
	path := filepath.Join(t.TempDir(), "user.yaml")
	data := "variables:\n  lang: de\nsyntaxes:\n  html:\n    abbreviations:\n      box: '<div class=\"box\"></div>'\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Resources.Path = path

	log := zaptest.NewLogger(t)
	res, err := LoadResources(cfg, log)
	if err != nil {
		t.Fatalf("LoadResources() error = %v", err)
	}
	e := NewEngine(cfg, res, filters.Default(), log)

	got, err := e.Expand(NewSession(), "box", "html", nil)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if want := `<div class="box">|</div>`; got != want {
		t.Errorf("Expand(box) = %q, want %q", got, want)
	}
	if v, _ := res.Variable("lang"); v != "de" {
		t.Errorf("Variable(lang) = %q, want de", v)
	}
}

func TestUnindent(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a", "a"},
		{"  a\n  b", "a\nb"},
		{"\t\ta\n\tb", "\ta\nb"},
		{"\n\n  a\n\n    b\n  \n", "a\n\n  b"},
	}
	for _, tt := range tests {
		if got := unindent(tt.in); got != tt.want {
			t.Errorf("unindent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
