// Package matcher finds the element (or comment) enclosing a position in
// markup text. It does not parse documents: tags are recognized by a
// backward scan from the position for the nearest unclosed opening tag and
// a forward scan for its closing tag.
package matcher

import (
	"regexp"
	"strings"
)

// Range is a half-open byte range [Start, End) of the text.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Start
}

// Covers reports if o lies within r.
func (r Range) Covers(o Range) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// straddles reports if pos is strictly inside the range, so the character
// at pos and the one before it both belong to it.
func (r Range) straddles(pos int) bool {
	return r.Start < pos && pos < r.End
}

// Tag is a single tag found in the text.
type Tag struct {
	Name        string
	Range       Range
	SelfClosing bool
	// Implicit closing tag is not present in the text, it has zero width
	// and marks where element ends.
	Implicit bool
}

// Pair is a matched element: opening and closing tags. Self-closing
// elements and comments have no closing tag.
type Pair struct {
	Open    *Tag
	Close   *Tag
	Comment bool
}

// Range returns the whole element.
func (p *Pair) Range() Range {
	if p.Close == nil {
		return p.Open.Range
	}
	return Range{Start: p.Open.Range.Start, End: p.Close.Range.End}
}

// Inner returns the element content between its tags.
func (p *Pair) Inner() (Range, bool) {
	if p.Close == nil {
		return Range{}, false
	}
	return Range{Start: p.Open.Range.End, End: p.Close.Range.Start}, true
}

// Selection is what should be selected for the cursor: the whole element
// when cursor is inside one of its tags, its content otherwise. Cursor
// right before "<" or after ">" is not inside the tag.
func (p *Pair) Selection(cursor int) Range {
	if p.Close == nil {
		return p.Open.Range
	}
	if p.Open.Range.straddles(cursor) || p.Close.Range.straddles(cursor) {
		return p.Range()
	}
	r, _ := p.Inner()
	return r
}

var (
	reStartTag = regexp.MustCompile(`^<([\w:\-]+)((?:\s+[\w\-:]+(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^>\s]+))?)*)\s*(/?)>`)
	reEndTag   = regexp.MustCompile(`^</([\w:\-]+)[^>]*>`)
)

var voidElements = map[string]bool{
	"area": true, "base": true, "basefont": true, "br": true, "col": true,
	"command": true, "embed": true, "frame": true, "hr": true, "img": true,
	"input": true, "isindex": true, "keygen": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// closable elements may have their closing tag omitted in html.
var closableElements = map[string]bool{
	"li": true, "p": true, "td": true, "th": true, "tr": true, "dd": true,
	"dt": true, "thead": true, "tbody": true, "tfoot": true, "colgroup": true,
	"option": true,
}

type scanner struct {
	text  string
	lax   bool
	names func(string) string
}

// isStrict tells which syntaxes get xml rules: no void elements and every
// element must be explicitly closed.
func isStrict(syntax string) bool {
	switch syntax {
	case "xml", "xsl":
		return true
	}
	return false
}

func newScanner(text, syntax string) *scanner {
	s := &scanner{text: text, lax: !isStrict(syntax), names: func(n string) string { return n }}
	if s.lax {
		s.names = strings.ToLower
	}
	return s
}

func (s *scanner) startTag(at int) *Tag {
	m := reStartTag.FindStringSubmatchIndex(s.text[at:])
	if m == nil {
		return nil
	}
	name := s.names(s.text[at+m[2] : at+m[3]])
	return &Tag{
		Name:        name,
		Range:       Range{Start: at, End: at + m[1]},
		SelfClosing: m[7] > m[6] || s.lax && voidElements[name],
	}
}

func (s *scanner) endTag(at int) *Tag {
	m := reEndTag.FindStringSubmatchIndex(s.text[at:])
	if m == nil {
		return nil
	}
	return &Tag{
		Name:  s.names(s.text[at+m[2] : at+m[3]]),
		Range: Range{Start: at, End: at + m[1]},
	}
}

func (s *scanner) closable(name string) bool {
	return s.lax && closableElements[name]
}

// commentStart returns position of "<!--" before from, or -1.
func (s *scanner) commentStart(from int) int {
	return strings.LastIndex(s.text[:from], "<!--")
}

// commentEnd returns position right after "-->" following from. Comment
// which is never closed lasts till the end of text.
func (s *scanner) commentEnd(from int) int {
	if i := strings.Index(s.text[from:], "-->"); i >= 0 {
		return from + i + 3
	}
	return len(s.text)
}

func comment(start, end int) *Pair {
	return &Pair{Open: &Tag{Name: "!--", Range: Range{Start: start, End: end}}, Comment: true}
}

// FindPair finds element or comment enclosing cursor. Syntax selects rules:
// "xml" and "xsl" are strict, everything else is treated as html with void
// and optionally closed elements.
func FindPair(text string, cursor int, syntax string) (*Pair, bool) {
	if cursor < 0 || cursor > len(text) {
		return nil, false
	}
	s := newScanner(text, syntax)

	var (
		open, closing *Tag
		stack         []*Tag
		// seen[d] holds closable siblings met at stack depth d, an opening
		// tag with the same name is implicitly closed by them.
		seen = []map[string]bool{{}}
	)

	for ix := cursor - 1; ix >= 0 && open == nil; ix-- {
		switch {
		case text[ix] == '<':
			if t := s.endTag(ix); t != nil {
				if t.Range.straddles(cursor) {
					closing = t
				} else {
					stack = append(stack, t)
					seen = append(seen[:len(stack)], map[string]bool{})
				}
				continue
			}
			if t := s.startTag(ix); t != nil {
				switch {
				case t.SelfClosing:
					if t.Range.straddles(cursor) {
						return &Pair{Open: t}, true
					}
				case len(stack) > 0 && stack[len(stack)-1].Name == t.Name:
					stack = stack[:len(stack)-1]
					seen = seen[:len(stack)+1]
					seen[len(stack)][t.Name] = true
				case s.closable(t.Name) && (len(stack) > 0 || seen[len(stack)][t.Name]):
					// closed by parent end or by next sibling
					seen[len(stack)][t.Name] = true
				default:
					open = t
				}
				continue
			}
			if strings.HasPrefix(text[ix:], "<!--") {
				if end := s.commentEnd(ix + 4); end >= cursor {
					return comment(ix, end), true
				}
			}
		case text[ix] == '-' && strings.HasPrefix(text[ix:], "-->"):
			start := s.commentStart(ix)
			switch {
			case start < 0:
			case ix+3 > cursor:
				// cursor is inside "-->"
				return comment(start, ix+3), true
			default:
				ix = start
			}
		}
	}

	if open == nil {
		return nil, false
	}
	if closing != nil {
		return &Pair{Open: open, Close: closing}, true
	}

	stack = stack[:0]
	for ix := cursor; ix < len(text); ix++ {
		switch {
		case text[ix] == '<':
			if strings.HasPrefix(text[ix:], "<!--") {
				ix = s.commentEnd(ix+4) - 1
				continue
			}
			if t := s.startTag(ix); t != nil {
				if t.SelfClosing {
					continue
				}
				if s.closable(t.Name) {
					if len(stack) == 0 && t.Name == open.Name {
						return implicit(open, ix), true
					}
					if len(stack) > 0 && stack[len(stack)-1].Name == t.Name {
						stack = stack[:len(stack)-1]
					}
				}
				stack = append(stack, t)
				continue
			}
			if t := s.endTag(ix); t != nil {
				for len(stack) > 0 && stack[len(stack)-1].Name != t.Name && s.closable(stack[len(stack)-1].Name) {
					stack = stack[:len(stack)-1]
				}
				switch {
				case len(stack) > 0 && stack[len(stack)-1].Name == t.Name:
					stack = stack[:len(stack)-1]
				case len(stack) > 0:
					// stray closing tag inside, ignore it
				case t.Name == open.Name || !s.closable(open.Name):
					return &Pair{Open: open, Close: t}, true
				default:
					return implicit(open, ix), true
				}
			}
		case text[ix] == '-' && strings.HasPrefix(text[ix:], "-->"):
			// cursor was inside a comment holding markup
			if start := s.commentStart(ix); start >= 0 && start < cursor {
				return comment(start, ix+3), true
			}
		}
	}

	if s.closable(open.Name) {
		return implicit(open, len(text)), true
	}
	return nil, false
}

func implicit(open *Tag, at int) *Pair {
	return &Pair{Open: open, Close: &Tag{Name: open.Name, Range: Range{Start: at, End: at}, Implicit: true}}
}
