package matcher

// Matcher remembers the last match so selection can be stepped in and out
// of elements. Zero value is ready to use, it is not safe for concurrent use.
type Matcher struct {
	last *Pair
}

// Match finds pair around cursor and returns range to select, the same as
// FindPair followed by Selection.
func (m *Matcher) Match(text string, cursor int, syntax string) (Range, bool) {
	p, ok := FindPair(text, cursor, syntax)
	if !ok {
		return Range{}, false
	}
	m.last = p
	return p.Selection(cursor), true
}

// Last returns the most recent match, nil after Reset.
func (m *Matcher) Last() *Pair {
	return m.last
}

func (m *Matcher) Reset() {
	m.last = nil
}

// Balance moves selection one step outward (to element content, then to
// the whole element, then to its parent) or inward (from the whole element
// to its content, then to the first child element).
func (m *Matcher) Balance(text string, sel Range, syntax string, outward bool) (Range, bool) {
	if outward {
		return m.balanceOut(text, sel, syntax)
	}
	return m.balanceIn(text, sel, syntax)
}

func (m *Matcher) balanceOut(text string, sel Range, syntax string) (Range, bool) {
	for cursor := sel.Start; ; {
		p, ok := FindPair(text, cursor, syntax)
		if !ok {
			return Range{}, false
		}
		var candidates []Range
		if inner, ok := p.Inner(); ok {
			candidates = append(candidates, inner)
		}
		candidates = append(candidates, p.Range())
		for _, r := range candidates {
			if r.Covers(sel) && r != sel {
				m.last = p
				return r, true
			}
		}
		if p.Open.Range.Start >= cursor {
			return Range{}, false
		}
		cursor = p.Open.Range.Start
	}
}

func (m *Matcher) balanceIn(text string, sel Range, syntax string) (Range, bool) {
	p := m.last
	if p == nil || !p.matches(sel) {
		p = nil
		// inside the opening tag for the whole element, right after it for
		// the content
		for _, cursor := range []int{sel.Start + 1, sel.Start} {
			if found, ok := FindPair(text, cursor, syntax); ok && found.matches(sel) {
				p = found
				break
			}
		}
		if p == nil {
			return Range{}, false
		}
	}

	inner, ok := p.Inner()
	if !ok {
		return Range{}, false
	}
	if p.Range() == sel && inner.Len() > 0 {
		m.last = p
		return inner, true
	}

	// first child element inside content
	s := newScanner(text, syntax)
	for ix := inner.Start; ix < inner.End; ix++ {
		if text[ix] != '<' {
			continue
		}
		if t := s.startTag(ix); t != nil && t.Range.End <= inner.End {
			child, ok := FindPair(text, ix+1, syntax)
			if !ok || !inner.Covers(child.Range()) {
				return Range{}, false
			}
			m.last = child
			if child.Range() != inner {
				return child.Range(), true
			}
			// child fills the whole content, step into it right away
			if r, ok := child.Inner(); ok && r.Len() > 0 {
				return r, true
			}
			return Range{}, false
		}
	}
	return Range{}, false
}

func (p *Pair) matches(sel Range) bool {
	if p.Range() == sel {
		return true
	}
	inner, ok := p.Inner()
	return ok && inner == sel
}
