package expand

import (
	"fmt"
	"strconv"
	"strings"

	"zen/tree"
)

// substitute resolves variables, counters and tab stops in every node of
// the serialized tree. Tab stop numbers are shifted by session offset which
// grows after each node by the largest number the node used.
func (e *Engine) substitute(s *Session, root *tree.Node) {
	root.Walk(func(n *tree.Node) {
		var top int
		n.Start = e.substituteText(n.Start, n.Index, s.offset, &top)
		n.Content = e.substituteText(n.Content, n.Index, s.offset, &top)
		n.End = e.substituteText(n.End, n.Index, s.offset, &top)
		s.offset += top
	})
}

func (e *Engine) substituteText(text string, index, offset int, top *int) string {
	if !strings.ContainsRune(text, '$') {
		return text
	}
	return replaceCounters(e.res.SubstituteVariables(text), index, offset, top)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// replaceCounters handles "$" sequences in a single pass:
//
//	$$$        -> index padded with zeros to the run length
//	$N, ${N}   -> tab stop N+offset, also ${N:default}
//	\$         -> $
//
// Tab stop 0 is the final position and is never shifted.
func replaceCounters(text string, index, offset int, top *int) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]
		if c == '\\' && i+1 < len(text) && text[i+1] == '$' {
			b.WriteByte('$')
			i += 2
			continue
		}
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}

		j := i
		for j < len(text) && text[j] == '$' {
			j++
		}
		run := j - i
		stop := j < len(text) && (isDigit(text[j]) || text[j] == '{')
		if stop {
			run--
		}
		if run > 0 {
			fmt.Fprintf(&b, "%0*d", run, index)
		}
		i = j
		if !stop {
			continue
		}

		braced := text[i] == '{'
		k := i
		if braced {
			k++
		}
		d := k
		for d < len(text) && isDigit(text[d]) {
			d++
		}
		if d == k || braced && (d == len(text) || text[d] != '}' && text[d] != ':') {
			// not a tab stop, "${name}" of unknown variable for example
			b.WriteByte('$')
			continue
		}

		n, _ := strconv.Atoi(text[k:d])
		*top = max(*top, n)
		if n > 0 {
			n += offset
		}
		b.WriteByte('$')
		if braced {
			b.WriteByte('{')
		}
		b.WriteString(strconv.Itoa(n))
		i = d
	}
	return b.String()
}

// ExtractCaret removes every caret placeholder from text and returns
// position of the first one, -1 when there is none.
func ExtractCaret(text, caret string) (string, int) {
	if caret == "" {
		return text, -1
	}
	pos := strings.Index(text, caret)
	if pos < 0 {
		return text, -1
	}
	return strings.ReplaceAll(text, caret, ""), pos
}
