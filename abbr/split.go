package abbr

import (
	"strconv"
)

// item is a single member of a group: either a term or a nested group,
// joined to the previous member with op ('>' or '+', zero for the first one).
type item struct {
	op    byte
	pos   int
	term  string
	group *group
}

type group struct {
	pos   int
	count int
	items []item
}

// splitGroups breaks abbreviation into groups following parentheses. Terms
// are kept as raw text and parsed later.
func splitGroups(s string) (*group, error) {
	if s == "" {
		return nil, errorf(0, "empty abbreviation")
	}

	root := &group{count: 1}
	stack := []*group{root}
	var op byte
	expectItem := true

	for i := 0; i < len(s); {
		cur := stack[len(stack)-1]
		switch c := s[i]; c {
		case '(':
			if !expectItem {
				return nil, errorf(i, "unexpected '('")
			}
			g := &group{pos: i, count: 1}
			cur.items = append(cur.items, item{op: op, pos: i, group: g})
			stack = append(stack, g)
			op, expectItem = 0, true
			i++
		case ')':
			if len(stack) == 1 {
				return nil, errorf(i, "unexpected ')'")
			}
			if expectItem {
				if len(cur.items) == 0 {
					return nil, errorf(i, "empty group")
				}
				return nil, errorf(i, "missing term after operator")
			}
			stack = stack[:len(stack)-1]
			i++
			if i < len(s) && s[i] == '*' {
				n, end, err := readCount(s, i+1)
				if err != nil {
					return nil, err
				}
				if end == i+1 {
					return nil, errorf(i, "group multiplier requires a number")
				}
				cur.count, i = n, end
			}
			expectItem = false
		case '+', '>':
			if expectItem {
				return nil, errorf(i, "unexpected operator '%c'", c)
			}
			op, expectItem = c, true
			i++
		default:
			if !expectItem {
				return nil, errorf(i, "unexpected character %q", c)
			}
			end, err := scanTerm(s, i)
			if err != nil {
				return nil, err
			}
			cur.items = append(cur.items, item{op: op, pos: i, term: s[i:end]})
			op, expectItem = 0, false
			i = end
		}
	}

	if len(stack) > 1 {
		return nil, errorf(stack[len(stack)-1].pos, "unterminated '('")
	}
	if expectItem {
		return nil, errorf(len(s), "missing term after operator")
	}
	return root, nil
}

// scanTerm returns end of the term starting at i. Brackets and braces are
// skipped as a whole so operators inside them do not split the term. A '+'
// which is not followed by another item belongs to the term ("ul+").
func scanTerm(s string, i int) (int, error) {
	for i < len(s) {
		switch s[i] {
		case '[':
			end, err := skipAttributes(s, i)
			if err != nil {
				return 0, err
			}
			i = end
		case '{':
			end, err := skipText(s, i)
			if err != nil {
				return 0, err
			}
			i = end
		case '>', '(', ')':
			return i, nil
		case '+':
			if i+1 < len(s) && !isBoundary(s[i+1]) {
				return i, nil
			}
			i++
		default:
			i++
		}
	}
	return i, nil
}

func isBoundary(c byte) bool {
	return c == '+' || c == '>' || c == ')'
}

// skipAttributes returns position after the ']' closing attribute list
// opened at i, honoring quoted values.
func skipAttributes(s string, i int) (int, error) {
	start := i
	var quote byte
	for i++; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ']':
			return i + 1, nil
		}
	}
	if quote != 0 {
		return 0, errorf(start, "unterminated quoted value")
	}
	return 0, errorf(start, "unterminated '['")
}

// skipText returns position after the '}' closing text opened at i. Braces
// nest, "\}" does not close.
func skipText(s string, i int) (int, error) {
	start, depth := i, 0
	for ; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, errorf(start, "unterminated '{'")
}

// readCount reads decimal number at i. When there are no digits it returns
// i as end and no error.
func readCount(s string, i int) (int, int, error) {
	end := i
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == i {
		return 0, i, nil
	}
	n, err := strconv.Atoi(s[i:end])
	if err != nil {
		return 0, 0, errorf(i, "bad multiplier %q", s[i:end])
	}
	if n == 0 {
		return 0, 0, errorf(i, "zero multiplier")
	}
	return n, end, nil
}
