package abbr

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"zen/resources"
)

// term is a parsed leaf of abbreviation, before name resolution.
type term struct {
	name    string
	attrs   []resources.Attribute
	text    string
	hasText bool
	count   int
	byLine  bool
	plus    bool
}

func isNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	return strings.ContainsRune(":-_!$@%", r)
}

func readName(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isNameRune(r) {
			break
		}
		i += size
	}
	return i
}

// parseTerm parses term text, pos is the term offset in the abbreviation and
// is used for error reporting only.
func parseTerm(s string, pos int) (*term, error) {
	t := &term{count: 1}

	i := readName(s, 0)
	t.name = s[:i]

	for i < len(s) {
		switch c := s[i]; c {
		case '#', '.':
			end := readName(s, i+1)
			if end == i+1 {
				return nil, errorf(pos+i, "empty value after '%c'", c)
			}
			name := "id"
			if c == '.' {
				name = "class"
			}
			t.attrs = setAttribute(t.attrs, name, s[i+1:end])
			i = end
		case '[':
			end, err := parseAttributes(t, s, i, pos)
			if err != nil {
				return nil, err
			}
			i = end
		case '{':
			if t.hasText {
				return nil, errorf(pos+i, "duplicate text")
			}
			end, err := skipText(s, i)
			if err != nil {
				return nil, shift(err, pos)
			}
			t.text, t.hasText = unescapeText(s[i+1:end-1]), true
			i = end
		case '*':
			n, end, err := readCount(s, i+1)
			if err != nil {
				return nil, shift(err, pos)
			}
			if end == i+1 {
				t.byLine = true
			} else {
				t.count = n
			}
			i = end
			if i < len(s) && s[i] != '+' {
				return nil, errorf(pos+i, "unexpected character %q after multiplier", s[i])
			}
		case '+':
			if i != len(s)-1 {
				return nil, errorf(pos+i, "unexpected '+'")
			}
			t.plus = true
			i++
		default:
			r, _ := utf8.DecodeRuneInString(s[i:])
			return nil, errorf(pos+i, "unexpected character %q", r)
		}
	}

	if t.name == "" && len(t.attrs) == 0 && !t.hasText {
		return nil, errorf(pos, "empty term")
	}
	return t, nil
}

// parseAttributes parses "[key=value key2 key3='v']" starting at i and
// returns position after the closing bracket.
func parseAttributes(t *term, s string, i, pos int) (int, error) {
	start := i
	i++
	for {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			return 0, errorf(pos+start, "unterminated '['")
		}
		if s[i] == ']' {
			return i + 1, nil
		}

		k := i
		for i < len(s) && s[i] != '=' && s[i] != ']' && !isSpace(s[i]) {
			if s[i] == '"' || s[i] == '\'' {
				return 0, errorf(pos+i, "unexpected quote in attribute name")
			}
			i++
		}
		key := s[k:i]
		if key == "" {
			return 0, errorf(pos+i, "missing attribute name")
		}

		var value string
		if i < len(s) && s[i] == '=' {
			i++
			if i < len(s) && (s[i] == '"' || s[i] == '\'') {
				q := s[i]
				end := strings.IndexByte(s[i+1:], q)
				if end < 0 {
					return 0, errorf(pos+i, "unterminated quoted value")
				}
				value = s[i+1 : i+1+end]
				i += end + 2
			} else {
				v := i
				for i < len(s) && s[i] != ']' && !isSpace(s[i]) {
					i++
				}
				value = s[v:i]
			}
		}
		t.attrs = setAttribute(t.attrs, key, value)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '{' || s[i+1] == '}') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// setAttribute assigns value keeping position of an existing attribute. Class
// values accumulate separated by a single space, all others are replaced.
func setAttribute(attrs []resources.Attribute, name, value string) []resources.Attribute {
	for i := range attrs {
		if attrs[i].Name != name {
			continue
		}
		if name == "class" {
			attrs[i].Value = joinClasses(attrs[i].Value, value)
		} else {
			attrs[i].Value = value
		}
		return attrs
	}
	if name == "class" {
		value = joinClasses("", value)
	}
	return append(attrs, resources.Attribute{Name: name, Value: value})
}

func joinClasses(a, b string) string {
	return strings.Join(append(strings.Fields(a), strings.Fields(b)...), " ")
}

// MergeAttributes applies attributes from src over dst using the same rules
// as repeated attributes inside single term.
func MergeAttributes(dst, src []resources.Attribute) []resources.Attribute {
	for _, a := range src {
		dst = setAttribute(dst, a.Name, a.Value)
	}
	return dst
}
