package abbr

import "strings"

func isFilterChar(c byte) bool {
	return c == '|' || c == '-' || c == '_' ||
		c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// ParseFilters splits trailing filter list ("ul>li|e|c") from abbreviation.
// When there is no such suffix abbreviation is returned unchanged.
func ParseFilters(abbreviation string) (string, []string) {
	j := len(abbreviation)
	for j > 0 && isFilterChar(abbreviation[j-1]) {
		j--
	}
	k := strings.IndexByte(abbreviation[j:], '|')
	if k < 0 {
		return abbreviation, nil
	}
	k += j

	var filters []string
	for f := range strings.SplitSeq(abbreviation[k+1:], "|") {
		if f != "" {
			filters = append(filters, f)
		}
	}
	return abbreviation[:k], filters
}
