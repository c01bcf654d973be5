// Package common keeps enumerations shared by configuration and output
// filters, so neither has to import the other.
package common

//go:generate go tool go-enum --marshal --names

// Letter case applied to tag or attribute names on output.
// ENUM(lower, upper)
type Case int

// Quote character used around attribute values.
// ENUM(single, double)
type Quotes int

func (q Quotes) Char() string {
	if q == QuotesSingle {
		return "'"
	}
	return `"`
}

// Line break policy around element tags: never, always or decided per
// element from its block/inline classification.
// ENUM(off, forced, auto)
type TagNewline int

// Notation for elements without content: html "<br>", xml "<br/>", xhtml "<br />".
// ENUM(html, xml, xhtml)
type SelfClosing int

// Closer returns what goes between the tag name (and attributes) and ">" of
// an element without content.
func (s SelfClosing) Closer() string {
	switch s {
	case SelfClosingXml:
		return "/"
	case SelfClosingXhtml:
		return " /"
	default:
		return ""
	}
}
