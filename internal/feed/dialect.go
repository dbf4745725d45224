package feed

import (
	"strings"

	"github.com/beevik/etree"
)

// Dialect is the detected document format.
type Dialect string

const (
	DialectRSS     Dialect = "rss"
	DialectAtom    Dialect = "atom"
	DialectGeneric Dialect = "generic"
)

const noTitle = "No title"

// Record is one (title, description, date) triple extracted from a feed. Date is the raw text.
type Record struct {
	Title       string
	Description string
	Date        string
}

// dialectSpec pairs a root-tag matcher with the extractor for that dialect.
type dialectSpec struct {
	dialect Dialect
	match   func(rootTag string) bool
	extract func(root *etree.Element) []Record
}

// dialects are evaluated in order; the first match wins. Generic matches everything, so it must stay last.
var dialects = []dialectSpec{
	{
		dialect: DialectRSS,
		match:   func(tag string) bool { return strings.HasSuffix(strings.ToLower(tag), "rss") },
		extract: extractRSS,
	},
	{
		dialect: DialectAtom,
		match:   func(tag string) bool { return strings.Contains(tag, "feed") },
		extract: extractAtom,
	},
	{
		dialect: DialectGeneric,
		match:   func(string) bool { return true },
		extract: extractGeneric,
	},
}

// Extract detects the dialect of root and returns its records in document order.
func Extract(root *etree.Element) (Dialect, []Record) {
	tag := root.Tag
	for _, d := range dialects {
		if d.match(tag) {
			return d.dialect, d.extract(root)
		}
	}
	return DialectGeneric, nil
}

// atomNS is the Atom 1.0 namespace. Atom children may be unprefixed or bound to it under any prefix.
const atomNS = "http://www.w3.org/2005/Atom"

// nameMatch reports whether e is the element called local in a dialect's own vocabulary.
type nameMatch func(e *etree.Element, local string) bool

// unqualified matches elements without a prefix, so media:title or dc:title never stand in for title.
func unqualified(e *etree.Element, local string) bool {
	return e.Tag == local && e.Space == ""
}

func atomName(e *etree.Element, local string) bool {
	return e.Tag == local && (e.Space == "" || e.NamespaceURI() == atomNS)
}

func extractRSS(root *etree.Element) []Record {
	var out []Record
	for _, item := range descendants(root, unqualified, "item") {
		out = append(out, Record{
			Title:       firstText(item, unqualified, "title", noTitle),
			Description: firstText(item, unqualified, "description", ""),
			Date:        firstText(item, unqualified, "pubDate", ""),
		})
	}
	return out
}

func extractAtom(root *etree.Element) []Record {
	var out []Record
	for _, entry := range descendants(root, atomName, "entry") {
		out = append(out, Record{
			Title:       firstText(entry, atomName, "title", noTitle),
			Description: firstText(entry, atomName, "summary", firstText(entry, atomName, "content", "")),
			Date:        firstText(entry, atomName, "updated", firstText(entry, atomName, "published", "")),
		})
	}
	return out
}

func extractGeneric(root *etree.Element) []Record {
	var out []Record
	for _, row := range descendants(root, unqualified, "row") {
		out = append(out, Record{
			Title:       firstText(row, unqualified, "title", firstText(row, unqualified, "name", noTitle)),
			Description: firstText(row, unqualified, "description", ""),
			Date:        firstText(row, unqualified, "date", ""),
		})
	}
	return out
}

// descendants returns every element below root (root included) matching local, in document order.
func descendants(root *etree.Element, match nameMatch, local string) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if match(e, local) {
			out = append(out, e)
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(root)
	return out
}

// firstText returns the trimmed text of the first direct child matching local, or fallback when the child
// is missing or blank.
func firstText(e *etree.Element, match nameMatch, local, fallback string) string {
	for _, c := range e.ChildElements() {
		if !match(c, local) {
			continue
		}
		if t := strings.TrimSpace(elementText(c)); t != "" {
			return t
		}
		return fallback
	}
	return fallback
}

// elementText returns the character data of e. Atom type="xhtml" bodies are markup children, which are
// returned serialized for the importer to flatten.
func elementText(e *etree.Element) string {
	if e.SelectAttrValue("type", "") != "xhtml" {
		return e.Text()
	}
	doc := etree.NewDocument()
	for _, c := range e.ChildElements() {
		doc.AddChild(c.Copy())
	}
	out, err := doc.WriteToString()
	if err != nil {
		return e.Text()
	}
	return out
}
