// Package render chooses the response representation from the Accept header and serializes payloads
// as JSON (default), flat XML, or CSV.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"

	"github.com/beevik/etree"

	"central-lost-found/backend/internal/item/domain"
)

// Content types produced by Render.
const (
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "application/xml; charset=utf-8"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// Format is a negotiated representation.
type Format int

const (
	FormatJSON Format = iota
	FormatXML
	FormatCSV
)

// Negotiate picks the format by case-insensitive substring match on accept. XML wins over CSV when both
// appear. Quality values are not considered.
func Negotiate(accept string) Format {
	a := strings.ToLower(accept)
	switch {
	case strings.Contains(a, "application/xml"), strings.Contains(a, "text/xml"):
		return FormatXML
	case strings.Contains(a, "text/csv"):
		return FormatCSV
	default:
		return FormatJSON
	}
}

// Payload carries one result in every representation a handler can offer.
type Payload struct {
	// JSON is marshaled as-is.
	JSON any
	// RootTag names the XML document element.
	RootTag string
	// Fields are the XML children of the root, in order. Values are written as text.
	Fields [][2]string
	// Header and Rows form the CSV body. A payload without Header is never rendered as CSV.
	Header []string
	Rows   [][]string
}

// Render serializes p in the format negotiated from accept.
func Render(p Payload, accept string) (body []byte, contentType string, err error) {
	switch Negotiate(accept) {
	case FormatXML:
		body, err = XML(p.RootTag, p.Fields)
		return body, ContentTypeXML, err
	case FormatCSV:
		if len(p.Header) > 0 {
			body, err = CSV(p.Header, p.Rows)
			return body, ContentTypeCSV, err
		}
	}
	body, err = json.Marshal(p.JSON)
	return body, ContentTypeJSON, err
}

// XML writes fields as children of a single rootTag element. Nested structure is not supported.
func XML(rootTag string, fields [][2]string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(rootTag)
	for _, f := range fields {
		root.CreateElement(f[0]).SetText(f[1])
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}

// CSV writes a header row followed by rows.
func CSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Items builds the payload for a list of items: XML is the fields of every item, flattened in order
// under rootTag; CSV has one row per item.
func Items(rootTag string, items []*domain.FoundItem, jsonValue any) Payload {
	p := Payload{JSON: jsonValue, RootTag: rootTag, Header: ItemHeader()}
	for _, it := range items {
		fields := it.Fields()
		p.Fields = append(p.Fields, fields...)
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = f[1]
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// Item builds the payload for a single item.
func Item(rootTag string, item *domain.FoundItem, jsonValue any) Payload {
	return Items(rootTag, []*domain.FoundItem{item}, jsonValue)
}

// ItemHeader returns the item field names in export order.
func ItemHeader() []string {
	var zero domain.FoundItem
	fields := zero.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f[0]
	}
	return out
}

// Map builds a payload from ordered key/value pairs, for small non-item results such as the import summary.
func Map(rootTag string, fields [][2]string, jsonValue any) Payload {
	return Payload{JSON: jsonValue, RootTag: rootTag, Fields: fields}
}
