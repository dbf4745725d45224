// Package sanitize scrubs free-text fields before they are stored.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Redacted replaces national ID numbers (PESEL, 11 digits) found in free text.
const Redacted = "[REDACTED]"

// peselLength is the exact run length that is redacted; longer or shorter digit runs are kept.
const peselLength = 11

var digitRun = regexp.MustCompile(`[0-9]+`)

// Text replaces every maximal run of exactly 11 ASCII digits with Redacted.
// Empty input is returned unchanged. Text is idempotent since Redacted holds no digits.
func Text(s string) string {
	if s == "" {
		return s
	}
	return digitRun.ReplaceAllStringFunc(s, func(run string) string {
		if len(run) == peselLength {
			return Redacted
		}
		return run
	})
}

// Optional applies Text to a nullable field.
func Optional(s *string) *string {
	if s == nil {
		return nil
	}
	out := Text(*s)
	return &out
}

// HTMLToText flattens an HTML fragment (as found in feed descriptions) to plain text with
// collapsed whitespace. Input without markup is only whitespace-collapsed.
func HTMLToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	var sb strings.Builder
	collectText(doc, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
