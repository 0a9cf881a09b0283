package xnode

import (
	"bytes"
	"encoding/xml"
	"slices"
	"strings"

	"github.com/beevik/etree"
)

// Parse reads an XML document. Empty or whitespace-only input yields an empty
// document with no root.
func Parse(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &MalformedInputError{Reason: "not well-formed XML", Err: err}
	}
	return doc, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (*etree.Document, error) {
	return Parse([]byte(s))
}

// ParseElement parses s and returns its root element.
func ParseElement(s string) (*etree.Element, error) {
	doc, err := ParseString(s)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, &MalformedInputError{Reason: "no root element"}
	}
	return root, nil
}

// Outer returns the XML text of el including its own tag. The element is
// copied first, el is left attached to its tree.
func Outer(el *etree.Element) string {
	if el == nil {
		return ""
	}
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// IsLeaf reports whether el has no element children.
func IsLeaf(el *etree.Element) bool {
	for _, tok := range el.Child {
		if _, ok := tok.(*etree.Element); ok {
			return false
		}
	}
	return true
}

// DirectText returns the non-whitespace character data directly under el,
// trimmed and joined by a single space.
func DirectText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var parts []string
	for _, tok := range el.Child {
		cd, ok := tok.(*etree.CharData)
		if !ok {
			continue
		}
		if t := strings.TrimSpace(cd.Data); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Attrs returns el's attributes as a map keyed by full key (space:key).
func Attrs(el *etree.Element) map[string]string {
	res := make(map[string]string, len(el.Attr))
	for i := range el.Attr {
		a := &el.Attr[i]
		res[a.FullKey()] = a.Value
	}
	return res
}

// AttrKeys returns el's attribute full keys in document order.
func AttrKeys(el *etree.Element) []string {
	res := make([]string, 0, len(el.Attr))
	for i := range el.Attr {
		res = append(res, el.Attr[i].FullKey())
	}
	return res
}

// Canonical renders el in a form where two elements with the same content
// render identically: attributes sorted by key, whitespace-only character
// data dropped, remaining character data trimmed, comments and processing
// instructions dropped.
func Canonical(el *etree.Element) string {
	if el == nil {
		return ""
	}
	b := &strings.Builder{}
	writeCanonical(b, el)
	return b.String()
}

func writeCanonical(b *strings.Builder, el *etree.Element) {
	b.WriteByte('<')
	b.WriteString(el.FullTag())
	keys := AttrKeys(el)
	slices.Sort(keys)
	attrs := Attrs(el)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		xml.EscapeText(b, []byte(attrs[k]))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	for _, tok := range el.Child {
		switch x := tok.(type) {
		case *etree.Element:
			writeCanonical(b, x)
		case *etree.CharData:
			if t := strings.TrimSpace(x.Data); t != "" {
				xml.EscapeText(b, []byte(t))
			}
		}
	}
	b.WriteString("</")
	b.WriteString(el.FullTag())
	b.WriteByte('>')
}

// Equal reports whether a and b have the same canonical content. Two nil
// elements are equal.
func Equal(a, b *etree.Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Canonical(a) == Canonical(b)
}

// EqualXML compares two serialized elements canonically. Raw string equality
// short-circuits parsing.
func EqualXML(a, b string) bool {
	if a == b {
		return true
	}
	ea, err := ParseElement(a)
	if err != nil {
		return false
	}
	eb, err := ParseElement(b)
	if err != nil {
		return false
	}
	return Equal(ea, eb)
}
