package record

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
)

// Tag the host uses for repeated-line sublist containers.
const sublistTag = "machine"

var (
	// ErrEmptyPayload is returned when the fetched body is blank.
	ErrEmptyPayload = errors.New("no data returned")

	// ErrNoRecord is returned when the payload parses to no record element,
	// typically a login or error page served in place of the XML view.
	ErrNoRecord = errors.New("could not parse record data")
)

// Decode parses the host's XML export into a Record.
//
// Direct children of the record element become body fields keyed by tag
// with repeated tags promoted to arrays, except sublist containers, whose
// line descendants become Lines. The record element's own attributes
// (other than recordType/id) are appended as _<name> body fields without
// overwriting decoded ones.
func Decode(xmlText string) (*Record, error) {
	if strings.TrimSpace(xmlText) == "" {
		return nil, ErrEmptyPayload
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlText); err != nil {
		return nil, ErrNoRecord
	}

	el := doc.FindElement("//record")
	if el == nil {
		return nil, ErrNoRecord
	}

	rec := &Record{
		RecordType: el.SelectAttrValue("recordType", ""),
		ID:         el.SelectAttrValue("id", ""),
		BodyFields: NewFields(),
		Sublists:   NewSublists(),
	}

	for _, child := range el.ChildElements() {
		if child.Tag == sublistTag {
			name := child.SelectAttrValue("name", "")
			if name == "" {
				name = child.Tag
			}
			rec.Sublists.Set(name, decodeLines(child))
			continue
		}
		addPromoted(rec.BodyFields, child.Tag, DecodeNode(child))
	}

	for _, attr := range el.Attr {
		if attr.Key == "recordType" || attr.Key == "id" {
			continue
		}
		rec.BodyFields.SetIfAbsent("_"+attr.Key, Scalar(attr.Value))
	}

	return rec, nil
}

// decodeLines builds one Line per line descendant of a sublist container.
// Element children win over same-named line attributes; attributes only
// fill keys the elements did not produce.
func decodeLines(container *etree.Element) []Line {
	lines := []Line{}
	for _, ln := range container.FindElements(".//line") {
		line := NewFields()
		for _, col := range ln.ChildElements() {
			line.Set(col.Tag, DecodeNode(col))
		}
		for _, attr := range ln.Attr {
			line.SetIfAbsent(attr.Key, Scalar(attr.Value))
		}
		lines = append(lines, line)
	}
	return lines
}

// DecodeNode converts one XML element into a Value. The element's own tag
// is ignored; the result depends only on its children, attributes, and
// text.
//
// Three tiers: children present → object, with repeated sibling tags
// promoted to arrays and attributes added as _<name> entries that never
// overwrite; attributes only → {_value: text, _<name>: ...}, collapsed to
// the bare text when a single entry remains; otherwise the trimmed text.
func DecodeNode(el *etree.Element) Value {
	children := el.ChildElements()

	if len(children) > 0 {
		obj := NewFields()
		for _, child := range children {
			addPromoted(obj, child.Tag, DecodeNode(child))
		}
		for _, attr := range el.Attr {
			obj.SetIfAbsent("_"+attr.Key, Scalar(attr.Value))
		}
		return obj
	}

	if len(el.Attr) > 0 {
		obj := NewFields()
		obj.Set("_value", Scalar(textContent(el)))
		for _, attr := range el.Attr {
			obj.Set("_"+attr.Key, Scalar(attr.Value))
		}
		if obj.Len() == 1 {
			v, _ := obj.Get("_value")
			return v
		}
		return obj
	}

	return Scalar(textContent(el))
}

// addPromoted stores a decoded child under its tag, promoting repeated
// tags to an Array in document order. A tag seen once never becomes an
// Array.
func addPromoted(obj *Fields, tag string, parsed Value) {
	existing, ok := obj.Get(tag)
	if !ok {
		obj.Set(tag, parsed)
		return
	}
	if arr, isArr := existing.(Array); isArr {
		obj.Set(tag, append(arr, parsed))
		return
	}
	obj.Set(tag, Array{existing, parsed})
}

// textContent concatenates all character data under el, trimmed.
func textContent(el *etree.Element) string {
	var sb strings.Builder
	collectText(el, &sb)
	return strings.TrimSpace(sb.String())
}

func collectText(el *etree.Element, sb *strings.Builder) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			collectText(t, sb)
		}
	}
}
