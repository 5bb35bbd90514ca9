package record

import (
	"bytes"
	"encoding/json"
)

// Value is the decoded form of one XML field node. It is a closed sum:
// Scalar, *Fields (object), or Array. Arrays only arise from repeated
// sibling tags; a single occurrence never becomes an Array.
type Value interface {
	fieldValue()
}

// Scalar is a plain string field value.
type Scalar string

func (Scalar) fieldValue() {}

// Array is an ordered sequence of values produced by duplicate sibling
// tags, in document order.
type Array []Value

func (Array) fieldValue() {}

// Fields is a string-keyed value mapping that preserves insertion order.
// It backs decoded objects, record body fields, and sublist lines.
type Fields struct {
	keys []string
	vals map[string]Value
}

// NewFields creates an empty ordered field mapping.
func NewFields() *Fields {
	return &Fields{vals: make(map[string]Value)}
}

func (f *Fields) fieldValue() {}

// Len returns the number of entries.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Get returns the value for key.
func (f *Fields) Get(key string) (Value, bool) {
	v, ok := f.vals[key]
	return v, ok
}

// Set stores a value. An existing key keeps its original position; only
// the value is replaced.
func (f *Fields) Set(key string, v Value) {
	if _, ok := f.vals[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.vals[key] = v
}

// SetIfAbsent stores a value only when the key is not present. Returns
// true when the value was stored.
func (f *Fields) SetIfAbsent(key string, v Value) bool {
	if _, ok := f.vals[key]; ok {
		return false
	}
	f.keys = append(f.keys, key)
	f.vals[key] = v
	return true
}

// Range calls fn for each entry in insertion order until fn returns false.
func (f *Fields) Range(fn func(key string, v Value) bool) {
	for _, k := range f.keys {
		if !fn(k, f.vals[k]) {
			return
		}
	}
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(f.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Line is one row of a sublist: column key to decoded value, in element
// order with attribute-derived keys filling gaps only.
type Line = *Fields

// Sublists maps sublist names to their lines, preserving decode order.
type Sublists struct {
	keys []string
	vals map[string][]Line
}

// NewSublists creates an empty ordered sublist mapping.
func NewSublists() *Sublists {
	return &Sublists{vals: make(map[string][]Line)}
}

// Len returns the number of sublists.
func (s *Sublists) Len() int {
	return len(s.keys)
}

// Names returns sublist names in decode order.
func (s *Sublists) Names() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Get returns the lines of the named sublist.
func (s *Sublists) Get(name string) ([]Line, bool) {
	v, ok := s.vals[name]
	return v, ok
}

// Set stores a sublist. A repeated name keeps its original position and
// replaces the lines, matching how the host's duplicate containers
// overwrite.
func (s *Sublists) Set(name string, lines []Line) {
	if _, ok := s.vals[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.vals[name] = lines
}

// Range calls fn for each sublist in order until fn returns false.
func (s *Sublists) Range(fn func(name string, lines []Line) bool) {
	for _, k := range s.keys {
		if !fn(k, s.vals[k]) {
			return
		}
	}
}

// MarshalJSON encodes the mapping as a JSON object in decode order.
func (s *Sublists) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(s.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Record is the decoded representation of one host business object. It is
// built once per fetch and never mutated; a new fetch replaces it
// entirely. Counts are derived from the current filter state rather than
// stored.
type Record struct {
	RecordType string
	ID         string
	BodyFields *Fields
	Sublists   *Sublists
}

// BodyFieldCount returns the number of body fields.
func (r *Record) BodyFieldCount() int {
	return r.BodyFields.Len()
}

// SublistCount returns the number of sublists.
func (r *Record) SublistCount() int {
	return r.Sublists.Len()
}

// Stringify renders a value the way the original views copy it: scalars
// verbatim, structured values as compact JSON.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case Scalar:
		return string(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Display renders a value for table cells. Objects carrying a _text or
// __text member render as "Label [value]"; other structured values as
// compact JSON.
func Display(v Value) string {
	obj, ok := v.(*Fields)
	if !ok {
		return Stringify(v)
	}
	label := displayLabel(obj)
	if label == "" {
		return Stringify(v)
	}
	raw := ""
	if inner, ok := obj.Get("_value"); ok {
		if s, ok := inner.(Scalar); ok {
			raw = string(s)
		}
	}
	return label + " [" + raw + "]"
}

func displayLabel(obj *Fields) string {
	for _, key := range []string{"_text", "__text"} {
		if v, ok := obj.Get(key); ok {
			if s, ok := v.(Scalar); ok && s != "" {
				return string(s)
			}
		}
	}
	return ""
}
