package record

import (
	"strconv"
	"strings"
)

// FilterMode selects which field subset a view shows.
type FilterMode string

const (
	FilterAll      FilterMode = "all"
	FilterCustom   FilterMode = "custom"
	FilterStandard FilterMode = "standard"
)

// NormalizeMode maps arbitrary input to a valid mode; anything unknown
// falls back to FilterAll.
func NormalizeMode(mode string) FilterMode {
	switch FilterMode(mode) {
	case FilterCustom:
		return FilterCustom
	case FilterStandard:
		return FilterStandard
	}
	return FilterAll
}

var customPrefixes = []string{
	"custbody", "custcol", "custitem", "custevent", "custentity", "custrecord",
}

// IsCustomField reports whether a field key names a tenant-defined field.
func IsCustomField(key string) bool {
	k := strings.ToLower(key)
	for _, prefix := range customPrefixes {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

func keep(key string, mode FilterMode) bool {
	switch mode {
	case FilterCustom:
		return IsCustomField(key)
	case FilterStandard:
		return !IsCustomField(key)
	}
	return true
}

// FilterFields returns the fields matching mode. The custom and standard
// subsets partition the input; FilterAll returns the input unchanged.
func FilterFields(fields *Fields, mode FilterMode) *Fields {
	if mode == FilterAll {
		return fields
	}
	out := NewFields()
	fields.Range(func(key string, v Value) bool {
		if keep(key, mode) {
			out.Set(key, v)
		}
		return true
	})
	return out
}

// FilterSublists removes non-matching columns from every line. Lines are
// never dropped, so row positions stay stable across modes; a sublist is
// omitted only when all of its lines end up empty.
func FilterSublists(sublists *Sublists, mode FilterMode) *Sublists {
	if mode == FilterAll {
		return sublists
	}
	out := NewSublists()
	sublists.Range(func(name string, lines []Line) bool {
		filtered := make([]Line, 0, len(lines))
		hasContent := false
		for _, line := range lines {
			fl := NewFields()
			line.Range(func(key string, v Value) bool {
				if keep(key, mode) {
					fl.Set(key, v)
				}
				return true
			})
			if fl.Len() > 0 {
				hasContent = true
			}
			filtered = append(filtered, fl)
		}
		if hasContent {
			out.Set(name, filtered)
		}
		return true
	})
	return out
}

// FilterRecord applies mode to both body fields and sublists, leaving the
// input record untouched.
func FilterRecord(r *Record, mode FilterMode) *Record {
	return &Record{
		RecordType: r.RecordType,
		ID:         r.ID,
		BodyFields: FilterFields(r.BodyFields, mode),
		Sublists:   FilterSublists(r.Sublists, mode),
	}
}

// SearchFields deep-filters a field mapping by a case-insensitive term.
// Leaf entries survive when their key or stringified value contains the
// term; structured entries survive when any descendant does.
func SearchFields(fields *Fields, term string) *Fields {
	return searchObject(fields, strings.ToUpper(term))
}

func searchObject(fields *Fields, termUpper string) *Fields {
	out := NewFields()
	fields.Range(func(key string, v Value) bool {
		if matched, kept := searchEntry(key, v, termUpper); matched {
			out.Set(key, kept)
		}
		return true
	})
	return out
}

func searchEntry(key string, v Value, termUpper string) (bool, Value) {
	switch val := v.(type) {
	case *Fields:
		filtered := searchObject(val, termUpper)
		return filtered.Len() > 0, filtered
	case Array:
		kept := Array{}
		for i, elem := range val {
			// Array elements key on their position, as the tree view shows them.
			if matched, sub := searchEntry(strconv.Itoa(i), elem, termUpper); matched {
				kept = append(kept, sub)
			}
		}
		return len(kept) > 0, kept
	default:
		if strings.Contains(strings.ToUpper(key), termUpper) {
			return true, v
		}
		return strings.Contains(strings.ToUpper(Stringify(v)), termUpper), v
	}
}

// SearchRecord deep-filters body fields and sublist lines. Lines that lose
// every entry are dropped, and with them any sublist left without lines.
func SearchRecord(r *Record, term string) *Record {
	termUpper := strings.ToUpper(term)
	out := &Record{
		RecordType: r.RecordType,
		ID:         r.ID,
		BodyFields: searchObject(r.BodyFields, termUpper),
		Sublists:   NewSublists(),
	}
	r.Sublists.Range(func(name string, lines []Line) bool {
		nameMatch := strings.Contains(strings.ToUpper(name), termUpper)
		kept := []Line{}
		for _, line := range lines {
			if nameMatch {
				kept = append(kept, line)
				continue
			}
			filtered := searchObject(line, termUpper)
			if filtered.Len() > 0 {
				kept = append(kept, filtered)
			}
		}
		if len(kept) > 0 {
			out.Sublists.Set(name, kept)
		}
		return true
	})
	return out
}
