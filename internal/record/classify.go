package record

import (
	"regexp"
	"strings"
)

// FieldType is the inferred display type of one field.
type FieldType string

const (
	TypeCheckbox    FieldType = "checkbox"
	TypeDate        FieldType = "date"
	TypeDatetime    FieldType = "datetime"
	TypeSelect      FieldType = "select"
	TypeMultiselect FieldType = "multiselect"
	TypeObject      FieldType = "object"
	TypeCurrency    FieldType = "currency"
	TypeNumber      FieldType = "number"
	TypeEmail       FieldType = "email"
	TypeURL         FieldType = "url"
	TypeID          FieldType = "id"
	TypeText        FieldType = "text"
)

var (
	datePattern     = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`)
	datetimePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T`)
	currencyPattern = regexp.MustCompile(`^-?\d+\.\d{2}$`)
	numberPattern   = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlPattern      = regexp.MustCompile(`^https?://`)
)

// Classify infers a field's type from its key and decoded value. Pure and
// deterministic; callers re-classify on demand rather than caching types
// on the Record.
//
// Heuristic cascade, first match wins. The currency rule skips keys
// containing "id" so zero-padded identifiers don't read as amounts; keys
// that name an id claim plain numerics before the general number rule.
func Classify(key string, value Value) FieldType {
	k := strings.ToLower(key)

	switch v := value.(type) {
	case nil:
		return TypeText
	case Array:
		return TypeMultiselect
	case *Fields:
		if truthyMember(v, "_text") || truthyMember(v, "__text") {
			return TypeSelect
		}
		return TypeObject
	case Scalar:
		return classifyScalar(k, string(v))
	}
	return TypeText
}

func classifyScalar(k, s string) FieldType {
	switch {
	case s == "T" || s == "F":
		return TypeCheckbox
	case datePattern.MatchString(s):
		return TypeDate
	case datetimePattern.MatchString(s):
		return TypeDatetime
	case currencyPattern.MatchString(s) && !strings.Contains(k, "id"):
		return TypeCurrency
	case numberPattern.MatchString(s) && len(s) < 15 && !isIDKey(k):
		return TypeNumber
	case emailPattern.MatchString(s):
		return TypeEmail
	case urlPattern.MatchString(s):
		return TypeURL
	case isIDKey(k):
		return TypeID
	}
	return TypeText
}

func isIDKey(k string) bool {
	return strings.HasSuffix(k, "id") || k == "id" || k == "_id"
}

// truthyMember reports whether obj carries key with a non-empty value.
// Empty scalars don't count; any structured member does.
func truthyMember(obj *Fields, key string) bool {
	v, ok := obj.Get(key)
	if !ok {
		return false
	}
	if s, isScalar := v.(Scalar); isScalar {
		return s != ""
	}
	return v != nil
}

var typeIcons = map[FieldType]string{
	TypeCheckbox:    "☑",
	TypeDate:        "📅",
	TypeDatetime:    "📅",
	TypeSelect:      "▼",
	TypeMultiselect: "▼▼",
	TypeCurrency:    "💲",
	TypeNumber:      "#",
	TypeEmail:       "✉",
	TypeURL:         "🔗",
	TypeID:          "🔑",
	TypeObject:      "{}",
	TypeText:        "Aa",
}

// TypeIcon returns the display glyph for a field type.
func TypeIcon(t FieldType) string {
	if icon, ok := typeIcons[t]; ok {
		return icon
	}
	return "Aa"
}
