package ngspec

import (
	"fmt"
	"regexp"
	"strings"
)

// SchemaType is a property type as reported by DESCRIBE TAG/EDGE, e.g. "int64",
// "fixed_string(32)" or "geography(point)".
type SchemaType string

// Schema types.
const (
	TypeInt       SchemaType = "int"
	TypeInt8      SchemaType = "int8"
	TypeInt16     SchemaType = "int16"
	TypeInt32     SchemaType = "int32"
	TypeInt64     SchemaType = "int64"
	TypeFloat     SchemaType = "float"
	TypeDouble    SchemaType = "double"
	TypeBool      SchemaType = "bool"
	TypeString    SchemaType = "string"
	TypeDate      SchemaType = "date"
	TypeTime      SchemaType = "time"
	TypeDatetime  SchemaType = "datetime"
	TypeTimestamp SchemaType = "timestamp"
	TypeDuration  SchemaType = "duration"
	TypeGeography SchemaType = "geography"

	typeFixedStringPrefix = "fixed_string"
)

// base strips any parenthesised suffix and lowercases the type.
func (t SchemaType) base() string {
	s := strings.ToLower(strings.TrimSpace(string(t)))
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}

	return s
}

// IsString reports whether values of t are written as quoted strings.
func (t SchemaType) IsString() bool {
	b := t.base()
	return b == string(TypeString) || strings.HasPrefix(b, typeFixedStringPrefix)
}

// IsNumeric reports whether t is an integer or floating point type.
func (t SchemaType) IsNumeric() bool {
	switch SchemaType(t.base()) {
	case TypeInt, TypeInt8, TypeInt16, TypeInt32, TypeInt64, TypeFloat, TypeDouble:
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is an integer type.
func (t SchemaType) IsInteger() bool {
	return t.IsNumeric() && !t.IsFloat()
}

// IsFloat reports whether t is float or double.
func (t SchemaType) IsFloat() bool {
	b := SchemaType(t.base())
	return b == TypeFloat || b == TypeDouble
}

// IsTemporal reports whether t is one of the date/time types.
func (t SchemaType) IsTemporal() bool {
	switch SchemaType(t.base()) {
	case TypeDate, TypeTime, TypeDatetime, TypeTimestamp, TypeDuration:
		return true
	default:
		return false
	}
}

// IsBool reports whether t is bool.
func (t SchemaType) IsBool() bool {
	return SchemaType(t.base()) == TypeBool
}

// IsGeo reports whether t is a geography type.
func (t SchemaType) IsGeo() bool {
	return SchemaType(t.base()) == TypeGeography
}

// Known reports whether t belongs to the recognised type vocabulary.
func (t SchemaType) Known() bool {
	return t.IsString() || t.IsNumeric() || t.IsTemporal() || t.IsBool() || t.IsGeo()
}

// Is compares the base type case-insensitively, ignoring any length suffix.
func (t SchemaType) Is(other SchemaType) bool {
	return t.base() == other.base()
}

// CoerceImportType maps a schema-describe type onto the import engine's
// vocabulary. Only int64 differs.
func CoerceImportType(t SchemaType) SchemaType {
	if strings.EqualFold(string(t), string(TypeInt64)) {
		return TypeInt
	}

	return t
}

// VidType is the space-level vertex identifier type.
type VidType string

// VidTypeInt64 is the integer VID type.
const VidTypeInt64 VidType = "INT64"

var fixedStringVid = regexp.MustCompile(`(?i)^FIXED_STRING\(\d+\)$`)

// ParseVidType validates the two accepted VID type shapes.
func ParseVidType(s string) (VidType, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.EqualFold(s, string(VidTypeInt64)):
		return VidTypeInt64, nil
	case fixedStringVid.MatchString(s):
		return VidType(strings.ToUpper(s)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVidType, s)
	}
}

// IsInt64 reports whether VIDs are integers. Every other VID type is a string.
func (v VidType) IsInt64() bool {
	return strings.EqualFold(string(v), string(VidTypeInt64))
}

// ImportType is the VID type name used in the import job specification.
func (v VidType) ImportType() string {
	if v.IsInt64() {
		return "int"
	}

	return "string"
}
