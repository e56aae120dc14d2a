package typecheck

import (
	"reflect"
	"strings"
	"time"
)

// Tag names the runtime type of a value, coarsely enough to be written
// down when a function is decorated.
type Tag int

const (
	Other Tag = iota
	Nil
	Bool
	Int // int, int8, int16, int32
	Int64
	Uint // every unsigned integer type
	Float
	String
	Bytes
	Slice
	Map
	Duration
	Time
	Error
	Any // matches every value
)

var tagNames = map[Tag]string{ //nolint:gochecknoglobals
	Other:    "other",
	Nil:      "nil",
	Bool:     "bool",
	Int:      "int",
	Int64:    "int64",
	Uint:     "uint",
	Float:    "float",
	String:   "string",
	Bytes:    "bytes",
	Slice:    "slice",
	Map:      "map",
	Duration: "duration",
	Time:     "time",
	Error:    "error",
	Any:      "any",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}

	return "other"
}

// Matches reports whether a value tagged actual satisfies t.
func (t Tag) Matches(actual Tag) bool {
	return t == Any || t == actual
}

// TagOf returns the tag of v. Slices and maps of any element type are
// tagged Slice and Map; named types whose kind has no tag are Other.
func TagOf(v any) Tag { //nolint:cyclop
	switch v.(type) {
	case nil:
		return Nil
	case bool:
		return Bool
	case int, int8, int16, int32:
		return Int
	case int64:
		return Int64
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return Uint
	case float32, float64:
		return Float
	case string:
		return String
	case []byte:
		return Bytes
	case time.Duration:
		return Duration
	case time.Time, *time.Time:
		return Time
	case error:
		return Error
	}

	switch reflect.TypeOf(v).Kind() { //nolint:exhaustive
	case reflect.Slice, reflect.Array:
		return Slice
	case reflect.Map:
		return Map
	default:
		return Other
	}
}

func tagsOf(values []any) []Tag {
	tags := make([]Tag, len(values))
	for i, v := range values {
		tags[i] = TagOf(v)
	}

	return tags
}

func matchAll(expected, actual []Tag) bool {
	if len(expected) != len(actual) {
		return false
	}

	for i := range expected {
		if !expected[i].Matches(actual[i]) {
			return false
		}
	}

	return true
}

func join(tags []Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.String()
	}

	return strings.Join(names, ", ")
}
