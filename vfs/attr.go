package vfs

import (
	"strconv"
	"strings"
	"time"
)

// FileType is the tagged variant of what a handle names, spec §3.
type FileType int

// File types.
const (
	TypeUnknown FileType = iota
	TypeRegular
	TypeDirectory
	TypeSymbolicLink
	TypeSpecial
	TypeShortcut
	TypeMountable
)

func (t FileType) String() string {
	switch t {
	case TypeRegular:
		return "regular"
	case TypeDirectory:
		return "directory"
	case TypeSymbolicLink:
		return "symlink"
	case TypeSpecial:
		return "special"
	case TypeShortcut:
		return "shortcut"
	case TypeMountable:
		return "mountable"
	default:
		return "unknown"
	}
}

// Well-known namespaced attribute keys, grounded on the teacher's
// fs.Metadata keys (mtime/atime/btime seen in backend/local/metadata.go)
// generalized to the richer standard::/time::/unix::/xattr:: namespaces
// spec §3 names.
const (
	AttrStandardName        = "standard::name"
	AttrStandardDisplayName = "standard::display-name"
	AttrStandardType        = "standard::type"
	AttrStandardSize        = "standard::size"
	AttrStandardIsSymlink   = "standard::is-symlink"
	AttrStandardSymlinkTgt  = "standard::symlink-target"
	AttrTimeModified        = "time::modified"
	AttrTimeAccessed        = "time::accessed"
	AttrTimeCreated         = "time::created"
	AttrUnixMode            = "unix::mode"
	AttrUnixUID             = "unix::uid"
	AttrUnixGID             = "unix::gid"
	AttrUnixDevice          = "unix::device"
	AttrXattrPrefix         = "xattr::"
)

// Value is the closed union of typed attribute values spec §3 allows:
// string, []string, []byte, bool, uint32, int32, uint64, int64.
type Value struct {
	kind valueKind
	s    string
	ss   []string
	b    []byte
	bl   bool
	u32  uint32
	i32  int32
	u64  uint64
	i64  int64
}

type valueKind int

const (
	valueNone valueKind = iota
	valueString
	valueStringList
	valueBytes
	valueBool
	valueU32
	valueI32
	valueU64
	valueI64
)

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: valueString, s: s} }

// StringListValue wraps a list of strings.
func StringListValue(ss []string) Value { return Value{kind: valueStringList, ss: ss} }

// BytesValue wraps a byte string.
func BytesValue(b []byte) Value { return Value{kind: valueBytes, b: b} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: valueBool, bl: b} }

// Uint32Value wraps a u32.
func Uint32Value(v uint32) Value { return Value{kind: valueU32, u32: v} }

// Int32Value wraps an i32.
func Int32Value(v int32) Value { return Value{kind: valueI32, i32: v} }

// Uint64Value wraps a u64.
func Uint64Value(v uint64) Value { return Value{kind: valueU64, u64: v} }

// Int64Value wraps an i64.
func Int64Value(v int64) Value { return Value{kind: valueI64, i64: v} }

// TimeValue wraps a time.Time as an i64 unix-nanosecond value, the
// representation used by AttrTime* keys.
func TimeValue(t time.Time) Value { return Int64Value(t.UnixNano()) }

// String returns the value as a string for display, regardless of kind.
func (v Value) String() string {
	switch v.kind {
	case valueString:
		return v.s
	case valueStringList:
		return strings.Join(v.ss, ",")
	case valueBytes:
		return string(v.b)
	case valueBool:
		return strconv.FormatBool(v.bl)
	case valueU32:
		return strconv.FormatUint(uint64(v.u32), 10)
	case valueI32:
		return strconv.FormatInt(int64(v.i32), 10)
	case valueU64:
		return strconv.FormatUint(v.u64, 10)
	case valueI64:
		return strconv.FormatInt(v.i64, 10)
	default:
		return ""
	}
}

// AsString returns the string form of the value and whether it was
// actually stored as a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == valueString }

// AsStringList returns the []string form and whether it was a list.
func (v Value) AsStringList() ([]string, bool) { return v.ss, v.kind == valueStringList }

// AsBytes returns the []byte form and whether it was stored as bytes.
func (v Value) AsBytes() ([]byte, bool) { return v.b, v.kind == valueBytes }

// AsBool returns the bool form and whether it was stored as a bool.
func (v Value) AsBool() (bool, bool) { return v.bl, v.kind == valueBool }

// AsUint32 returns the uint32 form and whether it was stored as one.
func (v Value) AsUint32() (uint32, bool) { return v.u32, v.kind == valueU32 }

// AsInt32 returns the int32 form and whether it was stored as one.
func (v Value) AsInt32() (int32, bool) { return v.i32, v.kind == valueI32 }

// AsUint64 returns the uint64 form and whether it was stored as one.
func (v Value) AsUint64() (uint64, bool) { return v.u64, v.kind == valueU64 }

// AsInt64 returns the int64 form and whether it was stored as one.
func (v Value) AsInt64() (int64, bool) { return v.i64, v.kind == valueI64 }

// AsTime interprets the value as unix nanoseconds.
func (v Value) AsTime() (time.Time, bool) {
	n, ok := v.AsInt64()
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(0, n), true
}

// Attrs is a sparse, typed attribute bag keyed by namespaced strings
// (spec §3), e.g. "standard::name", "unix::mode", "xattr::user.foo".
type Attrs map[string]Value

// NewAttrs allocates an empty bag.
func NewAttrs() Attrs { return make(Attrs) }

// Get retrieves an attribute, reporting whether it was present.
func (a Attrs) Get(key string) (Value, bool) {
	v, ok := a[key]
	return v, ok
}

// Set stores an attribute.
func (a Attrs) Set(key string, v Value) { a[key] = v }

// GetString is a convenience accessor for AttrStandardName-shaped keys.
func (a Attrs) GetString(key string) string {
	v, ok := a[key]
	if !ok {
		return ""
	}
	s, _ := v.AsString()
	return s
}

// GetTime is a convenience accessor for time::* keys.
func (a Attrs) GetTime(key string) time.Time {
	v, ok := a[key]
	if !ok {
		return time.Time{}
	}
	t, _ := v.AsTime()
	return t
}

// GetSize is a convenience accessor for standard::size.
func (a Attrs) GetSize() int64 {
	v, ok := a[AttrStandardSize]
	if !ok {
		return 0
	}
	n, _ := v.AsInt64()
	return n
}

// GetType is a convenience accessor for standard::type.
func (a Attrs) GetType() FileType {
	v, ok := a[AttrStandardType]
	if !ok {
		return TypeUnknown
	}
	n, _ := v.AsInt32()
	return FileType(n)
}

// SetType stores standard::type.
func (a Attrs) SetType(t FileType) { a.Set(AttrStandardType, Int32Value(int32(t))) }

// Matches reports whether key satisfies one of the glob-like attribute
// patterns spec §3 describes: a literal key, "namespace::*", or a
// comma-separated list of either.
func Matches(key string, patterns string) bool {
	if patterns == "" {
		return false
	}
	for _, pat := range strings.Split(patterns, ",") {
		pat = strings.TrimSpace(pat)
		if pat == "*" {
			return true
		}
		if strings.HasSuffix(pat, "::*") {
			if strings.HasPrefix(key, pat[:len(pat)-1]) {
				return true
			}
			continue
		}
		if pat == key {
			return true
		}
	}
	return false
}
