package qc

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"marineqc/internal/obs"
)

// Type is a structural type descriptor for a declared parameter. Accepts
// reports whether a resolved argument value satisfies the descriptor.
type Type interface {
	Accepts(v any) bool
	String() string
}

type kindType struct {
	name    string
	accepts func(v any) bool
}

func (t kindType) Accepts(v any) bool { return t.accepts(v) }
func (t kindType) String() string     { return t.name }

// Scalar descriptors. FloatType accepts any Go numeric literal, since
// battery files decode whole numbers as ints.
var (
	AnyType = Type(kindType{"any", func(any) bool { return true }})

	FloatType = Type(kindType{"float", func(v any) bool {
		switch v.(type) {
		case float64, float32, int, int32, int64:
			return true
		}
		return false
	}})

	IntType = Type(kindType{"int", func(v any) bool {
		switch n := v.(type) {
		case int, int32, int64:
			return true
		case float64:
			return n == float64(int64(n))
		}
		return false
	}})

	StringType = Type(kindType{"string", func(v any) bool {
		_, ok := v.(string)
		return ok
	}})

	BoolType = Type(kindType{"bool", func(v any) bool {
		_, ok := v.(bool)
		return ok
	}})

	TimeType = Type(kindType{"time", func(v any) bool {
		_, ok := v.(time.Time)
		return ok
	}})

	TableType = Type(kindType{"table", func(v any) bool {
		_, ok := v.(*obs.Table)
		return ok
	}})
)

type seriesType struct {
	kind obs.Kind
	any  bool
}

// SeriesOf accepts a column with elements of the given kind.
func SeriesOf(kind obs.Kind) Type { return seriesType{kind: kind} }

// SeriesType accepts a column of any element kind.
var SeriesType = Type(seriesType{any: true})

func (t seriesType) Accepts(v any) bool {
	s, ok := v.(*obs.Series)
	if !ok {
		return false
	}
	return t.any || s.Kind() == t.kind
}

func (t seriesType) String() string {
	if t.any {
		return "series"
	}
	return "series[" + t.kind.String() + "]"
}

type unionType struct {
	members []Type
}

// Union accepts a value that satisfies any member descriptor.
func Union(members ...Type) Type { return unionType{members: members} }

func (t unionType) Accepts(v any) bool {
	for _, m := range t.members {
		if m.Accepts(v) {
			return true
		}
	}
	return false
}

func (t unionType) String() string {
	parts := make([]string, len(t.members))
	for i, m := range t.members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

type enumType struct {
	values []any
}

// Enum accepts exactly the listed literal values.
func Enum(values ...any) Type { return enumType{values: values} }

func (t enumType) Accepts(v any) bool {
	for _, want := range t.values {
		if v == want {
			return true
		}
	}
	return false
}

func (t enumType) String() string {
	parts := make([]string, len(t.values))
	for i, v := range t.values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "one of " + strings.Join(parts, ", ")
}

type optionalType struct {
	elem Type
}

// Optional accepts nil in addition to the element descriptor.
func Optional(elem Type) Type { return optionalType{elem: elem} }

func (t optionalType) Accepts(v any) bool { return v == nil || t.elem.Accepts(v) }
func (t optionalType) String() string     { return t.elem.String() + " or nil" }

type listType struct {
	elem Type
}

// ListOf accepts a slice whose elements all satisfy the element descriptor.
func ListOf(elem Type) Type { return listType{elem: elem} }

func (t listType) Accepts(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if !t.elem.Accepts(rv.Index(i).Interface()) {
			return false
		}
	}
	return true
}

func (t listType) String() string { return "list of " + t.elem.String() }

type tupleType struct {
	elems    []Type
	variadic bool
}

// TupleOf accepts a slice of exactly len(elems) values, element-wise.
func TupleOf(elems ...Type) Type { return tupleType{elems: elems} }

// VariadicTuple accepts a slice of any length whose elements all satisfy
// the single element descriptor.
func VariadicTuple(elem Type) Type { return tupleType{elems: []Type{elem}, variadic: true} }

func (t tupleType) Accepts(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return false
	}
	if t.variadic {
		for i := 0; i < rv.Len(); i++ {
			if !t.elems[0].Accepts(rv.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	if rv.Len() != len(t.elems) {
		return false
	}
	for i, e := range t.elems {
		if !e.Accepts(rv.Index(i).Interface()) {
			return false
		}
	}
	return true
}

func (t tupleType) String() string {
	if t.variadic {
		return "tuple of " + t.elems[0].String() + "..."
	}
	parts := make([]string, len(t.elems))
	for i, e := range t.elems {
		parts[i] = e.String()
	}
	return "tuple of (" + strings.Join(parts, ", ") + ")"
}

type mapType struct {
	key, val Type
}

// MapOf accepts a map whose keys and values satisfy the given descriptors.
func MapOf(key, val Type) Type { return mapType{key: key, val: val} }

func (t mapType) Accepts(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return false
	}
	iter := rv.MapRange()
	for iter.Next() {
		if !t.key.Accepts(iter.Key().Interface()) || !t.val.Accepts(iter.Value().Interface()) {
			return false
		}
	}
	return true
}

func (t mapType) String() string {
	return fmt.Sprintf("map of %s to %s", t.key, t.val)
}
