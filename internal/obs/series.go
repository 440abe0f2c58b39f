package obs

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies the element type of a Series.
type Kind int

const (
	Float Kind = iota
	String
	Time
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case String:
		return "string"
	case Time:
		return "time"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Series is a single named, typed column. Exactly one of the backing slices
// is populated, according to Kind. A Series built by a constructor owns a
// copy of its input; a Series produced by Take shares storage with fresh
// backing slices, so neither path can alias caller data that later mutates.
type Series struct {
	name   string
	kind   Kind
	floats []float64
	strs   []string
	times  []time.Time
}

// NewFloatSeries builds a float column. NaN marks a missing value.
func NewFloatSeries(name string, values []float64) *Series {
	v := make([]float64, len(values))
	copy(v, values)
	return &Series{name: name, kind: Float, floats: v}
}

// NewStringSeries builds a string column. The empty string marks a missing
// value.
func NewStringSeries(name string, values []string) *Series {
	v := make([]string, len(values))
	copy(v, values)
	return &Series{name: name, kind: String, strs: v}
}

// NewTimeSeries builds a timestamp column. The zero time marks a missing
// value.
func NewTimeSeries(name string, values []time.Time) *Series {
	v := make([]time.Time, len(values))
	copy(v, values)
	return &Series{name: name, kind: Time, times: v}
}

func (s *Series) Name() string { return s.name }
func (s *Series) Kind() Kind   { return s.kind }

func (s *Series) Len() int {
	switch s.kind {
	case Float:
		return len(s.floats)
	case String:
		return len(s.strs)
	default:
		return len(s.times)
	}
}

// FloatAt returns the float element at position i. It panics if the series
// is not a float series, mirroring slice indexing discipline.
func (s *Series) FloatAt(i int) float64 {
	s.mustKind(Float)
	return s.floats[i]
}

func (s *Series) StringAt(i int) string {
	s.mustKind(String)
	return s.strs[i]
}

func (s *Series) TimeAt(i int) time.Time {
	s.mustKind(Time)
	return s.times[i]
}

// Floats returns the backing float slice. Callers must treat it as
// read-only.
func (s *Series) Floats() []float64 {
	s.mustKind(Float)
	return s.floats
}

// Strings returns the backing string slice. Callers must treat it as
// read-only.
func (s *Series) Strings() []string {
	s.mustKind(String)
	return s.strs
}

// Times returns the backing time slice. Callers must treat it as read-only.
func (s *Series) Times() []time.Time {
	s.mustKind(Time)
	return s.times
}

// IsMissing reports whether the element at position i is the kind's missing
// marker.
func (s *Series) IsMissing(i int) bool {
	switch s.kind {
	case Float:
		return math.IsNaN(s.floats[i])
	case String:
		return s.strs[i] == ""
	default:
		return s.times[i].IsZero()
	}
}

// Take returns a new Series holding the elements at the given positions, in
// the given order.
func (s *Series) Take(positions []int) *Series {
	out := &Series{name: s.name, kind: s.kind}
	switch s.kind {
	case Float:
		out.floats = make([]float64, len(positions))
		for i, p := range positions {
			out.floats[i] = s.floats[p]
		}
	case String:
		out.strs = make([]string, len(positions))
		for i, p := range positions {
			out.strs[i] = s.strs[p]
		}
	default:
		out.times = make([]time.Time, len(positions))
		for i, p := range positions {
			out.times[i] = s.times[p]
		}
	}
	return out
}

// keyAt renders the element at position i as a grouping key fragment.
func (s *Series) keyAt(i int) string {
	switch s.kind {
	case Float:
		return strconv.FormatFloat(s.floats[i], 'g', -1, 64)
	case String:
		return s.strs[i]
	default:
		return s.times[i].Format(time.RFC3339Nano)
	}
}

func (s *Series) mustKind(k Kind) {
	if s.kind != k {
		panic(fmt.Sprintf("obs: series %q is %s, not %s", s.name, s.kind, k))
	}
}
