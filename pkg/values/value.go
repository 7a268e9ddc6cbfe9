package values

import (
	"strconv"
	"strings"
)

// Value is a static runtime value: a literal or a container of literals.
type Value interface {
	String() string
	value()
}

// Null is the null value.
type Null struct{}

// Boolean is a boolean value.
type Boolean bool

// Text is a text value.
type Text string

// List is an ordered list of values.
type List struct {
	Items []Value
}

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is an insertion-ordered map of values.
type Map struct {
	Entries []MapEntry
}

func (Null) value()         {}
func (Boolean) value()      {}
func (Text) value()         {}
func (Integer) value()      {}
func (TypedInteger) value() {}
func (Decimal) value()      {}
func (TypedDecimal) value() {}
func (Endpoint) value()     {}
func (*List) value()        {}
func (*Map) value()         {}

func (Null) String() string { return "null" }

func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

// String quotes the text the way it is written in source.
func (t Text) String() string { return strconv.Quote(string(t)) }

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (m *Map) String() string {
	parts := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Get returns the value stored under key.
func (m *Map) Get(key Value) (Value, bool) {
	for _, e := range m.Entries {
		if Equal(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Equal reports structural equality. Numbers of different kinds are never equal.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Boolean:
		o, ok := b.(Boolean)
		return ok && a == o
	case Text:
		o, ok := b.(Text)
		return ok && a == o
	case Integer:
		o, ok := b.(Integer)
		return ok && a.Equal(o)
	case TypedInteger:
		o, ok := b.(TypedInteger)
		return ok && a.Equal(o)
	case Decimal:
		o, ok := b.(Decimal)
		return ok && a.Equal(o)
	case TypedDecimal:
		o, ok := b.(TypedDecimal)
		return ok && a.Equal(o)
	case Endpoint:
		o, ok := b.(Endpoint)
		return ok && a == o
	case *List:
		o, ok := b.(*List)
		if !ok || len(a.Items) != len(o.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], o.Items[i]) {
				return false
			}
		}
		return true
	case *Map:
		o, ok := b.(*Map)
		if !ok || len(a.Entries) != len(o.Entries) {
			return false
		}
		for i := range a.Entries {
			if !Equal(a.Entries[i].Key, o.Entries[i].Key) || !Equal(a.Entries[i].Value, o.Entries[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
