package types

import (
	"fmt"
	"strings"

	"github.com/unyt-org/datex-go/pkg/corelib"
	"github.com/unyt-org/datex-go/pkg/values"
)

// Definition is the shape of a Type.
type Definition interface {
	String() string
	definition()
}

// StructuralKind selects which field of a Structural definition is set.
type StructuralKind uint8

// Structural kinds.
const (
	StructuralValue StructuralKind = iota
	StructuralList
	StructuralMap
)

// Entry is a key/value pair of a structural map type.
type Entry struct {
	Key   Container
	Value Container
}

// Structural is a type defined by shape: a literal value, or a list or map
// of member types.
type Structural struct {
	Kind    StructuralKind
	Value   values.Value
	Items   []Container
	Entries []Entry
}

// CollectionKind selects the collection shape.
type CollectionKind uint8

// Collection kinds.
const (
	ListCollection CollectionKind = iota
	SliceCollection
	MapCollection
)

// Collection is a homogeneous list, slice or map type.
type Collection struct {
	Kind    CollectionKind
	Element Container
	Key     Container
	Size    int // fixed size of a ListCollection, -1 when unbounded
}

// ReferenceDefinition points at another reference.
type ReferenceDefinition struct {
	Reference *Reference
}

// TypeOf is the type of a type value.
type TypeOf struct {
	Inner Container
}

// Union is a sum of member types.
type Union struct {
	Members []Container
}

// Intersection is a product of member types.
type Intersection struct {
	Members []Container
}

// Parameter is a named function parameter.
type Parameter struct {
	Name string
	Type Container
}

// Function is a function signature.
type Function struct {
	Parameters []Parameter
	Return     Container
}

// UnitDefinition is the empty type "()".
type UnitDefinition struct{}

// NeverDefinition is the bottom type.
type NeverDefinition struct{}

// UnknownDefinition is the top type.
type UnknownDefinition struct{}

func (Structural) definition()          {}
func (Collection) definition()          {}
func (ReferenceDefinition) definition() {}
func (TypeOf) definition()              {}
func (Union) definition()               {}
func (Intersection) definition()        {}
func (Function) definition()            {}
func (UnitDefinition) definition()      {}
func (NeverDefinition) definition()     {}
func (UnknownDefinition) definition()   {}

// Literal returns the structural type of a single value.
func Literal(v values.Value) Type {
	return Type{Definition: Structural{Kind: StructuralValue, Value: v}}
}

// ListOf returns the structural list type [items...].
func ListOf(items ...Container) Type {
	return Type{Definition: Structural{Kind: StructuralList, Items: items}}
}

// MapOf returns the structural map type {k: v, ...}.
func MapOf(entries ...Entry) Type {
	return Type{Definition: Structural{Kind: StructuralMap, Entries: entries}}
}

// UnionOf returns the union of members.
func UnionOf(members ...Container) Type {
	return Type{Definition: Union{Members: members}}
}

// IntersectionOf returns the intersection of members.
func IntersectionOf(members ...Container) Type {
	return Type{Definition: Intersection{Members: members}}
}

// CoreID returns the core library id of the value's base type.
func (s Structural) CoreID() corelib.ID {
	switch s.Kind {
	case StructuralList:
		return corelib.List
	case StructuralMap:
		return corelib.Map
	}
	switch v := s.Value.(type) {
	case values.Integer:
		return corelib.Integer(0)
	case values.TypedInteger:
		return corelib.Integer(v.Variant())
	case values.Decimal:
		return corelib.Decimal(0)
	case values.TypedDecimal:
		return corelib.Decimal(v.Variant())
	case values.Text:
		return corelib.Text
	case values.Boolean:
		return corelib.Boolean
	case values.Endpoint:
		return corelib.Endpoint
	case *values.List:
		return corelib.List
	case *values.Map:
		return corelib.Map
	default:
		return corelib.Null
	}
}

func (s Structural) String() string {
	switch s.Kind {
	case StructuralList:
		return "[" + joinContainers(s.Items, ", ") + "]"
	case StructuralMap:
		parts := make([]string, len(s.Entries))
		for i, e := range s.Entries {
			parts[i] = entryKey(e.Key) + ": " + e.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	if s.Value == nil {
		return "null"
	}
	return s.Value.String()
}

// entryKey renders text keys bare, as they are written in map types.
func entryKey(c Container) string {
	if t, ok := c.(Type); ok {
		if s, ok := t.Definition.(Structural); ok && s.Kind == StructuralValue {
			if text, ok := s.Value.(values.Text); ok {
				return string(text)
			}
		}
	}
	return c.String()
}

func (c Collection) String() string {
	switch c.Kind {
	case SliceCollection:
		return c.Element.String() + "[]"
	case MapCollection:
		return fmt.Sprintf("Map<%s, %s>", c.Key, c.Element)
	}
	if c.Size >= 0 {
		return fmt.Sprintf("%s[%d]", c.Element, c.Size)
	}
	return fmt.Sprintf("List<%s>", c.Element)
}

func (r ReferenceDefinition) String() string { return r.Reference.String() }

func (t TypeOf) String() string { return "type(" + t.Inner.String() + ")" }

func (u Union) String() string { return "(" + joinContainers(u.Members, " | ") + ")" }

func (i Intersection) String() string { return "(" + joinContainers(i.Members, " & ") + ")" }

func (f Function) String() string {
	parts := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		parts[i] = p.Name + ": " + p.Type.String()
	}
	ret := "()"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + ret
}

func (UnitDefinition) String() string    { return "()" }
func (NeverDefinition) String() string   { return "never" }
func (UnknownDefinition) String() string { return "unknown" }

func joinContainers(cs []Container, sep string) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, sep)
}
