package types

import "github.com/unyt-org/datex-go/pkg/values"

// BaseType returns the nominal root of c: integer for 42, 42u8 and
// integer/u8 alike. It returns nil for types without a nominal root.
func BaseType(c Container) *Reference {
	switch c := c.(type) {
	case *Reference:
		return root(c)
	case Type:
		if c.Base != nil {
			return root(c.Base)
		}
		switch def := c.Definition.(type) {
		case Structural:
			return root(CoreReference(def.CoreID()))
		case ReferenceDefinition:
			return root(def.Reference)
		}
	}
	return nil
}

func root(r *Reference) *Reference {
	seen := map[*Reference]bool{}
	for !seen[r] {
		seen[r] = true
		base := r.Value().Base
		if base == nil {
			return r
		}
		r = base
	}
	return r
}

// Equal compares containers. References compare by identity, types by shape.
func Equal(a, b Container) bool {
	switch a := a.(type) {
	case *Reference:
		o, ok := b.(*Reference)
		return ok && a == o
	case Type:
		o, ok := b.(Type)
		if !ok || a.Base != o.Base {
			return false
		}
		if (a.Mutability == nil) != (o.Mutability == nil) {
			return false
		}
		if a.Mutability != nil && *a.Mutability != *o.Mutability {
			return false
		}
		return equalDefinition(a.Definition, o.Definition)
	}
	return a == nil && b == nil
}

func equalDefinition(a, b Definition) bool {
	switch a := a.(type) {
	case Structural:
		o, ok := b.(Structural)
		if !ok || a.Kind != o.Kind {
			return false
		}
		switch a.Kind {
		case StructuralList:
			return equalAll(a.Items, o.Items)
		case StructuralMap:
			return equalEntries(a.Entries, o.Entries)
		}
		if a.Value == nil || o.Value == nil {
			return a.Value == nil && o.Value == nil
		}
		return values.Equal(a.Value, o.Value)
	case Collection:
		o, ok := b.(Collection)
		return ok && a.Kind == o.Kind && a.Size == o.Size &&
			equalOptional(a.Element, o.Element) && equalOptional(a.Key, o.Key)
	case ReferenceDefinition:
		o, ok := b.(ReferenceDefinition)
		return ok && a.Reference == o.Reference
	case TypeOf:
		o, ok := b.(TypeOf)
		return ok && Equal(a.Inner, o.Inner)
	case Union:
		o, ok := b.(Union)
		return ok && equalAll(a.Members, o.Members)
	case Intersection:
		o, ok := b.(Intersection)
		return ok && equalAll(a.Members, o.Members)
	case Function:
		o, ok := b.(Function)
		if !ok || len(a.Parameters) != len(o.Parameters) || !equalOptional(a.Return, o.Return) {
			return false
		}
		for i := range a.Parameters {
			if a.Parameters[i].Name != o.Parameters[i].Name || !Equal(a.Parameters[i].Type, o.Parameters[i].Type) {
				return false
			}
		}
		return true
	case UnitDefinition:
		_, ok := b.(UnitDefinition)
		return ok
	case NeverDefinition:
		_, ok := b.(NeverDefinition)
		return ok
	case UnknownDefinition:
		_, ok := b.(UnknownDefinition)
		return ok
	}
	return false
}

func equalOptional(a, b Container) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}

func equalAll(a, b []Container) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalEntries(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i].Key, b[i].Key) || !Equal(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

// Matches reports whether a value of type assigned may be stored where
// target is expected.
//
// unknown accepts everything and never is accepted everywhere. A reference
// target accepts itself and anything whose base chain reaches it.
func Matches(assigned, target Container) bool {
	if assigned == nil || target == nil {
		return false
	}
	if r, ok := target.(*Reference); ok && r == Unknown() {
		return true
	}
	if r, ok := assigned.(*Reference); ok && r == Never() {
		return true
	}
	// every member of an assigned union must fit
	if t, ok := assigned.(Type); ok {
		if u, ok := t.Definition.(Union); ok {
			for _, m := range u.Members {
				if !Matches(m, target) {
					return false
				}
			}
			return len(u.Members) > 0
		}
	}

	switch target := target.(type) {
	case *Reference:
		return reaches(assigned, target)
	case Type:
		return matchesType(assigned, target)
	}
	return false
}

func reaches(assigned Container, target *Reference) bool {
	switch a := assigned.(type) {
	case *Reference:
		seen := map[*Reference]bool{}
		for r := a; r != nil && !seen[r]; r = r.Value().Base {
			if r == target {
				return true
			}
			seen[r] = true
		}
		return false
	case Type:
		if a.Base != nil {
			return reaches(a.Base, target)
		}
		switch def := a.Definition.(type) {
		case Structural:
			return reaches(CoreReference(def.CoreID()), target)
		case ReferenceDefinition:
			return reaches(def.Reference, target)
		}
	}
	return false
}

func matchesType(assigned Container, target Type) bool {
	switch def := target.Definition.(type) {
	case Union:
		for _, m := range def.Members {
			if Matches(assigned, m) {
				return true
			}
		}
		return false
	case Intersection:
		for _, m := range def.Members {
			if !Matches(assigned, m) {
				return false
			}
		}
		return len(def.Members) > 0
	case ReferenceDefinition:
		return Matches(assigned, def.Reference)
	case UnknownDefinition:
		return true
	case NeverDefinition:
		return false
	case Structural:
		return matchesStructural(assigned, def)
	case Collection:
		return matchesCollection(assigned, def)
	}
	return Equal(assigned, target)
}

func structuralOf(c Container) (Structural, bool) {
	t, ok := c.(Type)
	if !ok {
		return Structural{}, false
	}
	s, ok := t.Definition.(Structural)
	return s, ok
}

func matchesStructural(assigned Container, target Structural) bool {
	a, ok := structuralOf(assigned)
	if !ok || a.Kind != target.Kind {
		return false
	}
	switch target.Kind {
	case StructuralList:
		if len(a.Items) != len(target.Items) {
			return false
		}
		for i := range target.Items {
			if !Matches(a.Items[i], target.Items[i]) {
				return false
			}
		}
		return true
	case StructuralMap:
		for _, want := range target.Entries {
			found := false
			for _, have := range a.Entries {
				if Equal(have.Key, want.Key) {
					found = Matches(have.Value, want.Value)
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	if a.Value == nil || target.Value == nil {
		return a.Value == nil && target.Value == nil
	}
	return values.Equal(a.Value, target.Value)
}

func matchesCollection(assigned Container, target Collection) bool {
	if t, ok := assigned.(Type); ok {
		if c, ok := t.Definition.(Collection); ok {
			return c.Kind == target.Kind && (target.Size < 0 || c.Size == target.Size) &&
				Matches(c.Element, target.Element)
		}
	}
	a, ok := structuralOf(assigned)
	if !ok {
		return false
	}
	switch target.Kind {
	case ListCollection, SliceCollection:
		if a.Kind != StructuralList {
			return false
		}
		if target.Kind == ListCollection && target.Size >= 0 && len(a.Items) != target.Size {
			return false
		}
		for _, item := range a.Items {
			if !Matches(item, target.Element) {
				return false
			}
		}
		return true
	case MapCollection:
		if a.Kind != StructuralMap {
			return false
		}
		for _, e := range a.Entries {
			if !Matches(e.Key, target.Key) || !Matches(e.Value, target.Element) {
				return false
			}
		}
		return true
	}
	return false
}
