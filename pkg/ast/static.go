package ast

import (
	"errors"
	"fmt"

	"github.com/unyt-org/datex-go/pkg/values"
)

// ErrNonStaticValue is returned when an expression needs evaluation.
var ErrNonStaticValue = errors.New("encountered non-static value")

// StaticValue converts a literal-only expression into a value without
// running it. Lists and maps of literals are allowed, as is unary +/- on a
// numeric literal. Anything else fails with ErrNonStaticValue.
func StaticValue(e *Expression) (values.Value, error) {
	if v, ok := literalValue(e.Data); ok {
		return v, nil
	}
	switch d := e.Data.(type) {
	case *List:
		items := make([]values.Value, len(d.Items))
		for i, item := range d.Items {
			v, err := StaticValue(item)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &values.List{Items: items}, nil
	case *Map:
		entries := make([]values.MapEntry, len(d.Entries))
		for i, entry := range d.Entries {
			k, err := StaticValue(entry.Key)
			if err != nil {
				return nil, err
			}
			v, err := StaticValue(entry.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = values.MapEntry{Key: k, Value: v}
		}
		return &values.Map{Entries: entries}, nil
	case *UnaryOperation:
		return staticUnary(d)
	}
	return nil, fmt.Errorf("%w: %T", ErrNonStaticValue, e.Data)
}

func staticUnary(u *UnaryOperation) (values.Value, error) {
	if u.Operator != UnaryPlus && u.Operator != UnaryMinus {
		return nil, fmt.Errorf("%w: unary %s", ErrNonStaticValue, u.Operator)
	}
	neg := u.Operator == UnaryMinus
	switch d := u.Expression.Data.(type) {
	case *Integer:
		if neg {
			return d.Value.Neg(), nil
		}
		return d.Value, nil
	case *TypedInteger:
		if !neg {
			return d.Value, nil
		}
		v, err := d.Value.Neg()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNonStaticValue, err)
		}
		return v, nil
	case *Decimal:
		if neg {
			return d.Value.Neg(), nil
		}
		return d.Value, nil
	case *TypedDecimal:
		if neg {
			return d.Value.Neg(), nil
		}
		return d.Value, nil
	}
	return nil, fmt.Errorf("%w: unary %s on %T", ErrNonStaticValue, u.Operator, u.Expression.Data)
}
