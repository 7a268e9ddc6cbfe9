package types

import (
	"fmt"
	"sync"

	"github.com/unyt-org/datex-go/pkg/corelib"
)

var (
	coreOnce sync.Once
	coreRefs map[corelib.ID]*Reference
)

func buildCore() {
	ids := corelib.All()
	coreRefs = make(map[corelib.ID]*Reference, len(ids))
	// bases first so variants can point at them
	for _, id := range ids {
		if !id.HasVariant() {
			coreRefs[id] = newCoreReference(id, nil)
		}
	}
	for _, id := range ids {
		if id.HasVariant() {
			coreRefs[id] = newCoreReference(id, coreRefs[id.Base()])
		}
	}
}

func newCoreReference(id corelib.ID, base *Reference) *Reference {
	name, variant := id.Name()
	addr := id.Address()
	def := Definition(UnitDefinition{})
	switch id {
	case corelib.Never:
		def = NeverDefinition{}
	case corelib.Unknown:
		def = UnknownDefinition{}
	}
	return NewReference(Type{Definition: def, Base: base}, &Nominal{Name: name, Variant: variant}, &addr)
}

// CoreReference returns the shared nominal reference of a core library type.
// It panics for ids outside the core library.
func CoreReference(id corelib.ID) *Reference {
	coreOnce.Do(buildCore)
	r, ok := coreRefs[id]
	if !ok {
		panic(fmt.Sprintf("types: no core type for id %d", id))
	}
	return r
}

// CoreID reports which core library entry r is, if any.
func CoreID(r *Reference) (corelib.ID, bool) {
	addr, ok := r.Address()
	if !ok {
		return 0, false
	}
	id, err := corelib.FromAddress(addr)
	if err != nil {
		return 0, false
	}
	return id, CoreReference(id) == r
}

// Never returns the bottom type.
func Never() *Reference { return CoreReference(corelib.Never) }

// Unknown returns the top type.
func Unknown() *Reference { return CoreReference(corelib.Unknown) }

// Integer returns the generic integer type.
func Integer() *Reference { return CoreReference(corelib.Integer(0)) }

// Decimal returns the generic decimal type.
func Decimal() *Reference { return CoreReference(corelib.Decimal(0)) }

// Text returns the text type.
func Text() *Reference { return CoreReference(corelib.Text) }

// Boolean returns the boolean type.
func Boolean() *Reference { return CoreReference(corelib.Boolean) }

// Null returns the null type.
func Null() *Reference { return CoreReference(corelib.Null) }
