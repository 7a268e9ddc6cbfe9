package values

import (
	"errors"
	"fmt"
	"strings"
)

// EndpointKind is the identity category of an endpoint.
type EndpointKind uint8

// Endpoint kinds, distinguished by their sigil.
const (
	Person      EndpointKind = iota // @name
	Institution                     // @+name
	Anonymous                       // @@name
)

// ErrInvalidEndpoint is returned for malformed endpoint literals.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// Endpoint is a DATEX endpoint identifier such as @jonas.
type Endpoint struct {
	Kind EndpointKind
	Name string
}

// ParseEndpoint parses "@name", "@+name" or "@@name".
func ParseEndpoint(s string) (Endpoint, error) {
	var e Endpoint
	switch {
	case strings.HasPrefix(s, "@@"):
		e = Endpoint{Kind: Anonymous, Name: s[2:]}
	case strings.HasPrefix(s, "@+"):
		e = Endpoint{Kind: Institution, Name: s[2:]}
	case strings.HasPrefix(s, "@"):
		e = Endpoint{Kind: Person, Name: s[1:]}
	default:
		return Endpoint{}, fmt.Errorf("%w: %q", ErrInvalidEndpoint, s)
	}
	if e.Name == "" {
		return Endpoint{}, fmt.Errorf("%w: %q", ErrInvalidEndpoint, s)
	}
	for _, r := range e.Name {
		if !isEndpointRune(r) {
			return Endpoint{}, fmt.Errorf("%w: %q", ErrInvalidEndpoint, s)
		}
	}
	return e, nil
}

func isEndpointRune(r rune) bool {
	return r == '_' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (e Endpoint) String() string {
	switch e.Kind {
	case Institution:
		return "@+" + e.Name
	case Anonymous:
		return "@@" + e.Name
	default:
		return "@" + e.Name
	}
}
