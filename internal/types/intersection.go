package types

import (
	"fmt"

	"github.com/google/uuid"
)

// intersectionNamespace anchors the deterministic naming of
// synthesized intersection classes: the key must be reproducible
// across runs so repeated narrowing of the same expression yields the
// same class identity, which the surrounding checker relies on for
// caching. uuid.NewSHA1 over a fixed namespace plus the (module,
// offset, subtype class, filter class) tuple gives that determinism with a
// real collision-resistant hash instead of a hand-rolled one.
var intersectionNamespace = uuid.MustParse("6f2f9b0a-6e0a-4c9a-9e0b-6a6f0a8f2f1a")

// Location pins the source position that triggered an intersection
// synthesis.
type Location struct {
	File   string
	Offset int
}

// SynthesizeIntersection builds the `<subclass of S and F>` class
// isinstance narrowing falls back to when a subtype and a filter have
// no sub/superclass relation: a new class identity whose MRO chains S
// ahead of F, keyed deterministically so the same (module, offset,
// subtype, filter) always synthesizes the same GenericClassKey.
func SynthesizeIntersection(module string, loc Location, subtype ClassType, filter ClassType) ClassType {
	key := fmt.Sprintf("%s|%d|%s|%s", module, loc.Offset, subtype.GenericClassKey, filter.GenericClassKey)
	id := uuid.NewSHA1(intersectionNamespace, []byte(key))
	name := fmt.Sprintf("<subclass of %s and %s>", subtype.Name, filter.Name)

	mro := make([]ClassType, 0, len(subtype.MRO)+len(filter.MRO)+2)
	mro = append(mro, subtype)
	mro = append(mro, subtype.MRO...)
	mro = append(mro, filter)
	mro = append(mro, filter.MRO...)

	result := ClassType{
		Name:              name,
		GenericClassKey:   "intersection:" + id.String(),
		instantiableFlag:  subtype.instantiableFlag,
		MRO:               mro,
		IncludeSubclasses: subtype.IncludeSubclasses,
		conditions:        subtype.conditions,
	}
	return result
}
