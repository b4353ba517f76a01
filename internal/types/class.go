package types

import (
	"fmt"
	"strings"
)

// Variance records how a class's declared type parameter behaves
// under the solver's bound-widening rules.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "covariant"
	case Contravariant:
		return "contravariant"
	default:
		return "invariant"
	}
}

// TypeParamDecl is one entry of a class's declared type parameter list.
type TypeParamDecl struct {
	Name     string
	Variance Variance
}

// TupleArg is one element of a tuple's argument list.
type TupleArg struct {
	Type        Type
	IsUnbounded bool // true only for the single trailing *Ts element
}

// LiteralKind discriminates which scalar category a literal-valued
// class instance carries.
type LiteralKind int

const (
	LiteralNone LiteralKind = iota
	LiteralBool
	LiteralInt
	LiteralStr
	LiteralBytes
	LiteralEnumMember
)

// LiteralValue is the literal payload of a Class instance (optional
// field on ClassType). Equal is structural, used by narrowing's
// literal comparisons.
type LiteralValue struct {
	Kind       LiteralKind
	Bool       bool
	Int        int64
	Str        string
	Bytes      string
	EnumMember string // "<ClassName>.<MEMBER>"
}

func (lv LiteralValue) Equal(other LiteralValue) bool {
	if lv.Kind != other.Kind {
		return false
	}
	switch lv.Kind {
	case LiteralBool:
		return lv.Bool == other.Bool
	case LiteralInt:
		return lv.Int == other.Int
	case LiteralStr:
		return lv.Str == other.Str
	case LiteralBytes:
		return lv.Bytes == other.Bytes
	case LiteralEnumMember:
		return lv.EnumMember == other.EnumMember
	default:
		return true
	}
}

func (lv LiteralValue) String() string {
	switch lv.Kind {
	case LiteralBool:
		return fmt.Sprintf("%t", lv.Bool)
	case LiteralInt:
		return fmt.Sprintf("%d", lv.Int)
	case LiteralStr:
		return fmt.Sprintf("%q", lv.Str)
	case LiteralBytes:
		return fmt.Sprintf("b%q", lv.Bytes)
	case LiteralEnumMember:
		return lv.EnumMember
	default:
		return ""
	}
}

// TypedDictEntry is one declared or narrowed key of a TypedDict.
type TypedDictEntry struct {
	ValueType  Type
	IsRequired bool
	IsProvided bool // narrowing-only mark: "k in td" proved this optional key present
}

// FieldSymbol is one member of a class's field table.
type FieldSymbol struct {
	Name     string
	Type     Type
	IsMethod bool
}

// ClassType is the Class variant. Nominal identity is Name together
// with GenericClassKey: two specializations of List share a
// GenericClassKey but differ in TypeArguments.
type ClassType struct {
	Name            string
	GenericClassKey string // identity of the unspecialized generic class; equals Name for non-generic classes

	IsBuiltin    bool
	IsFinal      bool
	IsProtocol   bool
	IsTypedDict  bool
	IsTupleClass bool

	TypeParameters []TypeParamDecl
	TypeArguments  []Type     // nil if unspecialized
	TupleArguments []TupleArg // nil unless IsTupleClass; one element per position for a fixed-length tuple, a single IsUnbounded element for tuple[T, ...]

	Literal *LiteralValue

	TypedDictNarrowedEntries map[string]TypedDictEntry // delta over declared entries

	IncludeSubclasses bool // set when narrowing to a subclass filter: the value may be this class or any subclass of it

	MRO    []ClassType // linearised ancestors, most-derived first
	Fields map[string]FieldSymbol

	instantiableFlag bool
	conditions       []Condition
}

// NewClassInstance builds an instance (non-instantiable) ClassType.
func NewClassInstance(name string) ClassType {
	return ClassType{Name: name, GenericClassKey: name, instantiableFlag: false}
}

// NewClassDef builds an instantiable (class-qua-class) ClassType.
func NewClassDef(name string) ClassType {
	return ClassType{Name: name, GenericClassKey: name, instantiableFlag: true}
}

func (c ClassType) Kind() Category { return CategoryClass }

func (c ClassType) Instantiable() bool {
	// A literal-valued instance is never instantiable, regardless of
	// what the caller set.
	if c.Literal != nil {
		return false
	}
	return c.instantiableFlag
}

// AsInstance returns the instance form of the class (Literal cleared
// only by the caller; this just flips the instantiable bit).
func (c ClassType) AsInstance() ClassType {
	c.instantiableFlag = false
	return c
}

// AsInstantiable returns the class-qua-class form.
func (c ClassType) AsInstantiable() ClassType {
	c.instantiableFlag = true
	c.Literal = nil
	return c
}

func (c ClassType) Conditions() []Condition { return c.conditions }

// WithConditionsList returns a copy carrying the given conditions.
func (c ClassType) WithConditionsList(cs []Condition) ClassType {
	c.conditions = cs
	return c
}

// SameGenericClass reports whether c and other are specializations of
// the same declared generic class, ignoring type arguments — used
// throughout narrowing (#4 type(x) is Y, #4.4.b isinstance).
func (c ClassType) SameGenericClass(other ClassType) bool {
	return c.GenericClassKey == other.GenericClassKey
}

// IsAncestorOf reports whether c appears in other's MRO (c is a
// superclass of, or equal to, other), or, when c is a protocol class,
// whether other structurally satisfies it.
func (c ClassType) IsAncestorOf(other ClassType) bool {
	if c.SameGenericClass(other) {
		return true
	}
	for _, anc := range other.MRO {
		if c.SameGenericClass(anc) {
			return true
		}
	}
	if c.IsProtocol {
		return c.Accepts(other)
	}
	return false
}

// IsDescendantOf reports whether other appears in c's MRO, or — when
// other is a protocol class — whether c structurally satisfies it.
func (c ClassType) IsDescendantOf(other ClassType) bool {
	return other.IsAncestorOf(c)
}

// Accepts reports whether candidate structurally satisfies protocol c:
// every declared member of c (by name) is present on candidate with
// an identically-shaped field (method-ness must match; types are
// compared by String() rather than run through full assignability,
// since the protocol acceptance check is itself a narrowing-time
// shortcut, not a replacement for the checker's own protocol
// compatibility judgment). An empty-Fields protocol accepts nothing
// structurally, since that almost always means its members weren't
// populated rather than that it is a truly empty protocol.
func (c ClassType) Accepts(candidate ClassType) bool {
	if !c.IsProtocol || len(c.Fields) == 0 {
		return false
	}
	for name, want := range c.Fields {
		got, ok := candidate.Fields[name]
		if !ok || got.IsMethod != want.IsMethod {
			return false
		}
		if want.Type != nil && got.Type != nil && want.Type.String() != got.Type.String() {
			return false
		}
	}
	return true
}

// NarrowedEntry returns the effective TypedDict entry for key,
// applying the narrowed-over-declared delta rule: a key absent from
// the narrowed map falls back to its declared entry in Fields
// (declared entries are stored there as ordinary fields), which is
// always reported as required since FieldSymbol has no required flag.
func (c ClassType) NarrowedEntry(key string) (TypedDictEntry, bool) {
	if c.TypedDictNarrowedEntries != nil {
		if e, ok := c.TypedDictNarrowedEntries[key]; ok {
			return e, true
		}
	}
	if f, ok := c.Fields[key]; ok {
		return TypedDictEntry{ValueType: f.Type, IsRequired: true}, true
	}
	return TypedDictEntry{}, false
}

// WithNarrowedEntry returns a copy of c with key's narrowed entry
// replaced, leaving every other narrowed entry untouched. The
// narrowed map is a delta, not a full snapshot.
func (c ClassType) WithNarrowedEntry(key string, entry TypedDictEntry) ClassType {
	newMap := make(map[string]TypedDictEntry, len(c.TypedDictNarrowedEntries)+1)
	for k, v := range c.TypedDictNarrowedEntries {
		newMap[k] = v
	}
	newMap[key] = entry
	c.TypedDictNarrowedEntries = newMap
	return c
}

func (c ClassType) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Literal != nil {
		fmt.Fprintf(&b, "[Literal[%s]]", c.Literal.String())
		return b.String()
	}
	if len(c.TypeArguments) > 0 {
		b.WriteString("[")
		for i, a := range c.TypeArguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteString("]")
	}
	if c.IsTupleClass && c.TupleArguments != nil {
		b.WriteString("[")
		for i, a := range c.TupleArguments {
			if i > 0 {
				b.WriteString(", ")
			}
			if a.IsUnbounded {
				fmt.Fprintf(&b, "*%s", a.Type.String())
			} else {
				b.WriteString(a.Type.String())
			}
		}
		b.WriteString("]")
	}
	if c.instantiableFlag {
		return "type[" + b.String() + "]"
	}
	return b.String()
}
