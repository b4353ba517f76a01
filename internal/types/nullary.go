package types

// ModuleType, NoneType, AnyType, UnknownType and NeverType are the
// nullary variants: no payload beyond the common conditions list
// (and, for ModuleType, the module's name).

type ModuleType struct {
	Name       string
	conditions []Condition
}

func (m ModuleType) Kind() Category        { return CategoryModule }
func (m ModuleType) Instantiable() bool    { return false }
func (m ModuleType) Conditions() []Condition { return m.conditions }
func (m ModuleType) String() string        { return "module[" + m.Name + "]" }

type NoneType struct {
	conditions []Condition
}

// NoneWithConditions builds a NoneType carrying cs, so narrowing an
// `object`-typed value down to None keeps the value's constraint
// provenance.
func NoneWithConditions(cs []Condition) NoneType {
	return NoneType{conditions: cs}
}

func (n NoneType) Kind() Category        { return CategoryNone }
func (n NoneType) Instantiable() bool    { return false }
func (n NoneType) Conditions() []Condition { return n.conditions }
func (n NoneType) String() string        { return "None" }

type AnyType struct {
	conditions []Condition
}

func (a AnyType) Kind() Category        { return CategoryAny }
func (a AnyType) Instantiable() bool    { return false }
func (a AnyType) Conditions() []Condition { return a.conditions }
func (a AnyType) String() string        { return "Any" }

type UnknownType struct {
	conditions []Condition
}

func (u UnknownType) Kind() Category        { return CategoryUnknown }
func (u UnknownType) Instantiable() bool    { return false }
func (u UnknownType) Conditions() []Condition { return u.conditions }
func (u UnknownType) String() string        { return "Unknown" }

type NeverType struct {
	conditions []Condition
}

func (n NeverType) Kind() Category        { return CategoryNever }
func (n NeverType) Instantiable() bool    { return false }
func (n NeverType) Conditions() []Condition { return n.conditions }
func (n NeverType) String() string        { return "Never" }

// IsAnyOrUnknown reports whether t is Any or Unknown — a frequent
// test throughout the solver and narrowing engine.
func IsAnyOrUnknown(t Type) bool {
	switch t.(type) {
	case AnyType, UnknownType:
		return true
	default:
		return false
	}
}
