package narrow

import (
	"testing"

	"github.com/funvibe/typeeval/internal/tree"
	"github.com/funvibe/typeeval/internal/types"
)

func newEngine(t *testing.T) (*Engine, *tree.Builder) {
	b := tree.NewBuilder()
	return &Engine{Tree: b.Tree(), Module: "test"}, b
}

func TestNarrowIsNone(t *testing.T) {
	e, b := newEngine(t)
	ref := b.Name("x")
	noneConst := b.Add(tree.Node{Kind: tree.KindConstant, ConstKind: tree.ConstNone})
	test := b.Add(tree.Node{Kind: tree.KindBinaryOp, Op: "is", Left: ref, Right: noneConst})

	cb, ok := e.GetNarrowingCallback(ref, test, true, 0)
	if !ok {
		t.Fatalf("expected the None comparison to be recognized")
	}
	input := types.UnionType{Subtypes: []types.Type{types.NewClassInstance("int"), types.NoneType{}}}
	got := cb(input)
	if _, isNone := got.(types.NoneType); !isNone {
		t.Fatalf("expected positive narrowing to None, got %v", got)
	}

	negCB, _ := e.GetNarrowingCallback(ref, test, false, 0)
	got2 := negCB(input)
	if _, isClass := got2.(types.ClassType); !isClass {
		t.Fatalf("expected negative narrowing to drop None, got %v", got2)
	}
}

func TestNarrowLiteralComparison(t *testing.T) {
	e, b := newEngine(t)
	ref := b.Name("x")
	lit := b.Add(tree.Node{Kind: tree.KindString, StringValue: "a"})
	test := b.Add(tree.Node{Kind: tree.KindBinaryOp, Op: "==", Left: ref, Right: lit})

	cb, ok := e.GetNarrowingCallback(ref, test, true, 0)
	if !ok {
		t.Fatalf("expected the literal comparison to be recognized")
	}
	got := cb(types.NewClassInstance("str"))
	c, ok := got.(types.ClassType)
	if !ok || c.Literal == nil || c.Literal.Str != "a" {
		t.Fatalf("expected literal-narrowed str instance, got %v", got)
	}
}

func TestNarrowLenComparison(t *testing.T) {
	e, b := newEngine(t)
	xName := b.Name("x")
	fnName := b.Name("len")
	argVal := b.Name("x") // separate node, same structural shape as xName
	arg := b.Add(tree.Node{Kind: tree.KindArgument, ArgValue: argVal})
	call := b.Add(tree.Node{Kind: tree.KindCall, Func: fnName, Args: []tree.Index{arg}})
	two := b.Add(tree.Node{Kind: tree.KindNumber, IsInt: true, IntValue: 2})
	test := b.Add(tree.Node{Kind: tree.KindBinaryOp, Op: "==", Left: call, Right: two})

	cb, ok := e.GetNarrowingCallback(xName, test, true, 0)
	if !ok {
		t.Fatalf("expected the len() comparison to be recognized")
	}

	tup2 := types.NewClassInstance("tuple")
	tup2.IsTupleClass = true
	tup2.TupleArguments = []types.TupleArg{{Type: types.NewClassInstance("int")}, {Type: types.NewClassInstance("str")}}
	tup3 := types.NewClassInstance("tuple")
	tup3.IsTupleClass = true
	tup3.TupleArguments = []types.TupleArg{{Type: types.NewClassInstance("int")}, {Type: types.NewClassInstance("str")}, {Type: types.NewClassInstance("bool")}}

	got := cb(types.UnionType{Subtypes: []types.Type{tup2, tup3}})
	u, ok := got.(types.ClassType)
	if !ok || len(u.TupleArguments) != 2 {
		t.Fatalf("expected only the length-2 tuple to survive, got %v", got)
	}
}

func TestNarrowContainerMembership(t *testing.T) {
	e, b := newEngine(t)
	xName := b.Name("x")
	containerExpr := b.Name("items")
	test := b.Add(tree.Node{Kind: tree.KindBinaryOp, Op: "in", Left: xName, Right: containerExpr})

	listOfInt := types.NewClassInstance("list")
	listOfInt.TypeArguments = []types.Type{types.NewClassInstance("int")}
	e.ResolveExprType = func(idx tree.Index) (types.Type, bool) {
		if idx == containerExpr {
			return listOfInt, true
		}
		return nil, false
	}

	cb, ok := e.GetNarrowingCallback(xName, test, true, 0)
	if !ok {
		t.Fatalf("expected the membership test to be recognized")
	}
	input := types.UnionType{Subtypes: []types.Type{types.NewClassInstance("int"), types.NewClassInstance("str")}}
	got := cb(input)
	u, ok := got.(types.ClassType)
	if !ok || u.Name != "int" {
		t.Fatalf("expected only int to survive membership narrowing, got %v", got)
	}
}

func TestNarrowCallable(t *testing.T) {
	e, b := newEngine(t)
	xName := b.Name("x")
	argVal := b.Name("x")
	arg := b.Add(tree.Node{Kind: tree.KindArgument, ArgValue: argVal})
	fnName := b.Name("callable")
	test := b.Add(tree.Node{Kind: tree.KindCall, Func: fnName, Args: []tree.Index{arg}})

	cb, ok := e.GetNarrowingCallback(xName, test, true, 0)
	if !ok {
		t.Fatalf("expected callable() to be recognized")
	}
	input := types.UnionType{Subtypes: []types.Type{types.NoneType{}, types.FunctionType{}}}
	got := cb(input)
	if _, isFn := got.(types.FunctionType); !isFn {
		t.Fatalf("expected only the function subtype to survive, got %v", got)
	}
}

func TestNarrowIsinstanceProtocol(t *testing.T) {
	e, b := newEngine(t)
	xName := b.Name("x")
	argVal := b.Name("x")
	arg0 := b.Add(tree.Node{Kind: tree.KindArgument, ArgValue: argVal})
	filterExpr := b.Name("Sized")
	arg1 := b.Add(tree.Node{Kind: tree.KindArgument, ArgValue: filterExpr})
	fnName := b.Name("isinstance")
	test := b.Add(tree.Node{Kind: tree.KindCall, Func: fnName, Args: []tree.Index{arg0, arg1}})

	sized := types.NewClassDef("Sized")
	sized.IsProtocol = true
	sized.Fields = map[string]types.FieldSymbol{"__len__": {Name: "__len__", IsMethod: true}}

	e.ResolveExprType = func(idx tree.Index) (types.Type, bool) {
		if idx == filterExpr {
			return sized, true
		}
		return nil, false
	}

	cb, ok := e.GetNarrowingCallback(xName, test, true, 0)
	if !ok {
		t.Fatalf("expected isinstance() to be recognized")
	}

	list := types.NewClassInstance("list")
	list.Fields = map[string]types.FieldSymbol{"__len__": {Name: "__len__", IsMethod: true}}
	str := types.NewClassInstance("str")

	got := cb(types.UnionType{Subtypes: []types.Type{list, str}})
	var sawList bool
	var sawPlainStr bool
	types.ForEachSubtype(got, func(sub types.Type) {
		if c, ok := sub.(types.ClassType); ok {
			if c.Name == "list" {
				sawList = true
			}
			if c.Name == "str" {
				sawPlainStr = true
			}
		}
	})
	if !sawList {
		t.Fatalf("expected list (which satisfies Sized structurally) to survive, got %v", got)
	}
	if sawPlainStr {
		t.Fatalf("expected str to be synthesized into an intersection, not pass through unchanged, got %v", got)
	}
}

func TestNarrowIssubclassKeepsInstantiableForm(t *testing.T) {
	e, b := newEngine(t)
	xName := b.Name("x")
	argVal := b.Name("x")
	arg0 := b.Add(tree.Node{Kind: tree.KindArgument, ArgValue: argVal})
	filterExpr := b.Name("Animal")
	arg1 := b.Add(tree.Node{Kind: tree.KindArgument, ArgValue: filterExpr})
	fnName := b.Name("issubclass")
	test := b.Add(tree.Node{Kind: tree.KindCall, Func: fnName, Args: []tree.Index{arg0, arg1}})

	animal := types.NewClassDef("Animal")
	e.ResolveExprType = func(idx tree.Index) (types.Type, bool) {
		if idx == filterExpr {
			return animal, true
		}
		return nil, false
	}

	cb, ok := e.GetNarrowingCallback(xName, test, true, 0)
	if !ok {
		t.Fatalf("expected issubclass() to be recognized")
	}

	dog := types.NewClassDef("Dog")
	dog.MRO = []types.ClassType{types.NewClassInstance("Animal")}

	got := cb(dog)
	c, isClass := got.(types.ClassType)
	if !isClass || c.Name != "Dog" {
		t.Fatalf("expected Dog to survive the Animal filter, got %v", got)
	}
	if !c.Instantiable() {
		t.Fatalf("expected the surviving class to stay in type[...] form")
	}

	// Any narrows to the filter classes, still in instantiable form.
	sub := cb(types.AnyType{})
	subC, isClass := sub.(types.ClassType)
	if !isClass || subC.Name != "Animal" || !subC.Instantiable() {
		t.Fatalf("expected Any to narrow to instantiable Animal, got %v", sub)
	}
}

func TestNarrowIsinstanceSubclassSetsIncludeSubclasses(t *testing.T) {
	e, b := newEngine(t)
	xName := b.Name("x")
	argVal := b.Name("x")
	arg0 := b.Add(tree.Node{Kind: tree.KindArgument, ArgValue: argVal})
	filterExpr := b.Name("Dog")
	arg1 := b.Add(tree.Node{Kind: tree.KindArgument, ArgValue: filterExpr})
	fnName := b.Name("isinstance")
	test := b.Add(tree.Node{Kind: tree.KindCall, Func: fnName, Args: []tree.Index{arg0, arg1}})

	dogDef := types.NewClassDef("Dog")
	dogDef.MRO = []types.ClassType{types.NewClassInstance("Animal")}
	e.ResolveExprType = func(idx tree.Index) (types.Type, bool) {
		if idx == filterExpr {
			return dogDef, true
		}
		return nil, false
	}

	cb, ok := e.GetNarrowingCallback(xName, test, true, 0)
	if !ok {
		t.Fatalf("expected isinstance() to be recognized")
	}

	got := cb(types.NewClassInstance("Animal"))
	c, isClass := got.(types.ClassType)
	if !isClass || c.Name != "Dog" {
		t.Fatalf("expected narrowing to the Dog filter, got %v", got)
	}
	if c.Instantiable() {
		t.Fatalf("expected isinstance narrowing to produce instance form")
	}
	if !c.IncludeSubclasses {
		t.Fatalf("expected the subclass-narrowed type to include subclasses")
	}
}

func TestNarrowMemberLiteralUnionDiscriminator(t *testing.T) {
	litStr := func(s string) types.ClassType {
		c := types.NewClassInstance("str")
		c.Literal = &types.LiteralValue{Kind: types.LiteralStr, Str: s}
		return c
	}

	movie := types.NewClassInstance("Movie")
	movie.Fields = map[string]types.FieldSymbol{
		"genre": {Name: "genre", Type: types.UnionType{Subtypes: []types.Type{litStr("action"), litStr("comedy")}}},
	}
	book := types.NewClassInstance("Book")
	book.Fields = map[string]types.FieldSymbol{
		"genre": {Name: "genre", Type: litStr("novel")},
	}

	e, b := newEngine(t)
	ref := b.Name("x")
	member := b.Add(tree.Node{Kind: tree.KindMemberAccess, Receiver: ref, Member: "genre"})
	lit := b.Add(tree.Node{Kind: tree.KindString, StringValue: "action"})
	test := b.Add(tree.Node{Kind: tree.KindBinaryOp, Op: "==", Left: member, Right: lit})

	input := types.UnionType{Subtypes: []types.Type{movie, book}}

	cb, ok := e.GetNarrowingCallback(ref, test, true, 0)
	if !ok {
		t.Fatalf("expected the member discriminator to be recognized")
	}
	got := cb(input)
	if c, isClass := got.(types.ClassType); !isClass || c.Name != "Movie" {
		t.Fatalf("expected the literal-union member to keep Movie only, got %v", got)
	}

	negCB, _ := e.GetNarrowingCallback(ref, test, false, 0)
	neg := negCB(input)
	if c, isClass := neg.(types.ClassType); !isClass || c.Name != "Book" {
		t.Fatalf("expected the negative branch to keep Book only, got %v", neg)
	}
}

func TestNarrowTruthiness(t *testing.T) {
	e, b := newEngine(t)
	xName := b.Name("x")
	test := b.Name("x") // distinct node, same structural shape

	cb, ok := e.GetNarrowingCallback(xName, test, true, 0)
	if !ok {
		t.Fatalf("expected a bare reference to narrow by truthiness")
	}
	got := cb(types.NoneType{})
	if _, isNever := got.(types.NeverType); !isNever {
		t.Fatalf("expected None to be eliminated on the truthy branch, got %v", got)
	}
}

func TestNarrowUnaryNot(t *testing.T) {
	e, b := newEngine(t)
	xName := b.Name("x")
	operand := b.Name("x")
	test := b.Add(tree.Node{Kind: tree.KindUnaryOp, Op: "not", Operand: operand})

	cb, ok := e.GetNarrowingCallback(xName, test, true, 0)
	if !ok {
		t.Fatalf("expected `not x` to be recognized")
	}
	// `not x` true means x is falsy: None survives on this branch.
	got := cb(types.NoneType{})
	if _, isNone := got.(types.NoneType); !isNone {
		t.Fatalf("expected None to survive the falsy branch, got %v", got)
	}
}

func TestRecursionLimitReturnsIdentity(t *testing.T) {
	e, b := newEngine(t)
	xName := b.Name("x")
	cb, ok := e.GetNarrowingCallback(xName, xName, true, 1000)
	if !ok {
		t.Fatalf("expected a recursion-overflow callback to still be returned")
	}
	in := types.NewClassInstance("int")
	if got := cb(in); got.String() != in.String() {
		t.Fatalf("expected identity callback past the recursion limit, got %v", got)
	}
}
