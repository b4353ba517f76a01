package treeutil

import (
	"testing"

	"github.com/funvibe/typeeval/internal/tree"
)

func TestEnclosingScope_StopsAtFunction(t *testing.T) {
	b := tree.NewBuilder()
	b.Enter(tree.Node{Kind: tree.KindModule})
	fn := b.Enter(tree.Node{Kind: tree.KindFunction, Name: "f"})
	name := b.Name("x")
	b.Exit()
	b.Exit()

	tr := b.Tree()
	got := EnclosingScope(tr, name, ScopeFunction)
	if got != fn {
		t.Fatalf("expected enclosing function %d, got %d", fn, got)
	}
}

func TestEnclosingScope_NoneFound(t *testing.T) {
	b := tree.NewBuilder()
	b.Enter(tree.Node{Kind: tree.KindModule})
	name := b.Name("x")
	b.Exit()

	got := EnclosingScope(b.Tree(), name, ScopeClass)
	if got != tree.NoIndex {
		t.Fatalf("expected NoIndex, got %d", got)
	}
}

func TestEvaluationScope_ComprehensionLeakage(t *testing.T) {
	b := tree.NewBuilder()
	mod := b.Enter(tree.Node{Kind: tree.KindModule})
	comp := b.Enter(tree.Node{Kind: tree.KindListComprehension})
	clause := b.Enter(tree.Node{Kind: tree.KindCompClause, IsFirstClause: true})
	iterExpr := b.Name("outer_list")
	b.Exit() // clause
	b.Exit() // comp
	b.Exit() // mod

	tr := b.Tree()
	tr.Nodes[clause].Iter = iterExpr
	_ = comp
	got := EvaluationScope(tr, iterExpr)
	if got != mod {
		t.Fatalf("expected leaked iterable to resolve in enclosing module scope %d, got %d", mod, got)
	}
}

func TestEvaluationScope_SkipsClassBody(t *testing.T) {
	b := tree.NewBuilder()
	mod := b.Enter(tree.Node{Kind: tree.KindModule})
	b.Enter(tree.Node{Kind: tree.KindClass, Name: "C"})
	fn := b.Enter(tree.Node{Kind: tree.KindFunction, Name: "m"})
	name := b.Name("x")
	b.Exit()
	b.Exit()
	b.Exit()

	tr := b.Tree()
	got := EvaluationScope(tr, name)
	if got != fn {
		t.Fatalf("expected nearest function scope %d, got %d", fn, got)
	}
	_ = mod
}

func TestIsMatchingExpression_NameAndMemberAccess(t *testing.T) {
	b := tree.NewBuilder()
	r1 := b.Name("a")
	ref := b.Add(tree.Node{Kind: tree.KindMemberAccess, Receiver: r1, Member: "b"})
	r2 := b.Name("a")
	cand := b.Add(tree.Node{Kind: tree.KindMemberAccess, Receiver: r2, Member: "b"})

	tr := b.Tree()
	if !IsMatchingExpression(tr, ref, cand) {
		t.Fatalf("expected a.b to match a.b")
	}
}

func TestIsMatchingExpression_IndexWithVariableScalarFails(t *testing.T) {
	b := tree.NewBuilder()
	base1 := b.Name("a")
	key1 := b.Name("k") // variable subscript, not a literal
	ref := b.Add(tree.Node{Kind: tree.KindIndex, Base: base1, IndexExpr: key1})

	base2 := b.Name("a")
	key2 := b.Name("k")
	cand := b.Add(tree.Node{Kind: tree.KindIndex, Base: base2, IndexExpr: key2})

	tr := b.Tree()
	if IsMatchingExpression(tr, ref, cand) {
		t.Fatalf("expected variable-keyed index to never match")
	}
}

func TestIsMatchingExpression_IndexWithIntLiteral(t *testing.T) {
	b := tree.NewBuilder()
	base1 := b.Name("a")
	key1 := b.Add(tree.Node{Kind: tree.KindNumber, IsInt: true, IntValue: 0})
	ref := b.Add(tree.Node{Kind: tree.KindIndex, Base: base1, IndexExpr: key1})

	base2 := b.Name("a")
	key2 := b.Add(tree.Node{Kind: tree.KindNumber, IsInt: true, IntValue: 0})
	cand := b.Add(tree.Node{Kind: tree.KindIndex, Base: base2, IndexExpr: key2})

	tr := b.Tree()
	if !IsMatchingExpression(tr, ref, cand) {
		t.Fatalf("expected a[0] to match a[0]")
	}
}

func TestIsPartialMatchingExpression(t *testing.T) {
	b := tree.NewBuilder()
	a1 := b.Name("a")
	ab1 := b.Add(tree.Node{Kind: tree.KindMemberAccess, Receiver: a1, Member: "b"})
	abc := b.Add(tree.Node{Kind: tree.KindMemberAccess, Receiver: ab1, Member: "c"})

	a2 := b.Name("a")
	ab2 := b.Add(tree.Node{Kind: tree.KindMemberAccess, Receiver: a2, Member: "b"})

	tr := b.Tree()
	if !IsPartialMatchingExpression(tr, abc, ab2) {
		t.Fatalf("expected a.b to be a partial match of a.b.c")
	}
	if IsPartialMatchingExpression(tr, ab2, abc) {
		t.Fatalf("did not expect a.b.c to be a partial match of a.b")
	}
}

func TestIsWriteAccess_ForTarget(t *testing.T) {
	b := tree.NewBuilder()
	forNode := b.Enter(tree.Node{Kind: tree.KindFor})
	target := b.Name("x")
	iter := b.Name("xs")
	b.Exit()

	tr := b.Tree()
	tr.Nodes[forNode].Target = target
	tr.Nodes[forNode].Iter = iter
	if !IsWriteAccess(tr, target) {
		t.Fatalf("expected for-loop target to be a write access")
	}
	if IsWriteAccess(tr, iter) {
		t.Fatalf("did not expect the iterable to be a write access")
	}
}

func TestIsWriteAccess_AssignmentMultiTarget(t *testing.T) {
	b := tree.NewBuilder()
	assign := b.Enter(tree.Node{Kind: tree.KindAssignment})
	t1 := b.Name("x")
	t2 := b.Name("y")
	val := b.Name("z")
	b.Exit()

	tr := b.Tree()
	tr.Nodes[assign].Targets = []tree.Index{t1, t2}
	tr.Nodes[assign].Value = val
	if !IsWriteAccess(tr, t1) || !IsWriteAccess(tr, t2) {
		t.Fatalf("expected both assignment targets to be write accesses")
	}
	if IsWriteAccess(tr, val) {
		t.Fatalf("did not expect the RHS to be a write access")
	}
}

func TestIsDocstring(t *testing.T) {
	b := tree.NewBuilder()
	fn := b.Enter(tree.Node{Kind: tree.KindFunction, Name: "f"})
	doc := b.Add(tree.Node{Kind: tree.KindString, StringValue: "does a thing"})
	b.Exit()

	tr := b.Tree()
	tr.Nodes[fn].Body = []tree.Index{doc}

	if !IsDocstring(tr, doc) {
		t.Fatalf("expected first string statement in function body to be a docstring")
	}
}

func TestActiveArgument_FakePastEnd(t *testing.T) {
	b := tree.NewBuilder()
	fn := b.Name("f")
	a0 := b.Add(tree.Node{Kind: tree.KindArgument, Start: 2, End: 3})
	a1 := b.Add(tree.Node{Kind: tree.KindArgument, Start: 5, End: 6})
	call := b.Add(tree.Node{Kind: tree.KindCall, Func: fn, Args: []tree.Index{a0, a1}})

	tr := b.Tree()
	idx, fake, ok := ActiveArgument(tr, call, 10)
	if !ok || !fake || idx != 2 {
		t.Fatalf("expected fake slot 2 past the end, got idx=%d fake=%v ok=%v", idx, fake, ok)
	}

	idx2, fake2, ok2 := ActiveArgument(tr, call, 5)
	if !ok2 || fake2 || idx2 != 1 {
		t.Fatalf("expected real argument 1 at its own offset, got idx=%d fake=%v ok=%v", idx2, fake2, ok2)
	}
}
