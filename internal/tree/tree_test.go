package tree

import "testing"

func TestAddAndParentOf(t *testing.T) {
	b := NewBuilder()
	mod := b.Enter(Node{Kind: KindModule})
	fn := b.Enter(Node{Kind: KindFunction, Name: "f"})
	name := b.Name("x")
	b.Exit() // back to fn
	b.Exit() // back to mod

	tr := b.Tree()
	if tr.ParentOf(name) != fn {
		t.Fatalf("expected %d's parent to be %d, got %d", name, fn, tr.ParentOf(name))
	}
	if tr.ParentOf(fn) != mod {
		t.Fatalf("expected %d's parent to be %d, got %d", fn, mod, tr.ParentOf(fn))
	}
	if tr.ParentOf(mod) != NoIndex {
		t.Fatalf("expected root's parent to be NoIndex, got %d", tr.ParentOf(mod))
	}
}

func TestKindOf(t *testing.T) {
	b := NewBuilder()
	idx := b.Add(Node{Kind: KindNumber, IsInt: true, IntValue: 5})
	if b.Tree().KindOf(idx) != KindNumber {
		t.Fatalf("expected KindNumber, got %s", b.Tree().KindOf(idx))
	}
}

func TestGetReturnsStoredNode(t *testing.T) {
	b := NewBuilder()
	idx := b.Add(Node{Kind: KindString, StringValue: "hello"})
	if got := b.Tree().Get(idx).StringValue; got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
}

func TestKindStringer(t *testing.T) {
	if KindCall.String() != "Call" {
		t.Fatalf("expected %q, got %q", "Call", KindCall.String())
	}
	if Kind(999).String() != "?" {
		t.Fatalf("expected %q for out-of-range kind, got %q", "?", Kind(999).String())
	}
}

func TestCompClauseIsFirstClauseFlag(t *testing.T) {
	b := NewBuilder()
	comp := b.Enter(Node{Kind: KindListComprehension})
	outer := b.Add(Node{Kind: KindCompClause, IsFirstClause: true})
	inner := b.Add(Node{Kind: KindCompClause, IsFirstClause: false})
	b.Exit()

	tr := b.Tree()
	if !tr.Get(outer).IsFirstClause {
		t.Fatalf("expected outer clause to be marked first")
	}
	if tr.Get(inner).IsFirstClause {
		t.Fatalf("expected inner clause not to be marked first")
	}
	if tr.ParentOf(outer) != comp {
		t.Fatalf("expected clause's parent to be the comprehension node")
	}
}
