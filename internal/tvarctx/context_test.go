package tvarctx

import (
	"testing"

	"github.com/funvibe/typeeval/internal/types"
)

func TestHasSolveForScope(t *testing.T) {
	c := New("fn1")
	if !c.HasSolveForScope("fn1") {
		t.Fatalf("expected fn1 to be in the solve-for set")
	}
	if c.HasSolveForScope("fn2") {
		t.Fatalf("did not expect fn2 to be in the solve-for set")
	}
}

func TestSetAndGet(t *testing.T) {
	c := New("fn1")
	tv := types.TypeVarType{Name: "T", ScopeID: "fn1"}
	c.Set(tv, Entry{Narrow: types.NewClassInstance("int")})

	e, ok := c.Get(tv)
	if !ok {
		t.Fatalf("expected entry to be present")
	}
	if ct, ok := e.Narrow.(types.ClassType); !ok || ct.Name != "int" {
		t.Fatalf("expected narrow bound int, got %v", e.Narrow)
	}
}

func TestLockStopsFurtherWrites(t *testing.T) {
	c := New("fn1")
	tv := types.TypeVarType{Name: "T", ScopeID: "fn1"}
	c.Set(tv, Entry{Narrow: types.NewClassInstance("int")})
	c.Lock()
	c.Set(tv, Entry{Narrow: types.NewClassInstance("str")})

	e, _ := c.Get(tv)
	if ct, ok := e.Narrow.(types.ClassType); !ok || ct.Name != "int" {
		t.Fatalf("expected the lock to have frozen narrow at int, got %v", e.Narrow)
	}
	if !c.Locked() {
		t.Fatalf("expected context to report locked")
	}
}

func TestConcreteImplementsResolver(t *testing.T) {
	c := New("fn1")
	tv := types.TypeVarType{Name: "T", ScopeID: "fn1"}
	c.Set(tv, Entry{Wide: types.NewClassInstance("object")})

	var r types.Resolver = c
	resolved, ok := r.Concrete(tv)
	if !ok {
		t.Fatalf("expected resolver hit")
	}
	if ct, ok := resolved.(types.ClassType); !ok || ct.Name != "object" {
		t.Fatalf("expected fallback to wide bound object, got %v", resolved)
	}
}

func TestParamSpecBinding(t *testing.T) {
	c := New("fn1")
	tv := types.TypeVarType{Name: "P", ScopeID: "fn1", IsParamSpec: true}
	binding := ParamSpecBinding{Parameters: []types.Parameter{{Name: "x", Category: types.ParamSimple}}}
	c.SetParamSpec(tv, binding)

	got, ok := c.GetParamSpec(tv)
	if !ok || len(got.Parameters) != 1 || got.Parameters[0].Name != "x" {
		t.Fatalf("expected stored param spec binding, got %+v ok=%v", got, ok)
	}
}
