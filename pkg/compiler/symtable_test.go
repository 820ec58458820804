package compiler

import (
	"reflect"
	"testing"
)

func TestSymbolTable(t *testing.T) {
	t.Run("DeclareVariable", func(t *testing.T) {
		s := NewSymbolTable()
		at := Position{Offset: 0, Line: 1, Column: 1}
		sym, found := s.DeclareVariable("x", TypeInt, at)
		if found {
			t.Fatal("x reported as already declared")
		}
		if sym.Kind != Variable || sym.Type != TypeInt || sym.DeclaredAt != at {
			t.Errorf("unexpected symbol %+v", sym)
		}

		// Re-declaring keeps the first declaration.
		again, found := s.DeclareVariable("x", TypeString, Position{Line: 9, Column: 9})
		if !found {
			t.Fatal("second declaration of x not reported as found")
		}
		if again.Type != TypeInt || again.DeclaredAt != at {
			t.Errorf("existing symbol was overwritten: %+v", again)
		}
		if s.Len() != 1 {
			t.Errorf("Len = %d, want 1", s.Len())
		}
	})

	t.Run("DeclareFunction", func(t *testing.T) {
		s := NewSymbolTable()
		params := []string{TypeInt, TypeInt}
		sym, _ := s.DeclareFunction("max", TypeInt, params)
		params[0] = TypeString
		if !reflect.DeepEqual(sym.Params, []string{TypeInt, TypeInt}) {
			t.Errorf("params aliased caller slice: %v", sym.Params)
		}

		noArgs, _ := s.DeclareFunction("now", TypeInt, nil)
		if noArgs.Params == nil || len(noArgs.Params) != 0 {
			t.Errorf("nil params should become an empty list, got %#v", noArgs.Params)
		}
	})

	t.Run("SetType", func(t *testing.T) {
		s := NewSymbolTable()
		s.DeclareVariable("v", TypeInt, Position{})
		s.DeclareFunction("f", TypeInt, nil)
		s.SetType("v", TypeAny)
		s.SetType("f", TypeAny)
		s.SetType("missing", TypeAny)

		if sym, _ := s.Lookup("v"); sym.Type != TypeAny {
			t.Errorf("v type = %s, want any", sym.Type)
		}
		if sym, _ := s.Lookup("f"); sym.Type != TypeInt {
			t.Errorf("function return type changed to %s", sym.Type)
		}
		if _, ok := s.Lookup("missing"); ok {
			t.Error("SetType created a symbol")
		}
	})

	t.Run("Declare", func(t *testing.T) {
		s := NewSymbolTable()
		s.Declare(Symbol{Name: "len", Kind: Function, Type: TypeInt, Params: []string{TypeString}})
		s.Declare(Symbol{Name: "limit", Kind: Variable, Type: TypeInt})

		fn, ok := s.Lookup("len")
		if !ok || fn.Kind != Function {
			t.Fatalf("len not declared as function: %+v", fn)
		}
		v, ok := s.Lookup("limit")
		if !ok || v.Kind != Variable || v.Params != nil {
			t.Fatalf("limit not declared as variable: %+v", v)
		}
	})
}

func TestSymbolTableString(t *testing.T) {
	s := NewSymbolTable()
	if got := s.String(); got != "Symbols: (empty)\n" {
		t.Errorf("empty table = %q", got)
	}

	s.DeclareVariable("zeta", TypeString, Position{})
	s.DeclareVariable("alpha", TypeInt, Position{})
	s.DeclareFunction("clamp", TypeInt, []string{TypeInt, TypeInt, TypeInt})

	want := "Symbols:\n" +
		"  alpha                 Variable (Type: int)\n" +
		"  clamp                 Function (Returns: int, Params: [int, int, int])\n" +
		"  zeta                  Variable (Type: string)\n"
	if got := s.String(); got != want {
		t.Errorf("String mismatch:\n got\n%s\n want\n%s", got, want)
	}

	// Insertion order never leaks into the dump.
	other := NewSymbolTable()
	other.DeclareFunction("clamp", TypeInt, []string{TypeInt, TypeInt, TypeInt})
	other.DeclareVariable("alpha", TypeInt, Position{})
	other.DeclareVariable("zeta", TypeString, Position{})
	if other.String() != s.String() {
		t.Error("dump depends on insertion order")
	}
}

func TestSymbolsSorted(t *testing.T) {
	s := NewSymbolTable()
	for _, n := range []string{"c", "a", "b"} {
		s.DeclareVariable(n, TypeAny, Position{})
	}
	var names []string
	for _, sym := range s.Symbols() {
		names = append(names, sym.Name)
	}
	if !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Errorf("Symbols order = %v", names)
	}
}
