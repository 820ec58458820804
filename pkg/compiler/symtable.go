package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolKind distinguishes variables from host-provided functions.
type SymbolKind int

const (
	Variable SymbolKind = iota
	Function
)

func (k SymbolKind) String() string {
	if k == Function {
		return "function"
	}
	return "variable"
}

// Simple value types tracked for symbols.
const (
	TypeInt    = "int"
	TypeString = "string"
	TypeBool   = "bool"
	TypeNull   = "null"
	TypeAny    = "any"
)

// Symbol is the declaration metadata of one identifier.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Type is the variable type, or the return type of a function.
	Type string
	// Params holds the parameter types of a function; nil for variables.
	Params []string
	// DeclaredAt is the position of the first assignment, or the zero
	// Position for predeclared symbols.
	DeclaredAt Position
}

// SymbolTable maps identifier names to their declaration metadata. There is
// a single global scope and entries are never removed. One table belongs to
// exactly one analysis run.
type SymbolTable struct {
	symbols map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

// DeclareVariable records a variable. If name already exists the existing
// symbol is returned with found set.
func (s *SymbolTable) DeclareVariable(name, varType string, at Position) (Symbol, bool) {
	if sym, ok := s.symbols[name]; ok {
		return sym, true
	}
	sym := Symbol{Name: name, Kind: Variable, Type: varType, DeclaredAt: at}
	s.symbols[name] = sym
	return sym, false
}

// DeclareFunction records a function with its return and parameter types.
// If name already exists the existing symbol is returned with found set.
func (s *SymbolTable) DeclareFunction(name, returnType string, params []string) (Symbol, bool) {
	if sym, ok := s.symbols[name]; ok {
		return sym, true
	}
	sym := Symbol{Name: name, Kind: Function, Type: returnType, Params: append([]string{}, params...)}
	s.symbols[name] = sym
	return sym, false
}

// Declare records sym as is, unless its name is already taken.
func (s *SymbolTable) Declare(sym Symbol) (Symbol, bool) {
	if sym.Kind == Function {
		return s.DeclareFunction(sym.Name, sym.Type, sym.Params)
	}
	return s.DeclareVariable(sym.Name, sym.Type, sym.DeclaredAt)
}

// SetType changes the recorded type of an existing variable.
func (s *SymbolTable) SetType(name, varType string) {
	if sym, ok := s.symbols[name]; ok && sym.Kind == Variable {
		sym.Type = varType
		s.symbols[name] = sym
	}
}

// Lookup returns the symbol and whether it was found.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Len returns the number of symbols.
func (s *SymbolTable) Len() int { return len(s.symbols) }

// Symbols returns every symbol sorted by name.
func (s *SymbolTable) Symbols() []Symbol {
	names := make([]string, 0, len(s.symbols))
	for name := range s.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Symbol, len(names))
	for i, name := range names {
		out[i] = s.symbols[name]
	}
	return out
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	if len(s.symbols) == 0 {
		return "Symbols: (empty)\n"
	}
	var sb strings.Builder
	sb.WriteString("Symbols:\n")
	for _, sym := range s.Symbols() {
		switch sym.Kind {
		case Function:
			fmt.Fprintf(&sb, "  %-20s  Function (Returns: %s, Params: [%s])\n", sym.Name, sym.Type, strings.Join(sym.Params, ", "))
		default:
			fmt.Fprintf(&sb, "  %-20s  Variable (Type: %s)\n", sym.Name, sym.Type)
		}
	}
	return sb.String()
}
