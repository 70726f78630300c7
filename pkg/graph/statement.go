// Copyright (c) 2024 Redis Hexastore Go Contributors
//
// Permission is hereby granted, free of charge, to any person
// obtaining a copy of this software and associated documentation
// files (the "Software"), to deal in the Software without
// restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the
// Software is furnished to do so, subject to the following
// conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package graph

// Term is one field of a search statement: either a literal value or a
// variable. The zero Term is neither and is rejected by searches.
//
// Use the constructor functions to create terms:
//   - Lit(string) for a concrete value
//   - Var(*Variable) for a placeholder
type Term struct {
	kind     termKind
	value    string
	variable *Variable
}

type termKind int

const (
	termInvalid termKind = iota
	termLiteral
	termVariable
)

// Lit creates a Term that matches exactly value.
func Lit(value string) Term {
	return Term{kind: termLiteral, value: value}
}

// Var creates a Term that binds the matched value to v.
func Var(v *Variable) Term {
	if v == nil {
		return Term{}
	}
	return Term{kind: termVariable, variable: v}
}

// IsLiteral returns true if this term is a concrete value.
func (t Term) IsLiteral() bool {
	return t.kind == termLiteral
}

// IsVariable returns true if this term is a placeholder.
func (t Term) IsVariable() bool {
	return t.kind == termVariable
}

// Value returns the literal value, or "" for variables.
func (t Term) Value() string {
	if t.kind == termLiteral {
		return t.value
	}
	return ""
}

// Variable returns the placeholder, or nil for literals.
func (t Term) Variable() *Variable {
	if t.kind == termVariable {
		return t.variable
	}
	return nil
}

// String renders literals as themselves and variables as ?name.
func (t Term) String() string {
	switch t.kind {
	case termLiteral:
		return t.value
	case termVariable:
		return "?" + t.variable.Name
	default:
		return "<invalid>"
	}
}

// Statement is a triple pattern evaluated by a search.
type Statement struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewStatement creates a Statement from three terms.
func NewStatement(subject, predicate, object Term) Statement {
	return Statement{Subject: subject, Predicate: predicate, Object: object}
}

// Term returns the term at the specified position.
func (s Statement) Term(p Position) Term {
	switch p {
	case Subject:
		return s.Subject
	case Predicate:
		return s.Predicate
	case Object:
		return s.Object
	default:
		return Term{}
	}
}

// Literals returns the partial triple formed by the literal terms.
func (s Statement) Literals() Triple {
	var t Triple
	for _, p := range Positions {
		if term := s.Term(p); term.IsLiteral() {
			t.Set(p, term.value)
		}
	}
	return t
}

// VariableFields returns the variable at each position that holds one.
func (s Statement) VariableFields() map[Position]*Variable {
	result := make(map[Position]*Variable, 3)
	for _, p := range Positions {
		if v := s.Term(p).Variable(); v != nil {
			result[p] = v
		}
	}
	return result
}

// String renders the statement as three space-separated terms.
func (s Statement) String() string {
	return s.Subject.String() + " " + s.Predicate.String() + " " + s.Object.String()
}
