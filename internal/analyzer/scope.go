package analyzer

import "fmt"

// Scope hands out synthesized class names for untitled object schemas. Names
// are "DataClass1", "DataClass2", ... in the order the analyzer meets the
// schemas: depth-first, in property order.
//
// A Scope is owned by its caller. Reusing it across compilations continues the
// sequence; Reset or a new Scope starts again at 1. It is not safe for
// concurrent use.
type Scope struct {
	last int
}

// NewScope returns a scope whose first name is "DataClass1".
func NewScope() *Scope {
	return &Scope{}
}

// Next consumes the next number and returns the name built from it.
func (s *Scope) Next() string {
	s.last++
	return fmt.Sprintf("DataClass%d", s.last)
}

// Last returns the most recently consumed number, 0 if none.
func (s *Scope) Last() int {
	return s.last
}

// Reset starts the sequence again at 1.
func (s *Scope) Reset() {
	s.last = 0
}

func (s *Scope) fork() *Scope {
	return &Scope{last: s.last}
}

func (s *Scope) commit(from *Scope) {
	s.last = from.last
}
