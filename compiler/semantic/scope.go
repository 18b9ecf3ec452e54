package semantic

import (
	"fmt"
	"slices"

	"github.com/oicr-gsi/shesmu/compiler/ast"
	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
)

// flavour says where a name lives at run time and how reading it affects
// signature tracking.
type flavour int

const (
	constant flavour = iota
	function
	param
	local
	stream
	// Signable stream variables are input variables that contribute to
	// signatures when read while the stream is pure.
	streamSignable
	streamSignature
)

func (f flavour) isStream() bool {
	return f >= stream
}

type Scope struct {
	parent  *Scope
	symbols map[string]*entry
	// order of definition, used to lay out stream records
	names []string
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: make(map[string]*entry)}
}

type entry struct {
	ref     dag.Expr
	flavour flavour
	// signables receives the names of signable variables read from
	// this entry.  Nil when reads are not tracked.
	signables *nameSet
	// base is the unprefixed input variable name of a signable variable.
	base    string
	fn      *funcInfo
	sig     *definitions.Signature
	sigs    *sigTable
	sigBase int
}

func (s *Scope) DefineAs(name *ast.ID, e *entry) error {
	if _, ok := s.symbols[name.Name]; ok {
		return fmt.Errorf("symbol %q redefined", name.Name)
	}
	s.symbols[name.Name] = e
	s.names = append(s.names, name.Name)
	return nil
}

func (s *Scope) lookupEntry(name string) *entry {
	for scope := s; scope != nil; scope = scope.parent {
		if entry, ok := scope.symbols[name]; ok {
			return entry
		}
	}
	return nil
}

// streamNames returns the stream variables defined directly in s in
// definition order.
func (s *Scope) streamNames() []string {
	var names []string
	for _, name := range s.names {
		if s.symbols[name].flavour.isStream() && s.symbols[name].flavour != streamSignature {
			names = append(names, name)
		}
	}
	return names
}

// allNames lists every name visible from s for spelling suggestions.
func (s *Scope) allNames() []string {
	var names []string
	for scope := s; scope != nil; scope = scope.parent {
		names = append(names, scope.names...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// nameSet is an insertion-ordered set of variable names.
type nameSet struct {
	names []string
}

func (n *nameSet) add(name string) {
	if !slices.Contains(n.names, name) {
		n.names = append(n.names, name)
	}
}

func (n *nameSet) has(name string) bool {
	return n != nil && slices.Contains(n.names, name)
}

func (n *nameSet) sorted() []string {
	names := slices.Clone(n.names)
	slices.Sort(names)
	return names
}
