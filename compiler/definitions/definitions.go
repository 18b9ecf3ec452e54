// Package definitions holds the explicit registry of everything an olive
// can refer to that is not declared in its own source: input formats,
// actions, functions, constants, signatures and dumpers.
package definitions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/oicr-gsi/shesmu"
)

// Variable is a field of an input format record.
type Variable struct {
	Name     string      `json:"name" yaml:"name"`
	Type     shesmu.Type `json:"-" yaml:"-"`
	Signable bool        `json:"signable" yaml:"signable"`
}

// InputFormat describes the records an input provider produces.  Record
// values are positional in the order of Variables.
type InputFormat struct {
	Name      string
	Variables []Variable
}

// IndexOf returns the position of the named variable or -1.
func (f *InputFormat) IndexOf(name string) int {
	return slices.IndexFunc(f.Variables, func(v Variable) bool {
		return v.Name == name
	})
}

// ObjectType is the type of a record of f as seen by "For x In Input".
func (f *InputFormat) ObjectType() shesmu.Type {
	fields := make([]shesmu.Field, 0, len(f.Variables))
	for _, v := range f.Variables {
		fields = append(fields, shesmu.NewField(v.Name, v.Type))
	}
	return shesmu.NewTypeObject(fields)
}

type Param struct {
	Name     string
	Type     shesmu.Type
	Required bool
}

// Action is a kind of action an olive can Run.
type Action struct {
	Name        string
	Description string
	Params      []Param
}

func (a *Action) Param(name string) *Param {
	for i := range a.Params {
		if a.Params[i].Name == name {
			return &a.Params[i]
		}
	}
	return nil
}

// Func is the implementation of a function.  Functions are pure; invalid
// input is reported through an optional result type rather than an error.
type Func func(args []shesmu.Value) shesmu.Value

type Function struct {
	Name        string
	Description string
	Params      []shesmu.Type
	Result      shesmu.Type
	Impl        Func
}

type Constant struct {
	Name  string
	Type  shesmu.Type
	Value shesmu.Value
}

type Storage int

const (
	// Dynamic signatures are computed for every record.
	Dynamic Storage = iota
	// Static signatures depend only on which variables are signable and
	// are computed once per olive run.
	Static
)

func (s Storage) String() string {
	if s == Static {
		return "static"
	}
	return "dynamic"
}

// SignableField is a signable variable supplied to a signer.  Value is nil
// for static signatures.
type SignableField struct {
	Name  string
	Type  shesmu.Type
	Value shesmu.Value
}

// Signer computes a signature over the signable variables an olive uses.
// Fields are sorted by name.
type Signer interface {
	Build(fields []SignableField) shesmu.Value
}

type Signature struct {
	Name    string
	Type    shesmu.Type
	Storage Storage
	Signer  Signer
}

// Dumper receives the rows written by a Dump clause.
type Dumper interface {
	Dump(names []string, types []shesmu.Type, values []shesmu.Value) error
}

// Registry is populated at process start.  It is not safe for concurrent
// modification but may be read concurrently once populated.
type Registry struct {
	formats    map[string]*InputFormat
	actions    map[string]*Action
	functions  map[string]*Function
	constants  map[string]*Constant
	signatures map[string]*Signature
	dumpers    map[string]Dumper
}

func NewRegistry() *Registry {
	return &Registry{
		formats:    make(map[string]*InputFormat),
		actions:    make(map[string]*Action),
		functions:  make(map[string]*Function),
		constants:  make(map[string]*Constant),
		signatures: make(map[string]*Signature),
		dumpers:    make(map[string]Dumper),
	}
}

func add[T any](m map[string]T, what, name string, v T) error {
	if _, ok := m[name]; ok {
		return fmt.Errorf("%s %q registered twice", what, name)
	}
	m[name] = v
	return nil
}

func (r *Registry) AddFormat(f *InputFormat) error {
	return add(r.formats, "input format", f.Name, f)
}

func (r *Registry) AddAction(a *Action) error {
	return add(r.actions, "action", a.Name, a)
}

func (r *Registry) AddFunction(f *Function) error {
	return add(r.functions, "function", f.Name, f)
}

func (r *Registry) AddConstant(c *Constant) error {
	return add(r.constants, "constant", c.Name, c)
}

func (r *Registry) AddSignature(s *Signature) error {
	return add(r.signatures, "signature", s.Name, s)
}

func (r *Registry) AddDumper(name string, d Dumper) error {
	return add(r.dumpers, "dumper", name, d)
}

func (r *Registry) Format(name string) *InputFormat   { return r.formats[name] }
func (r *Registry) Action(name string) *Action        { return r.actions[name] }
func (r *Registry) Function(name string) *Function    { return r.functions[name] }
func (r *Registry) Constant(name string) *Constant    { return r.constants[name] }
func (r *Registry) Signature(name string) *Signature  { return r.signatures[name] }
func (r *Registry) Dumper(name string) (Dumper, bool) { d, ok := r.dumpers[name]; return d, ok }

// Signatures returns every signature sorted by name.
func (r *Registry) Signatures() []*Signature {
	out := make([]*Signature, 0, len(r.signatures))
	for _, s := range r.signatures {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Signature) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Closest returns the candidate nearest to name by edit distance, if any
// is close enough to be a plausible typo.
func Closest(name string, candidates []string) (string, bool) {
	best, bestDist := "", len(name)/2+2
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist || d == bestDist && c < best {
			best, bestDist = c, d
		}
	}
	return best, best != ""
}

// Names lists every name that can appear in an expression: functions,
// constants and signatures.
func (r *Registry) Names() []string {
	var names []string
	for name := range r.functions {
		names = append(names, name)
	}
	for name := range r.constants {
		names = append(names, name)
	}
	for name := range r.signatures {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) FormatNames() []string {
	return sortedKeys(r.formats)
}

func (r *Registry) ActionNames() []string {
	return sortedKeys(r.actions)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
