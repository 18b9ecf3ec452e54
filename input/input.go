// Package input provides the records olives read.  A Provider serves
// every record of one input format; providers are configured from YAML
// and cached between olive runs.
package input

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/runtime/cache"
)

type Provider interface {
	FormatName() string
	Variables() []definitions.Variable
	// Records returns every record in the order of Variables.
	Records(ctx context.Context) ([][]shesmu.Value, error)
}

// Format returns the input format a provider serves.
func Format(p Provider) *definitions.InputFormat {
	vars := append([]definitions.Variable(nil), p.Variables()...)
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return &definitions.InputFormat{Name: p.FormatName(), Variables: vars}
}

// Static serves fixed records.
type Static struct {
	Name string
	Vars []definitions.Variable
	Recs [][]shesmu.Value
}

func (s *Static) FormatName() string                { return s.Name }
func (s *Static) Variables() []definitions.Variable { return s.Vars }

func (s *Static) Records(context.Context) ([][]shesmu.Value, error) {
	return s.Recs, nil
}

// Set holds the providers of a server keyed by format name.
type Set struct {
	providers map[string]Provider
	caches    map[string]*cache.ValueCache[[][]shesmu.Value]
}

func NewSet() *Set {
	return &Set{
		providers: make(map[string]Provider),
		caches:    make(map[string]*cache.ValueCache[[][]shesmu.Value]),
	}
}

// Add registers p with its records cached for ttl.
func (s *Set) Add(p Provider, ttl time.Duration) error {
	name := p.FormatName()
	if _, ok := s.providers[name]; ok {
		return fmt.Errorf("input format %q defined twice", name)
	}
	s.providers[name] = p
	s.caches[name] = cache.NewValueCache("input_"+name, ttl, cache.ReplacingRecord[[][]shesmu.Value]{}, p.Records)
	return nil
}

// Format returns the input format named name.
func (s *Set) Format(name string) (*definitions.InputFormat, bool) {
	p, ok := s.providers[name]
	if !ok {
		return nil, false
	}
	return Format(p), true
}

// Register adds the format of every provider to reg.
func (s *Set) Register(reg *definitions.Registry) error {
	for _, name := range s.Names() {
		if err := reg.AddFormat(Format(s.providers[name])); err != nil {
			return err
		}
	}
	return nil
}

func (s *Set) Names() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Records returns the records of format with their fields permuted into
// the sorted variable order of Format.  A failed refresh falls back to
// the last good records, if there are any.
func (s *Set) Records(ctx context.Context, format string) ([][]shesmu.Value, error) {
	c, ok := s.caches[format]
	if !ok {
		return nil, fmt.Errorf("no provider for input format %q", format)
	}
	recs, err := c.Get(ctx)
	if err != nil && c.LastUpdate().IsZero() {
		return nil, fmt.Errorf("input format %s: %w", format, err)
	}
	return permute(s.providers[format].Variables(), recs), nil
}

// Invalidate forces the next read of format to refetch.
func (s *Set) Invalidate(format string) {
	if c, ok := s.caches[format]; ok {
		c.Invalidate()
	}
}

// Bind fixes ctx for readers that take only a format name.
func (s *Set) Bind(ctx context.Context) *Bound {
	return &Bound{ctx: ctx, set: s}
}

type Bound struct {
	ctx context.Context
	set *Set
}

func (b *Bound) Records(format string) ([][]shesmu.Value, error) {
	return b.set.Records(b.ctx, format)
}

func permute(vars []definitions.Variable, recs [][]shesmu.Value) [][]shesmu.Value {
	order := make([]int, len(vars))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return vars[order[i]].Name < vars[order[j]].Name })
	sorted := true
	for i, o := range order {
		if i != o {
			sorted = false
			break
		}
	}
	if sorted {
		return recs
	}
	out := make([][]shesmu.Value, 0, len(recs))
	for _, r := range recs {
		row := make([]shesmu.Value, len(order))
		for i, o := range order {
			row[i] = r[o]
		}
		out = append(out, row)
	}
	return out
}
