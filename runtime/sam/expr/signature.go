package expr

import (
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/sbuf"
)

// Signatures computes the signatures of one olive run.  Static signatures
// are built once; dynamic ones once per input record and cached on its
// origin.
type Signatures struct {
	defs   []*dag.SignatureDef
	static []shesmu.Value
}

func NewSignatures(defs []*dag.SignatureDef) *Signatures {
	return &Signatures{defs: defs, static: make([]shesmu.Value, len(defs))}
}

func (s *Signatures) Len() int {
	return len(s.defs)
}

func (s *Signatures) Value(o *sbuf.Origin, slot int) shesmu.Value {
	def := s.defs[slot]
	if def.Def.Storage == definitions.Static {
		if s.static[slot] == nil {
			s.static[slot] = build(def, o.Input)
		}
		return s.static[slot]
	}
	if o.Sigs == nil {
		o.Sigs = make([]shesmu.Value, len(s.defs))
	}
	if o.Sigs[slot] == nil {
		o.Sigs[slot] = build(def, o.Input)
	}
	return o.Sigs[slot]
}

// Append extends an input record with all of its signatures.
func (s *Signatures) Append(input []shesmu.Value) []shesmu.Value {
	o := &sbuf.Origin{Input: input}
	out := make([]shesmu.Value, len(input), len(input)+len(s.defs))
	copy(out, input)
	for i := range s.defs {
		out = append(out, s.Value(o, i))
	}
	return out
}

func build(def *dag.SignatureDef, input []shesmu.Value) shesmu.Value {
	fields := make([]definitions.SignableField, 0, len(def.Fields))
	for i, slot := range def.Fields {
		fields = append(fields, definitions.SignableField{
			Name:  def.Names[i],
			Type:  def.Types[i],
			Value: input[slot],
		})
	}
	return def.Def.Signer.Build(fields)
}
