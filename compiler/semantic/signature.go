package semantic

import (
	"slices"

	"github.com/oicr-gsi/shesmu/compiler/ast"
	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
)

// sigTable tracks the signatures used against records of one input format
// and the signable variables of that format that were read.
type sigTable struct {
	format    *definitions.InputFormat
	signables *nameSet
	used      []*definitions.Signature
	// Inner tables of a LeftJoin are materialized as extra slots of the
	// inner record rather than computed from the olive's origin record.
	inner bool
}

func newSigTable(format *definitions.InputFormat, inner bool) *sigTable {
	return &sigTable{format: format, signables: &nameSet{}, inner: inner}
}

func (t *sigTable) slot(sig *definitions.Signature) int {
	if i := slices.Index(t.used, sig); i >= 0 {
		return i
	}
	t.used = append(t.used, sig)
	return len(t.used) - 1
}

// ref returns a reference to sig.  Inner signatures are stream slots
// following the inner record at base.
func (t *sigTable) ref(sig *definitions.Signature, base int) dag.Expr {
	slot := t.slot(sig)
	if t.inner {
		return &dag.StreamRef{Kind: "StreamRef", Name: sig.Name, Slot: base + slot, Type: sig.Type}
	}
	return &dag.SignatureRef{Kind: "SignatureRef", Name: sig.Name, Slot: slot, Type: sig.Type}
}

// defs resolves the used signatures against the final signable set.
func (t *sigTable) defs() []*dag.SignatureDef {
	var names []string
	var fields []int
	for _, name := range t.signables.sorted() {
		if i := t.format.IndexOf(name); i >= 0 {
			names = append(names, name)
			fields = append(fields, i)
		}
	}
	defs := make([]*dag.SignatureDef, 0, len(t.used))
	for _, sig := range t.used {
		def := &dag.SignatureDef{Name: sig.Name, Def: sig, Fields: fields, Names: names}
		for _, i := range fields {
			def.Types = append(def.Types, t.format.Variables[i].Type)
		}
		defs = append(defs, def)
	}
	return defs
}

// defineFormat adds the variables of format to scope as stream slots
// starting at base, optionally prefixed, followed by the registry's
// signatures computed by sigs.
func (a *analyzer) defineFormat(scope *Scope, format *definitions.InputFormat, prefix string, base int, sigs *sigTable) {
	for i, v := range format.Variables {
		flav := stream
		if v.Signable {
			flav = streamSignable
		}
		name := prefix + v.Name
		ref := &dag.StreamRef{Kind: "StreamRef", Name: name, Slot: base + i, Type: v.Type}
		scope.DefineAs(&ast.ID{Name: name}, &entry{ref: ref, flavour: flav, signables: sigs.signables, base: v.Name})
	}
	a.defineSignatures(scope, prefix, base+len(format.Variables), sigs)
}

func (a *analyzer) defineSignatures(scope *Scope, prefix string, base int, sigs *sigTable) {
	for _, sig := range a.reg.Signatures() {
		name := &ast.ID{Name: prefix + sig.Name}
		if scope.symbols[name.Name] != nil {
			continue
		}
		scope.DefineAs(name, &entry{flavour: streamSignature, sig: sig, sigs: sigs, sigBase: base})
	}
}
