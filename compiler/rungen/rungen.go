// Package rungen lowers an analyzed olive onto a Target.  A Target turns
// each stream operation into whatever executes it: the interpreter in
// runtime/sam builds a chain of pullers, other targets may generate code.
package rungen

import (
	"fmt"

	"github.com/oicr-gsi/shesmu/compiler/dag"
)

// Target receives the operations of one olive in stream order.  Signature
// is called for every signature before any stream operation and Action
// is called last.  BeginCall and EndCall bracket the operations of a
// Define.
type Target interface {
	Signature(slot int, def *dag.SignatureDef) error
	Filter(*dag.FilterOp) error
	Map(*dag.LetOp) error
	Flatten(*dag.FlattenOp) error
	Group(*dag.GroupOp) error
	Join(*dag.JoinOp) error
	Dump(*dag.DumpOp) error
	BeginCall(*dag.CallOp) error
	EndCall(*dag.CallOp) error
	Action(*dag.ActionOp) error
}

// Lower emits olive onto t.
func Lower(olive *dag.Olive, t Target) error {
	for slot, def := range olive.Signatures {
		if err := t.Signature(slot, def); err != nil {
			return err
		}
	}
	if err := lowerSeq(olive.Body, t); err != nil {
		return err
	}
	if olive.Action == nil {
		return fmt.Errorf("olive %s has no action", olive.Name)
	}
	return t.Action(olive.Action)
}

func lowerSeq(seq dag.Seq, t Target) error {
	for _, op := range seq {
		if err := lowerOp(op, t); err != nil {
			return err
		}
	}
	return nil
}

func lowerOp(op dag.Op, t Target) error {
	switch op := op.(type) {
	case *dag.FilterOp:
		return t.Filter(op)
	case *dag.LetOp:
		return t.Map(op)
	case *dag.FlattenOp:
		return t.Flatten(op)
	case *dag.GroupOp:
		return t.Group(op)
	case *dag.JoinOp:
		return t.Join(op)
	case *dag.DumpOp:
		return t.Dump(op)
	case *dag.CallOp:
		if err := t.BeginCall(op); err != nil {
			return err
		}
		if err := lowerSeq(op.Body, t); err != nil {
			return err
		}
		return t.EndCall(op)
	case *dag.ActionOp:
		return fmt.Errorf("action %s inside olive body", op.Name)
	}
	return fmt.Errorf("unknown operator type: %T", op)
}
