package rungen

import (
	"testing"

	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) Signature(_ int, def *dag.SignatureDef) error {
	r.calls = append(r.calls, "signature "+def.Name)
	return nil
}

func (r *recorder) Filter(*dag.FilterOp) error   { r.add("filter"); return nil }
func (r *recorder) Map(*dag.LetOp) error         { r.add("map"); return nil }
func (r *recorder) Flatten(*dag.FlattenOp) error { r.add("flatten"); return nil }
func (r *recorder) Group(*dag.GroupOp) error     { r.add("group"); return nil }
func (r *recorder) Join(*dag.JoinOp) error       { r.add("join"); return nil }
func (r *recorder) Dump(*dag.DumpOp) error       { r.add("dump"); return nil }

func (r *recorder) BeginCall(op *dag.CallOp) error {
	r.add("call " + op.Name)
	return nil
}

func (r *recorder) EndCall(op *dag.CallOp) error {
	r.add("end " + op.Name)
	return nil
}

func (r *recorder) Action(op *dag.ActionOp) error {
	r.add("action " + op.Name)
	return nil
}

func (r *recorder) add(s string) {
	r.calls = append(r.calls, s)
}

func TestLowerOrder(t *testing.T) {
	olive := &dag.Olive{
		Name:       "test.shesmu:1:1",
		Signatures: []*dag.SignatureDef{{Name: "sha1_signature"}},
		Body: dag.Seq{
			&dag.FilterOp{Kind: "FilterOp"},
			&dag.CallOp{Kind: "CallOp", Name: "standard", Body: dag.Seq{
				&dag.LetOp{Kind: "LetOp"},
				&dag.FlattenOp{Kind: "FlattenOp"},
			}},
			&dag.GroupOp{Kind: "GroupOp"},
			&dag.JoinOp{Kind: "JoinOp"},
			&dag.DumpOp{Kind: "DumpOp"},
		},
		Action: &dag.ActionOp{Kind: "ActionOp", Name: "nothing"},
	}
	var r recorder
	require.NoError(t, Lower(olive, &r))
	assert.Equal(t, []string{
		"signature sha1_signature",
		"filter",
		"call standard",
		"map",
		"flatten",
		"end standard",
		"group",
		"join",
		"dump",
		"action nothing",
	}, r.calls)
}

func TestLowerWithoutAction(t *testing.T) {
	var r recorder
	err := Lower(&dag.Olive{Name: "x"}, &r)
	assert.EqualError(t, err, "olive x has no action")
}
