// Package action holds the actions olives produce and the sinks that
// receive them.
package action

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"github.com/minio/highwayhash"
	"github.com/oicr-gsi/shesmu"
)

//go:generate go tool mockgen -source=action.go -destination=mock/mock_action.go -package=mock

// Sink receives actions.  Emit must be idempotent by fingerprint: an
// action whose fingerprint the sink has seen before is ignored.  Emit
// reports whether the action was new.
type Sink interface {
	Emit(ctx context.Context, a *Action) (bool, error)
}

type Param struct {
	Name  string
	Type  shesmu.Type
	Value shesmu.Value
}

// Action is one Run of an olive for one record.  Params are sorted by
// name.
type Action struct {
	Kind        string
	Olive       string
	Description string
	Tags        []string
	Params      []Param
}

// Fingerprint identifies an action by its kind and parameter values.
// Two actions with the same fingerprint are the same action, whichever
// olive produced them.
type Fingerprint [highwayhash.Size]byte

var fingerprintKey = []byte("shesmu-action-fingerprint-key-01")

func (a *Action) Fingerprint() Fingerprint {
	h, err := highwayhash.New(fingerprintKey)
	if err != nil {
		// The key is 32 bytes.
		panic(err)
	}
	var b []byte
	b = shesmu.AppendKey(b, a.Kind)
	for _, p := range a.Params {
		b = shesmu.AppendKey(b, p.Name)
		b = shesmu.AppendKey(b, p.Value)
	}
	h.Write(b)
	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Param returns the value of the named parameter or nil.
func (a *Action) Param(name string) shesmu.Value {
	for _, p := range a.Params {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

// Document is the JSON form of an action as stored by sinks.
type Document struct {
	Kind        string         `json:"kind"`
	Olive       string         `json:"olive"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Fingerprint string         `json:"fingerprint"`
	Params      map[string]any `json:"params"`
}

func (a *Action) Document() *Document {
	params := make(map[string]any, len(a.Params))
	for _, p := range a.Params {
		params[p.Name] = shesmu.ToJSON(p.Type, p.Value)
	}
	return &Document{
		Kind:        a.Kind,
		Olive:       a.Olive,
		Description: a.Description,
		Tags:        a.Tags,
		Fingerprint: a.Fingerprint().String(),
		Params:      params,
	}
}

func (a *Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Document())
}
