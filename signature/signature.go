// Package signature provides the standard signatures.  A signature
// summarizes the signable variables an olive reads so that actions can
// be invalidated when those inputs change.
package signature

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
)

// JSON is an object of the signable variables.
type JSON struct{}

func (JSON) Build(fields []definitions.SignableField) shesmu.Value {
	obj := make(map[string]any, len(fields))
	for _, f := range fields {
		obj[f.Name] = shesmu.ToJSON(f.Type, f.Value)
	}
	return shesmu.JSON{V: obj}
}

// SHA1 is the hex digest of the names and values of the signable
// variables.
type SHA1 struct{}

func (SHA1) Build(fields []definitions.SignableField) shesmu.Value {
	var b []byte
	for _, f := range fields {
		b = shesmu.AppendKey(b, f.Name)
		b = shesmu.AppendKey(b, f.Value)
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// Names lists the signable variables.  It does not depend on their
// values.
type Names struct{}

func (Names) Build(fields []definitions.SignableField) shesmu.Value {
	names := make([]shesmu.Value, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return shesmu.NewList(names...)
}

func Standard() []*definitions.Signature {
	return []*definitions.Signature{
		{Name: "json_signature", Type: shesmu.TypeJSON, Storage: definitions.Dynamic, Signer: JSON{}},
		{Name: "sha1_signature", Type: shesmu.TypeString, Storage: definitions.Dynamic, Signer: SHA1{}},
		{Name: "signature_names", Type: shesmu.NewTypeList(shesmu.TypeString), Storage: definitions.Static, Signer: Names{}},
	}
}

// Register adds the standard signatures to reg.
func Register(reg *definitions.Registry) error {
	for _, s := range Standard() {
		if err := reg.AddSignature(s); err != nil {
			return err
		}
	}
	return nil
}
