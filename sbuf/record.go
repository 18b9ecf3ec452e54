package sbuf

import (
	"github.com/oicr-gsi/shesmu"
)

// Record is one row of an olive stream.  Values are laid out in the slot
// order the analyzer assigned to the stream variables.
type Record struct {
	Values []shesmu.Value
	// Origin is the input record a pure record derives from.  It is
	// nil once the stream has been grouped or joined.
	Origin *Origin
}

func NewRecord(vals []shesmu.Value) Record {
	return Record{Values: vals, Origin: &Origin{Input: vals}}
}

// Origin holds an input record and the signature values computed from it.
// Sigs is filled lazily by the first reader of each signature.
type Origin struct {
	Input []shesmu.Value
	Sigs  []shesmu.Value
}

// Derive returns a record with vals that keeps r's origin.
func (r Record) Derive(vals []shesmu.Value) Record {
	return Record{Values: vals, Origin: r.Origin}
}
