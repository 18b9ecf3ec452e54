// Package order holds the ordering contracts checked by the olive
// analyzer: the state of an olive's record stream and the ordering and
// consumption of the sequences a For expression iterates.
package order

import (
	"encoding/json"
	"fmt"
)

// Stream is the state of an olive's record stream as clauses are
// applied to it.
type Stream int

const (
	// Pure records are still the input records and keep their signable
	// variables.
	Pure Stream = iota
	// Transformed records were derived by grouping or joining so
	// signatures can no longer be computed.
	Transformed
	Bad
)

func ParseStream(s string) (Stream, error) {
	switch s {
	case "pure":
		return Pure, nil
	case "transformed":
		return Transformed, nil
	case "bad":
		return Bad, nil
	}
	return Bad, fmt.Errorf("unknown stream order: %s", s)
}

func (s Stream) String() string {
	switch s {
	case Pure:
		return "pure"
	case Transformed:
		return "transformed"
	}
	return "bad"
}

// Then returns the state after a clause that produces next.  Once a
// stream is transformed it stays transformed and once it is bad it stays
// bad.
func (s Stream) Then(next Stream) Stream {
	return max(s, next)
}

func (s Stream) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Stream) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v, err := ParseStream(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
