package sbuf

import (
	"sync/atomic"
)

// Batch is a slice of records handed from one operator to the next.
type Batch interface {
	Values() []Record
}

// Puller is the pull interface of every stream operator.  Pull returns a
// nil batch at end of stream.  Calling Pull with done true tells the
// operator the caller wants no more batches from the current stream.
type Puller interface {
	Pull(done bool) (Batch, error)
}

// Array is a slice of records that implements Batch.
type Array struct {
	values []Record
}

var _ Batch = (*Array)(nil)

func NewArray(vals []Record) *Array {
	return &Array{values: vals}
}

func NewBatch(vals []Record) Batch {
	return NewArray(vals)
}

func (a *Array) Values() []Record {
	return a.values
}

func (a *Array) Append(r Record) {
	a.values = append(a.values, r)
}

// Read removes the first record of the Array and returns it or nil if the
// Array is empty.
func (a *Array) Read() *Record {
	var rec *Record
	if len(a.values) > 0 {
		rec = &a.values[0]
		a.values = a.values[1:]
	}
	return rec
}

type puller struct {
	batches []Batch
}

// NewPuller returns a Puller that yields batches then end of stream.
func NewPuller(batches ...Batch) Puller {
	return &puller{batches}
}

func (p *puller) Pull(done bool) (Batch, error) {
	if done || len(p.batches) == 0 {
		p.batches = nil
		return nil, nil
	}
	b := p.batches[0]
	p.batches = p.batches[1:]
	return b, nil
}

// ReadAll pulls p to the end of its stream and returns every record.
func ReadAll(p Puller) ([]Record, error) {
	var out []Record
	for {
		batch, err := p.Pull(false)
		if err != nil {
			return nil, err
		}
		if batch == nil {
			return out, nil
		}
		out = append(out, batch.Values()...)
	}
}

// Progress counts the work of an olive run.  It is safe for concurrent
// use.
type Progress struct {
	RecordsRead    atomic.Int64
	RecordsMatched atomic.Int64
	Actions        atomic.Int64
}

// Meter wraps p counting the records it yields as read.
func Meter(p Puller, progress *Progress) Puller {
	return &meter{p, progress}
}

type meter struct {
	parent   Puller
	progress *Progress
}

func (m *meter) Pull(done bool) (Batch, error) {
	batch, err := m.parent.Pull(done)
	if batch != nil {
		m.progress.RecordsRead.Add(int64(len(batch.Values())))
	}
	return batch, err
}
