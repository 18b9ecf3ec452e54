// Package boltsink is an action sink that persists actions in a bbolt
// database so deduplication survives restarts.
package boltsink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oicr-gsi/shesmu/action"
	bolt "go.etcd.io/bbolt"
)

var bucket = []byte("actions")

type Sink struct {
	db *bolt.DB
}

var _ action.Sink = (*Sink)(nil)

func Open(path string) (*Sink, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Sink{db: db}, nil
}

func (s *Sink) Close() error {
	return s.db.Close()
}

func (s *Sink) Emit(ctx context.Context, a *action.Action) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fp := a.Fingerprint()
	doc, err := json.Marshal(a.Document())
	if err != nil {
		return false, fmt.Errorf("action %s: %w", fp, err)
	}
	var added bool
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b.Get(fp[:]) != nil {
			return nil
		}
		added = true
		return b.Put(fp[:], doc)
	})
	return added, err
}

// Documents returns every stored action ordered by fingerprint.
func (s *Sink) Documents() ([]*action.Document, error) {
	var docs []*action.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var doc action.Document
			if err := json.Unmarshal(v, &doc); err != nil {
				return err
			}
			docs = append(docs, &doc)
		}
		return nil
	})
	return docs, err
}
