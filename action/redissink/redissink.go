// Package redissink is an action sink backed by Redis so that several
// servers share one set of deduplicated actions.
package redissink

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/oicr-gsi/shesmu/action"
)

const DefaultPrefix = "shesmu:action:"

type Sink struct {
	client *redis.Client
	prefix string
}

var _ action.Sink = (*Sink)(nil)

// Open connects to the Redis server at url, a redis:// URL.
func Open(url string) (*Sink, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis %s: %w", opts.Addr, err)
	}
	return New(client, DefaultPrefix), nil
}

// New wraps client, storing each action under prefix plus its
// fingerprint.
func New(client *redis.Client, prefix string) *Sink {
	return &Sink{client: client, prefix: prefix}
}

func (s *Sink) Close() error {
	return s.client.Close()
}

func (s *Sink) Emit(ctx context.Context, a *action.Action) (bool, error) {
	fp := a.Fingerprint()
	doc, err := json.Marshal(a.Document())
	if err != nil {
		return false, fmt.Errorf("action %s: %w", fp, err)
	}
	return s.client.SetNX(ctx, s.prefix+fp.String(), doc, 0).Result()
}

// Documents returns every stored action ordered by fingerprint.
func (s *Sink) Documents() ([]*action.Document, error) {
	ctx := context.Background()
	var keys []string
	it := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for it.Next(ctx) {
		keys = append(keys, it.Val())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	docs := make([]*action.Document, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			// Removed between the scan and the read.
			continue
		}
		var doc action.Document
		if err := json.Unmarshal([]byte(str), &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", keys[i], err)
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}
