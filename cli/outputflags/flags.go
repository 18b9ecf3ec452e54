// Package outputflags selects where a command sends the actions olives
// generate.
package outputflags

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"

	"github.com/oicr-gsi/shesmu/action"
	"github.com/oicr-gsi/shesmu/action/boltsink"
	"github.com/oicr-gsi/shesmu/action/memsink"
	"github.com/oicr-gsi/shesmu/action/redissink"
	"golang.org/x/term"
)

type Flags struct {
	DB     string
	Redis  string
	Pretty bool
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.DB, "actions.db", "", "bbolt file persisting actions across restarts (default in memory)")
	fs.StringVar(&f.Redis, "actions.redis", "", "redis:// URL of a server sharing actions between servers")
	fs.BoolVar(&f.Pretty, "actions.pretty", term.IsTerminal(int(os.Stdout.Fd())), "indent printed actions (default when stdout is a terminal)")
}

// Sink is an action sink that can list what it holds.
type Sink interface {
	action.Sink
	Documents() ([]*action.Document, error)
	Close() error
}

func (f *Flags) Open() (Sink, error) {
	switch {
	case f.DB != "" && f.Redis != "":
		return nil, errors.New("only one of -actions.db and -actions.redis may be given")
	case f.DB != "":
		return boltsink.Open(f.DB)
	case f.Redis != "":
		return redissink.Open(f.Redis)
	}
	return &memory{memsink.New()}, nil
}

type memory struct {
	*memsink.Sink
}

func (m *memory) Documents() ([]*action.Document, error) {
	var docs []*action.Document
	for _, a := range m.Actions() {
		docs = append(docs, a.Document())
	}
	return docs, nil
}

func (*memory) Close() error { return nil }

// Print writes the actions in s to w as JSON lines.
func (f *Flags) Print(w io.Writer, s Sink) error {
	docs, err := s.Documents()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if f.Pretty {
		enc.SetIndent("", "  ")
	}
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return err
		}
	}
	return nil
}
