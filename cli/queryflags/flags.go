// Package queryflags holds the flags of commands that run olives.
package queryflags

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oicr-gsi/shesmu/runtime/exec"
)

// ScriptEnv holds olive source used when no file is named.
const ScriptEnv = "SHESMU_SCRIPT"

type Flags struct {
	Stats   bool
	Timeout time.Duration
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.Stats, "stats", false, "display olive run stats on stderr")
	fs.DurationVar(&f.Timeout, "timeout", exec.DefaultTimeout, "longest time an olive may run")
}

// Script returns the source named by ScriptEnv, if any.
func Script() (name, text string, ok bool) {
	text, ok = os.LookupEnv(ScriptEnv)
	return "$" + ScriptEnv, text, ok && text != ""
}

type stats struct {
	Olive   string  `json:"olive"`
	Run     string  `json:"run"`
	Records int64   `json:"records"`
	Matched int64   `json:"matched"`
	Actions int64   `json:"actions"`
	Seconds float64 `json:"seconds"`
	Error   string  `json:"error,omitempty"`
}

func (f *Flags) PrintStats(w io.Writer, results []*exec.Result) {
	if !f.Stats {
		return
	}
	enc := json.NewEncoder(w)
	for _, r := range results {
		s := stats{
			Olive:   r.Olive,
			Run:     r.Run.String(),
			Records: r.Records,
			Matched: r.Matched,
			Actions: r.Actions,
			Seconds: r.Duration.Seconds(),
		}
		if r.Err != nil {
			s.Error = r.Err.Error()
		}
		if err := enc.Encode(s); err != nil {
			fmt.Fprintf(w, "error marshaling stats: %s\n", err)
		}
	}
}
