package service

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/action"
)

func (c *Core) handleStatus(w http.ResponseWriter, _ *http.Request) {
	c.respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func (c *Core) handleActions(w http.ResponseWriter, r *http.Request) {
	docs, err := c.conf.Sink.Documents()
	if err != nil {
		c.error(w, r, http.StatusInternalServerError, err)
		return
	}
	if docs == nil {
		docs = []*action.Document{}
	}
	c.respond(w, http.StatusOK, docs)
}

type oliveRun struct {
	Name     string `json:"name"`
	Run      string `json:"run"`
	Records  int64  `json:"records"`
	Matched  int64  `json:"matched"`
	Actions  int64  `json:"actions"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

type fileStatus struct {
	File       string     `json:"file"`
	Timeout    string     `json:"timeout"`
	RecordRate int64      `json:"record_rate"`
	Olives     []oliveRun `json:"olives"`
}

func (c *Core) handleOlives(w http.ResponseWriter, _ *http.Request) {
	files := []fileStatus{}
	for _, runner := range c.conf.Runners {
		f := fileStatus{
			File:       runner.Name(),
			Timeout:    runner.Timeout().String(),
			RecordRate: runner.RecordRate(),
			Olives:     []oliveRun{},
		}
		for _, res := range runner.Last() {
			run := oliveRun{
				Name:     res.Olive,
				Run:      res.Run.String(),
				Records:  res.Records,
				Matched:  res.Matched,
				Actions:  res.Actions,
				Duration: res.Duration.String(),
			}
			if res.Err != nil {
				run.Error = res.Err.Error()
			}
			f.Olives = append(f.Olives, run)
		}
		files = append(files, f)
	}
	c.respond(w, http.StatusOK, files)
}

func (c *Core) handleInput(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["format"]
	format, ok := c.conf.Inputs.Format(name)
	if !ok {
		c.error(w, r, http.StatusNotFound, fmt.Errorf("%w: input format %q", ErrNotFound, name))
		return
	}
	recs, err := c.conf.Inputs.Records(r.Context(), name)
	if err != nil {
		c.error(w, r, http.StatusInternalServerError, err)
		return
	}
	docs := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		doc := make(map[string]any, len(rec))
		for i, v := range format.Variables {
			doc[v.Name] = shesmu.ToJSON(v.Type, rec[i])
		}
		docs = append(docs, doc)
	}
	c.respond(w, http.StatusOK, docs)
}

func (c *Core) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["format"]
	if _, ok := c.conf.Inputs.Format(name); !ok {
		c.error(w, r, http.StatusNotFound, fmt.Errorf("%w: input format %q", ErrNotFound, name))
		return
	}
	c.conf.Inputs.Invalidate(name)
	w.WriteHeader(http.StatusNoContent)
}
