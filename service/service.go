// Package service serves the state of a running server over HTTP: the
// actions it holds, the status of each olive file, the records of each
// input format and Prometheus metrics.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/oicr-gsi/shesmu/action"
	"github.com/oicr-gsi/shesmu/input"
	"github.com/oicr-gsi/shesmu/runtime/exec"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

// Documenter lists the actions a sink holds.
type Documenter interface {
	Documents() ([]*action.Document, error)
}

type Config struct {
	Inputs  *input.Set
	Sink    Documenter
	Runners []*exec.Runner
}

type Core struct {
	conf    Config
	logger  *zap.Logger
	handler http.Handler
}

func NewCore(conf Config, logger *zap.Logger) *Core {
	c := &Core{conf: conf, logger: logger.Named("http")}
	router := mux.NewRouter()
	router.HandleFunc("/status", c.handleStatus).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/actions", c.handleActions).Methods("GET")
	router.HandleFunc("/olives", c.handleOlives).Methods("GET")
	router.HandleFunc("/input/{format}", c.handleInput).Methods("GET")
	router.HandleFunc("/input/{format}/invalidate", c.handleInvalidate).Methods("POST")
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.error(w, r, http.StatusNotFound, ErrNotFound)
	})
	c.handler = cors.AllowAll().Handler(router)
	return c
}

func (c *Core) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled.
func (c *Core) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	c.logger.Info("Listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type errorResponse struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (c *Core) error(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		c.logger.Warn("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	c.respond(w, status, errorResponse{Type: "Error", Error: err.Error()})
}

func (c *Core) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.Warn("Error writing response", zap.Error(err))
	}
}
