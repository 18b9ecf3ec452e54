package exec

import (
	"context"
	goruntime "runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultFrequency = 20 * time.Minute

// Services reports which external services are too busy to take more
// actions.  Olive files naming a throttled service in RequiredServices
// are skipped until it recovers.
type Services interface {
	IsOverloaded(services []string) bool
}

// Throttles is a Services controlled by hand.
type Throttles struct {
	mu   sync.Mutex
	busy map[string]bool
}

func (t *Throttles) Set(service string, overloaded bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.busy == nil {
		t.busy = make(map[string]bool)
	}
	t.busy[service] = overloaded
}

func (t *Throttles) IsOverloaded(services []string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range services {
		if t.busy[s] {
			return true
		}
	}
	return false
}

// Master reruns each program at the interval of its Frequency pragma.
type Master struct {
	runners  []*Runner
	services Services
	logger   *zap.Logger
	// limit bounds the files Tick runs at once.
	limit int
}

func NewMaster(services Services, logger *zap.Logger, runners ...*Runner) *Master {
	if services == nil {
		services = &Throttles{}
	}
	return &Master{
		runners:  runners,
		services: services,
		logger:   logger,
		limit:    goruntime.GOMAXPROCS(0),
	}
}

// Tick runs every program once, skipping those with throttled services,
// and reports whether each ran.
func (m *Master) Tick(ctx context.Context) []bool {
	ran := make([]bool, len(m.runners))
	var g errgroup.Group
	g.SetLimit(m.limit)
	for i, r := range m.runners {
		g.Go(func() error {
			ran[i] = m.tick(ctx, r)
			return nil
		})
	}
	g.Wait()
	return ran
}

func (m *Master) tick(ctx context.Context, r *Runner) bool {
	if required := r.prog.RequiredServices; len(required) > 0 && m.services.IsOverloaded(required) {
		throttled.Inc()
		m.logger.Info("skipping throttled olives", zap.String("file", r.name), zap.Strings("services", required))
		return false
	}
	if _, err := r.Run(ctx); err != nil {
		m.logger.Warn("olive file had failures", zap.String("file", r.name), zap.Error(err))
	}
	return true
}

// Run ticks every program on its own schedule until ctx is done.
func (m *Master) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, r := range m.runners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.schedule(ctx, r)
		}()
	}
	wg.Wait()
	return nil
}

func (m *Master) schedule(ctx context.Context, r *Runner) {
	every := DefaultFrequency
	if f := r.prog.Frequency; f > 0 {
		every = time.Duration(f) * time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		m.tick(ctx, r)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
