// Package scheduler centraliza las tareas de refresco periódico (polling).
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrAlreadyStarted = errors.New("scheduler ya iniciado")

// Task se ejecuta al arrancar y luego cada Interval. Cada ejecución tiene
// su propio contexto con Timeout (0 = sin límite propio).
type Task struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

type Scheduler struct {
	log   *zap.Logger
	tasks []Task

	mu      sync.Mutex
	cancel  context.CancelFunc
	group   *errgroup.Group
	started bool
}

func New(log *zap.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// Add registra una tarea. Las tareas agregadas después de Start no corren.
func (s *Scheduler) Add(t Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.group, ctx = errgroup.WithContext(ctx)

	for _, t := range s.tasks {
		t := t
		s.group.Go(func() error {
			s.loop(ctx, t)
			return nil
		})
	}
	s.log.Info("polling iniciado", zap.Int("tasks", len(s.tasks)))
	return nil
}

// Stop cancela todas las tareas y espera a que terminen.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, group := s.cancel, s.group
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	_ = group.Wait()
	s.log.Info("polling detenido")
}

func (s *Scheduler) loop(ctx context.Context, t Task) {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		s.runOnce(ctx, t)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, t Task) {
	if ctx.Err() != nil {
		return
	}

	runCtx := ctx
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := t.Run(runCtx); err != nil {
		s.log.Warn("tarea de polling fallida",
			zap.String("task", t.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	s.log.Debug("tarea de polling completada", zap.String("task", t.Name), zap.Duration("duration", time.Since(start)))
}
