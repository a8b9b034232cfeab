package engine

import (
	"context"
	"ecosystem-server/pkg/logger"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrQueueFull is returned when no more background simulations can be queued.
var ErrQueueFull = errors.New("simulation queue is full")

// job is one queued background simulation.
type job struct {
	token       string
	ecosystemID string
	ticks       int
	seed        int64
}

// Runner executes background simulations on a fixed set of worker loops.
// Jobs of the same ecosystem still serialize on the service lock.
type Runner struct {
	service *SimulationService
	workers int

	jobs chan job
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	// mu orders submit against Stop: once stopped is set no job enters the
	// queue, so the final drain sees every queued job.
	mu      sync.Mutex
	stopped bool

	log *logrus.Entry
}

func newRunner(s *SimulationService, workers, queue int) *Runner {
	if workers < 1 {
		workers = 1
	}
	if queue < 1 {
		queue = 1
	}
	return &Runner{
		service: s,
		workers: workers,
		jobs:    make(chan job, queue),
		quit:    make(chan struct{}),
		log:     logger.Log.WithField("component", "simulation_runner"),
	}
}

// Start launches the worker loops.
func (r *Runner) Start() {
	for id := 0; id < r.workers; id++ {
		r.wg.Add(1)
		go r.loop(id)
	}
	r.log.WithField("workers", r.workers).Info("Runner started")
}

// Stop waits for the running jobs; queued ones are marked failed.
func (r *Runner) Stop() {
	r.once.Do(func() {
		r.mu.Lock()
		r.stopped = true
		r.mu.Unlock()

		close(r.quit)
		r.wg.Wait()

		for {
			select {
			case j := <-r.jobs:
				r.service.Tasks.Finish(j.token, nil, errors.New("runner stopped before the task started"))
			default:
				r.log.Info("Runner stopped")
				return
			}
		}
	})
}

// submit queues the job without blocking the caller.
func (r *Runner) submit(j job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return ErrQueueFull
	}

	select {
	case r.jobs <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

func (r *Runner) loop(id int) {
	defer r.wg.Done()
	for {
		select {
		case <-r.quit:
			return
		case j := <-r.jobs:
			r.run(id, j)
		}
	}
}

func (r *Runner) run(worker int, j job) {
	entry := r.log.WithFields(logrus.Fields{
		"worker":    worker,
		"task":      j.token,
		"ecosystem": j.ecosystemID,
		"ticks":     j.ticks,
	})
	entry.Debug("Task started")

	r.service.Tasks.Start(j.token)
	res, err := r.service.SimulateSeeded(context.Background(), j.ecosystemID, j.ticks, j.seed)
	if err != nil {
		entry.WithError(err).Error("Background simulation failed")
	}
	r.service.Tasks.Finish(j.token, res, err)
}
