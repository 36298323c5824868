// Package pool implements the worker pool of §4.7: each worker owns a
// complete independent copy of the index, and the pool schedules requests
// onto whichever unsuspended worker currently carries the smallest
// backlog.
package pool

import (
	"sync"

	"github.com/mongodb/marian/config"
	marianerrors "github.com/mongodb/marian/internal/errors"
	"github.com/mongodb/marian/internal/search"
	"github.com/mongodb/marian/model"
)

// Worker is one pool member: its own Searcher facade plus the scheduling
// bookkeeping the pool needs (backlog, suspended, dead).
type Worker struct {
	ID       int
	Searcher *search.Service

	backlog   int
	suspended bool
	dead      bool
}

// Backlog, Suspended, and Dead expose a worker's current scheduling state.
func (w *Worker) Backlog() int    { return w.backlog }
func (w *Worker) Suspended() bool { return w.suspended }
func (w *Worker) Dead() bool      { return w.dead }

// Pool holds the workers in declaration order and the admission settings
// (MAXIMUM_BACKLOG, WARNING_BACKLOG) that govern request acceptance.
type Pool struct {
	mu       sync.Mutex
	workers  []*Worker
	settings config.PoolSettings
}

// New returns a Pool with one worker per searcher, numbered from 1 in
// declaration order.
func New(searchers []*search.Service, settings config.PoolSettings) *Pool {
	workers := make([]*Worker, len(searchers))
	for i, s := range searchers {
		workers[i] = &Worker{ID: i + 1, Searcher: s}
	}
	return &Pool{workers: workers, settings: settings}
}

// Get returns the non-suspended, non-dead worker with the smallest
// backlog, breaking ties by declaration order (invariant 8). It does not
// itself reserve a backlog slot; see Acquire.
func (p *Pool) Get() (*Worker, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.getLocked()
}

func (p *Pool) getLocked() (*Worker, error) {
	var best *Worker
	for _, w := range p.workers {
		if w.suspended || w.dead {
			continue
		}
		if best == nil || w.backlog < best.backlog {
			best = w
		}
	}
	if best == nil {
		return nil, marianerrors.ErrPoolUnavailable
	}
	return best, nil
}

// Suspend marks w ineligible to receive new requests. It does not cancel
// requests already in flight on w (§4.7).
func (p *Pool) Suspend(w *Worker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w.suspended = true
}

// Resume marks w eligible again.
func (p *Pool) Resume(w *Worker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w.suspended = false
}

// MarkDead records that w repeatedly failed to start within its configured
// minimum interval (§7's supervisory contract). Dead workers are never
// returned by Get/Acquire and are reported as "d" by GetStatus.
func (p *Pool) MarkDead(w *Worker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w.dead = true
}

// GetStatus reports one entry per worker, in declaration order. While a
// worker is suspended its backlog is still tracked internally but the
// worker is never returned by Get (invariant 9).
func (p *Pool) GetStatus() []model.WorkerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	statuses := make([]model.WorkerStatus, len(p.workers))
	for i, w := range p.workers {
		statuses[i] = model.WorkerStatus{Backlog: w.backlog, Suspended: w.suspended, Dead: w.dead}
	}
	return statuses
}

// Acquire selects a worker via Get and applies request admission: a
// backlog already over MaximumBacklog fails with ErrBacklogExceeded, and a
// backlog over WarningBacklog signals the caller to degrade to
// useHits=false. On success the worker's backlog is incremented; the
// caller must call Release once the request completes.
func (p *Pool) Acquire() (*Worker, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, err := p.getLocked()
	if err != nil {
		return nil, false, err
	}
	if w.dead {
		return nil, false, marianerrors.ErrWorkerNotRunning
	}
	if w.backlog > p.settings.MaximumBacklog {
		return nil, false, marianerrors.ErrBacklogExceeded
	}
	useHits := w.backlog <= p.settings.WarningBacklog
	w.backlog++
	return w, useHits, nil
}

// Workers returns the pool's workers in declaration order, for callers
// (the coordinator) that need to iterate and rebuild each one in turn.
func (p *Pool) Workers() []*Worker {
	p.mu.Lock()
	defer p.mu.Unlock()
	workers := make([]*Worker, len(p.workers))
	copy(workers, p.workers)
	return workers
}

// SetSearcher replaces w's Searcher wholesale, for installing a freshly
// rebuilt index generation (§4.8). Callers must suspend w first.
func (p *Pool) SetSearcher(w *Worker, s *search.Service) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w.Searcher = s
}

// Release returns the backlog slot reserved by a prior Acquire.
func (p *Pool) Release(w *Worker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w.backlog > 0 {
		w.backlog--
	}
}
