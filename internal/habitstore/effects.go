package habitstore

import (
	"sync"

	"github.com/julianstephens/habitlit/internal/models"
)

// effect is the side-effect work queued by one commit.
type effect struct {
	state         models.State
	today         string
	save          bool
	cancelCheckIn bool
}

// merge folds a newer job into e. The newer snapshot wins; requested work
// from either job is kept.
func (e *effect) merge(next effect) {
	e.state = next.state
	e.today = next.today
	e.save = e.save || next.save
	e.cancelCheckIn = e.cancelCheckIn || next.cancelCheckIn
}

// worker runs effects one at a time on a single goroutine. At most one job
// waits behind the running one; later jobs coalesce into it.
type worker struct {
	run func(effect)

	mu      sync.Mutex
	cond    *sync.Cond
	pending *effect
	running bool
	closed  bool
	done    chan struct{}
}

func newWorker(run func(effect)) *worker {
	w := &worker{run: run, done: make(chan struct{})}
	w.cond = sync.NewCond(&w.mu)
	go w.loop()
	return w
}

func (w *worker) enqueue(e effect) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.merge(e)
	} else {
		w.pending = &e
	}
	w.cond.Broadcast()
}

func (w *worker) loop() {
	defer close(w.done)

	w.mu.Lock()
	for {
		for w.pending == nil && !w.closed {
			w.cond.Wait()
		}
		if w.pending == nil {
			w.mu.Unlock()
			return
		}

		job := *w.pending
		w.pending = nil
		w.running = true
		w.mu.Unlock()

		w.run(job)

		w.mu.Lock()
		w.running = false
		w.cond.Broadcast()
	}
}

// flush blocks until no job is queued or running.
func (w *worker) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.pending != nil || w.running {
		w.cond.Wait()
	}
}

// close runs any queued job and stops the goroutine. Jobs enqueued after
// close are dropped.
func (w *worker) close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}
