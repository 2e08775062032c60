package main

import (
	"runtime"
	"sync"
)

// rowJob processes the grid rows [y0, y1).
type rowJob func(y0, y1 int)

// rowPool runs row-sliced passes (decay, tone mapping) across persistent
// worker goroutines. The frame cycle publishes one job at a time and blocks
// until every worker has finished its slice, so stage ordering within a
// frame is preserved.
type rowPool struct {
	height  int
	count   int
	mu      sync.Mutex
	cond    *sync.Cond
	step    int
	pending int
	job     rowJob
	started bool
}

func newRowPool(height int) *rowPool {
	count := runtime.NumCPU()
	if count < 1 {
		count = 1
	}
	if count > height {
		count = height
	}
	p := &rowPool{height: height, count: count}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// start launches the worker goroutines. Idempotent.
func (p *rowPool) start() {
	if p.started {
		return
	}
	p.started = true
	for i := 0; i < p.count; i++ {
		go p.workerLoop(i)
	}
}

// run executes the job across all rows and returns once every slice is done.
func (p *rowPool) run(job rowJob) {
	if !p.started {
		job(0, p.height)
		return
	}
	p.mu.Lock()
	p.job = job
	p.pending = p.count
	p.step++
	p.cond.Broadcast()
	for p.pending > 0 {
		p.cond.Wait()
	}
	p.job = nil
	p.mu.Unlock()
}

// workerLoop waits for published jobs and processes this worker's row slice.
func (p *rowPool) workerLoop(index int) {
	rowsPer := (p.height + p.count - 1) / p.count
	y0 := index * rowsPer
	y1 := y0 + rowsPer
	if y1 > p.height {
		y1 = p.height
	}
	lastStep := 0
	p.mu.Lock()
	for {
		for p.step == lastStep {
			p.cond.Wait()
		}
		lastStep = p.step
		job := p.job
		p.mu.Unlock()

		if y0 < y1 && job != nil {
			job(y0, y1)
		}

		p.mu.Lock()
		p.pending--
		if p.pending == 0 {
			p.cond.Broadcast()
		}
	}
}
