package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	mandel "github.com/marben/deepzoom"
)

// jobScheduler runs escape-time requests from every connection on a shared
// engine, at most maxJobs at a time.
type jobScheduler struct {
	engine mandel.EscapeTimer
	slots  *semaphore.Weighted

	// maxSamples caps the cells of one request. Zero means no cap.
	maxSamples int

	m        sync.Mutex
	active   int
	finished int
	failed   int
}

func newJobScheduler(engine mandel.EscapeTimer, maxJobs int) *jobScheduler {
	if maxJobs <= 0 {
		maxJobs = 1
	}
	return &jobScheduler{
		engine: engine,
		slots:  semaphore.NewWeighted(int64(maxJobs)),
	}
}

// admit rejects requests whose grid is larger than the scheduler accepts.
func (s *jobScheduler) admit(req mandel.Request) error {
	if s.maxSamples > 0 && req.SamplesX > s.maxSamples/req.SamplesY {
		return fmt.Errorf("%w: %dx%d grid exceeds %d cells", mandel.ErrInvalidRequest, req.SamplesX, req.SamplesY, s.maxSamples)
	}
	return nil
}

// run waits for a free slot and computes req. It can be called from multiple
// goroutines in parallel.
func (s *jobScheduler) run(ctx context.Context, id string, req mandel.Request) (*mandel.Result, error) {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for job slot: %w", err)
	}
	defer s.slots.Release(1)

	s.incActiveJobs()
	defer s.decActiveJobs()

	start := time.Now()
	res, err := s.engine.EscapeTime(ctx, req)
	s.jobDone(err)
	if err != nil {
		log.Printf("job %s failed: %v", id, err)
		return nil, err
	}
	log.Printf("job %s: %s %dx%d, cap %d, took %s",
		id, res.Method, req.SamplesX, req.SamplesY, req.MaxIterations, time.Since(start))
	return res, nil
}

// stats returns the running, finished and failed job counts.
func (s *jobScheduler) stats() (active, finished, failed int) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.active, s.finished, s.failed
}

func (s *jobScheduler) jobDone(err error) {
	s.m.Lock()
	defer s.m.Unlock()
	if err != nil {
		s.failed++
		return
	}
	s.finished++
}

func (s *jobScheduler) incActiveJobs() {
	s.m.Lock()
	s.active++
	a := s.active
	s.m.Unlock()

	log.Printf("active jobs: %d", a)
}

func (s *jobScheduler) decActiveJobs() {
	s.m.Lock()
	s.active--
	a := s.active
	s.m.Unlock()

	log.Printf("active jobs: %d", a)
}
