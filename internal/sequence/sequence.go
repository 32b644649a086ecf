// Package sequence runs independent jobs concurrently while committing their
// results strictly in the order the jobs were submitted.
//
// Each job is split in two phases. The work phase runs as soon as the group's
// concurrency limit allows and may overlap with any other job's work. The
// commit phase, typically writing the job's result somewhere shared, runs only
// after every previously submitted job has committed. This is the shape of
// sorting many inputs in parallel and printing them in argument order.
//
//	var g sequence.Group
//	g.SetLimit(4)
//	for _, name := range files {
//	    g.Go(func() (func() error, error) {
//	        sorted, err := sortFile(name)
//	        if err != nil {
//	            return nil, err
//	        }
//	        return func() error { return write(os.Stdout, sorted) }, nil
//	    })
//	}
//	err := g.Wait()
package sequence

import (
	"fmt"
	"sync"
)

// A Job performs its work and returns the commit to run once all earlier jobs
// have committed. A Job that fails returns a nil commit and an error.
type Job func() (commit func() error, err error)

// A Group is a collection of goroutines running jobs whose commits are totally
// ordered by submission.
//
// Once any job fails, in its work or in its commit, the commits of all later
// jobs are skipped. Their work still runs, since it may already be in flight.
//
// The Group is not safe for concurrent submission: Go must be called from the
// single goroutine that defines the order. A zero Group is valid and has no
// limit on the number of active goroutines.
type Group struct {
	wg  sync.WaitGroup
	sem limiter

	// head is closed when the most recently submitted job has finished its
	// commit. It starts as nil and is initialized to a closed channel on first
	// use.
	head chan struct{}

	// err is the error of the earliest failed job. It needs no lock: it is only
	// written by a job after its predecessor closed its channel and before the
	// job closes its own, so the chain itself serializes every access.
	err error
}

// Go runs job in a new goroutine. It blocks until the new goroutine can be
// added without the number of active goroutines in the group exceeding the
// configured limit.
//
// A job's goroutine stays active until its commit has run, so a slow early job
// holds back the commits, but not the work, of the jobs submitted after it.
func (g *Group) Go(job Job) {
	if g.head == nil {
		g.head = make(chan struct{})
		close(g.head)
	}
	wait := g.head
	done := make(chan struct{})
	g.head = done

	g.sem.acquire()
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.sem.release()
		defer close(done)

		commit, err := job()
		<-wait
		if g.err != nil {
			return
		}
		if err == nil && commit != nil {
			err = commit()
		}
		g.err = err
	}()
}

// Wait blocks until all jobs have returned and returns the error of the
// earliest submitted job that failed, if any.
func (g *Group) Wait() error {
	g.wg.Wait()
	return g.err
}

// SetLimit limits the number of active goroutines in this group to at most n.
// A negative value indicates no limit. A zero value will block any further
// calls to Go.
//
// The limit must not be modified while any goroutines in the group are active.
func (g *Group) SetLimit(n int) {
	if len(g.sem) != 0 {
		panic(fmt.Errorf("sequence: modify limit while %v goroutines in the group are still active", len(g.sem)))
	}
	g.sem = newLimiter(n)
}

// limiter is a counting semaphore whose buffer size is the maximum number of
// tokens held at once. The nil limiter has no limit and never blocks.
type limiter chan struct{}

func newLimiter(n int) limiter {
	if n < 0 {
		return nil
	}
	return make(limiter, n)
}

func (l limiter) acquire() {
	if l == nil {
		return
	}
	l <- struct{}{}
}

func (l limiter) release() {
	if l == nil {
		return
	}
	<-l
}
