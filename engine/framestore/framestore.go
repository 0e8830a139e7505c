// Package framestore evaluates the resolver and compositor for every particle of a frame. Particles are
// independent, so a frame is split into chunks and fanned out over a reusable worker pool.
package framestore

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/compositor"
	"github.com/Carmen-Shannon/oxy-swarm/engine/resolver"
	"github.com/lucasb-eyer/go-colorful"
)

// Frame is the full output for one show time. Colors are raw; consumers gate them by each record's
// reveal factor.
type Frame struct {
	Time    float64
	Records []common.FrameRecord
	Colors  []colorful.Color
}

// FrameStore computes frames.
type FrameStore interface {
	// Count returns the number of particles in a full frame.
	Count() int

	// ComputeFrame resolves the given particles at t. Unknown indices yield the sentinel record.
	//
	// Parameters:
	//   - indices: particle indices, in any order
	//   - t: show time in seconds
	//
	// Returns:
	//   - []common.FrameRecord: one record per index, in the same order
	ComputeFrame(indices []int, t float64) []common.FrameRecord

	// Compute allocates and fills a full frame.
	Compute(t float64) *Frame

	// ComputeInto fills dst with a full frame, reusing its buffers when they are large enough.
	//
	// Parameters:
	//   - dst: the frame to overwrite
	//   - t: show time in seconds
	ComputeInto(dst *Frame, t float64)
}

type frameStore struct {
	resolver   resolver.Resolver
	compositor compositor.Compositor
	workers    int
	chunkSize  int
	pool       worker.DynamicWorkerPool
}

var _ FrameStore = &frameStore{}

// NewFrameStore creates a FrameStore. The compositor may be nil, in which case frames carry no colors.
//
// Parameters:
//   - res: the position resolver
//   - comp: the color compositor, or nil
//   - opts: variadic list of FrameStoreBuilderOption functions
//
// Returns:
//   - FrameStore: the frame store
func NewFrameStore(res resolver.Resolver, comp compositor.Compositor, opts ...FrameStoreBuilderOption) FrameStore {
	fs := &frameStore{
		resolver:   res,
		compositor: comp,
		workers:    max(runtime.NumCPU()-1, 1),
		chunkSize:  256,
	}
	for _, opt := range opts {
		opt(fs)
	}

	// Workers are reused across frames and exit after a second idle.
	fs.pool = worker.NewDynamicWorkerPool(fs.workers, 256, 1*time.Second)
	return fs
}

func (fs *frameStore) Count() int {
	return fs.resolver.Grid().Count()
}

// each runs fn over [0, n) in chunks on the pool and waits for all of them. The pool's own Wait blocks until
// workers idle out, so a per call WaitGroup is the barrier.
func (fs *frameStore) each(n int, fn func(lo, hi int)) {
	if n <= fs.chunkSize {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	id := 0
	for lo := 0; lo < n; lo += fs.chunkSize {
		hi := min(lo+fs.chunkSize, n)
		wg.Add(1)
		lo := lo
		fs.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				fn(lo, hi)
				return nil, nil
			},
		})
		id++
	}
	wg.Wait()
}

func (fs *frameStore) ComputeFrame(indices []int, t float64) []common.FrameRecord {
	out := make([]common.FrameRecord, len(indices))
	fs.each(len(indices), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = fs.resolver.Resolve(indices[i], t)
		}
	})
	return out
}

func (fs *frameStore) Compute(t float64) *Frame {
	f := &Frame{}
	fs.ComputeInto(f, t)
	return f
}

func (fs *frameStore) ComputeInto(dst *Frame, t float64) {
	n := fs.Count()
	dst.Time = t
	if cap(dst.Records) < n {
		dst.Records = make([]common.FrameRecord, n)
	}
	dst.Records = dst.Records[:n]

	if fs.compositor == nil {
		dst.Colors = dst.Colors[:0]
		fs.each(n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dst.Records[i] = fs.resolver.Resolve(i, t)
			}
		})
		return
	}

	if cap(dst.Colors) < n {
		dst.Colors = make([]colorful.Color, n)
	}
	dst.Colors = dst.Colors[:n]
	fs.each(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			tr := fs.resolver.Trace(i, t)
			dst.Records[i] = tr.Record
			dst.Colors[i] = fs.compositor.ColorOf(tr, t)
		}
	})
}
