package pkg

import (
	"context"
	"sync"

	"github.com/idlab-discover/Multi-path-XR-sub001/pkg/box"
)

const defaultSegmentWindow = 60

// SegmentRing keeps the most recent media segments of one stream so
// late joiners can fetch by sequence number. Sequence numbers start at
// zero and never repeat; once a segment falls out of the window it is
// gone for good.
type SegmentRing struct {
	sync.RWMutex
	config   box.StreamConfig
	window   int
	segments [][]byte
	next     uint32
	arrived  chan struct{} // closed and replaced on every Add
}

func NewSegmentRing(config box.StreamConfig, window int) *SegmentRing {
	if window <= 0 {
		window = defaultSegmentWindow
	}
	return &SegmentRing{
		config:  config,
		window:  window,
		arrived: make(chan struct{}),
	}
}

func (r *SegmentRing) Config() box.StreamConfig {
	return r.config
}

// Next returns the sequence number the next Add will take.
func (r *SegmentRing) Next() uint32 {
	r.RLock()
	defer r.RUnlock()
	return r.next
}

func (r *SegmentRing) Len() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.segments)
}

// Add appends one finished media segment, evicting the oldest one when
// the window is full, and wakes every pending Get.
func (r *SegmentRing) Add(segment []byte) (seq uint32) {
	r.Lock()
	seq = r.next
	r.segments = append(r.segments, segment)
	if len(r.segments) > r.window {
		r.segments = r.segments[1:]
	}
	r.next++
	close(r.arrived)
	r.arrived = make(chan struct{})
	r.Unlock()
	return
}

// Last returns the most recent segment and its sequence number.
func (r *SegmentRing) Last() (segment []byte, seq uint32, ok bool) {
	r.RLock()
	defer r.RUnlock()
	if len(r.segments) == 0 {
		return nil, 0, false
	}
	return r.segments[len(r.segments)-1], r.next - 1, true
}

// Get returns the segment with the given sequence number. A sequence
// that already left the window fails immediately with
// ErrSegmentNotFound; a sequence not yet published blocks until it
// arrives or ctx expires.
func (r *SegmentRing) Get(ctx context.Context, seq uint32) ([]byte, error) {
	for {
		r.RLock()
		min := r.next - uint32(len(r.segments))
		if seq < min {
			r.RUnlock()
			return nil, ErrSegmentNotFound
		}
		if seq < r.next {
			segment := r.segments[seq-min]
			r.RUnlock()
			return segment, nil
		}
		arrived := r.arrived
		r.RUnlock()
		select {
		case <-arrived:
		case <-ctx.Done():
			return nil, ErrSegmentNotFound
		}
	}
}
