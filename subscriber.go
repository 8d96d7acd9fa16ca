package mpxr

import (
	"log/slog"
	"sync/atomic"
	"time"

	. "github.com/idlab-discover/Multi-path-XR-sub001/pkg"
	"github.com/idlab-discover/Multi-path-XR-sub001/pkg/config"
)

var lastSubscriberID atomic.Uint32

// Segment is one finished media segment flowing from a publisher to
// its subscribers.
type Segment struct {
	Sequence uint32
	Data     []byte
}

// Subscriber receives every media segment of one stream over a
// buffered channel. A slow consumer does not stall the publisher:
// when the buffer is full the segment is dropped and counted.
type Subscriber struct {
	*slog.Logger `json:"-" yaml:"-"`
	config.Subscribe
	Publisher  *Publisher `json:"-" yaml:"-"`
	ID         uint32
	StreamPath string
	StartTime  time.Time
	C          chan Segment
	dropped    atomic.Uint32
}

func newSubscriber(streamPath string, conf config.Subscribe, logger *slog.Logger) *Subscriber {
	sub := &Subscriber{
		Subscribe:  conf,
		ID:         lastSubscriberID.Add(1),
		StreamPath: streamPath,
		StartTime:  time.Now(),
		C:          make(chan Segment, max(conf.BufferSize, 1)),
	}
	sub.Logger = logger.With("sId", sub.ID)
	return sub
}

// push hands one segment to the subscriber without blocking. The
// publisher fan-out calls it while holding the stream lock.
func (s *Subscriber) push(segment Segment) error {
	select {
	case s.C <- segment:
		return nil
	default:
		s.dropped.Add(1)
		return ErrDiscard
	}
}

func (s *Subscriber) Dropped() uint32 {
	return s.dropped.Load()
}
