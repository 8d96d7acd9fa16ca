package mpxr

import (
	"context"
	"log/slog"
	"sync"
	"time"

	. "github.com/idlab-discover/Multi-path-XR-sub001/pkg"
	"github.com/idlab-discover/Multi-path-XR-sub001/pkg/box"
	"github.com/idlab-discover/Multi-path-XR-sub001/pkg/config"
)

// Publisher owns one stream: its track parameters, the ring of recent
// media segments and the subscriber fan-out. Exactly one frame becomes
// exactly one media segment.
type Publisher struct {
	*slog.Logger `json:"-" yaml:"-"`
	config.Publish
	sync.RWMutex `json:"-" yaml:"-"`
	server       *Server
	StreamPath   string
	StartTime    time.Time

	ring        *SegmentRing
	init        []byte
	subscribers map[*Subscriber]struct{}
	recorder    *Recorder
	timer       *time.Timer

	FrameCount uint32
	BytesIn    uint64
	lastWrite  time.Time
	stopped    bool

	recordID uint // row in the stream record table, 0 when no DB
}

// StreamInfo is the JSON snapshot the stream APIs hand out.
type StreamInfo struct {
	StreamPath       string
	StartTime        time.Time
	Codec            string
	Timescale        uint32
	Width            uint16
	Height           uint16
	FrameCount       uint32
	BytesIn          uint64
	NextSequence     uint32
	BufferedSegments int
	SubscriberCount  int
	DroppedSegments  uint32
	Recording        bool
}

// codecFourCC left-justifies the configured tag into four bytes,
// padding with spaces the way the sample entry expects.
func codecFourCC(codec string) (cc [4]byte) {
	copy(cc[:], "    ")
	copy(cc[:], codec)
	return
}

// streamConfig derives the track parameters from the publish
// configuration. The timescale is fps*1000 so the default sample
// duration of 1000 ticks paces exactly one frame.
func streamConfig(conf config.Publish) box.StreamConfig {
	return box.StreamConfig{
		TrackID:               1,
		Timescale:             conf.FPS * 1000,
		DefaultSampleDuration: 1000,
		CodecFourCC:           codecFourCC(conf.Codec),
		CodecName:             "PointCloudCodec_" + conf.Codec,
		Width:                 uint16(conf.Width),
		Height:                uint16(conf.Height),
	}
}

func newPublisher(server *Server, streamPath string, conf config.Publish) *Publisher {
	p := &Publisher{
		Publish:     conf,
		server:      server,
		StreamPath:  streamPath,
		StartTime:   time.Now(),
		ring:        NewSegmentRing(streamConfig(conf), conf.WindowSize),
		subscribers: make(map[*Subscriber]struct{}),
		lastWrite:   time.Now(),
	}
	p.Logger = server.Logger.With("streamPath", streamPath)
	return p
}

// InitSegment returns the stream's initialization segment, building
// it on first use.
func (p *Publisher) InitSegment() []byte {
	p.Lock()
	defer p.Unlock()
	if p.init == nil {
		p.init = box.CreateInitSegment(p.ring.Config())
	}
	return p.init
}

// WriteFrame wraps one encoded frame into a media segment, appends it
// to the ring and fans it out. The base media decode time is the
// presentation time scaled into track ticks.
func (p *Publisher) WriteFrame(frame []byte, presentationTimeMs uint64) (uint32, error) {
	p.Lock()
	defer p.Unlock()
	if p.stopped {
		return 0, ErrStreamNotFound
	}
	cfg := p.ring.Config()
	decodeTime := presentationTimeMs * uint64(cfg.Timescale) / 1000
	seq := p.ring.Next()
	data := box.CreateMediaSegment(cfg, frame, seq, decodeTime)
	p.ring.Add(data)
	p.FrameCount++
	p.BytesIn += uint64(len(frame))
	p.lastWrite = time.Now()
	if p.Enabled(p.server.Context, TraceLevel) {
		p.Log(p.server.Context, TraceLevel, "write", "seq", seq, "size", len(frame), "bdt", decodeTime)
	}
	segment := Segment{Sequence: seq, Data: data}
	for sub := range p.subscribers {
		if err := sub.push(segment); err != nil {
			sub.Debug("discard", "seq", seq, "dropped", sub.Dropped())
		}
	}
	return seq, nil
}

// GetSegment fetches one buffered segment, waiting up to the caller's
// deadline for sequences that are not published yet.
func (p *Publisher) GetSegment(ctx context.Context, seq uint32) ([]byte, error) {
	return p.ring.Get(ctx, seq)
}

func (p *Publisher) AddSubscriber(sub *Subscriber) {
	p.Lock()
	defer p.Unlock()
	p.subscribers[sub] = struct{}{}
	p.Info("subscriber +1", "count", len(p.subscribers))
}

func (p *Publisher) RemoveSubscriber(sub *Subscriber) {
	p.Lock()
	defer p.Unlock()
	if _, ok := p.subscribers[sub]; !ok {
		return
	}
	delete(p.subscribers, sub)
	close(sub.C)
	p.Info("subscriber -1", "count", len(p.subscribers))
}

func (p *Publisher) SubscriberCount() int {
	p.RLock()
	defer p.RUnlock()
	return len(p.subscribers)
}

// takeOver inherits the ring, the subscribers and the recorder from a
// kicked publisher so sequence numbering and downstream connections
// survive the swap.
func (p *Publisher) takeOver(old *Publisher) {
	old.Lock()
	defer old.Unlock()
	old.stopped = true
	if old.timer != nil {
		old.timer.Stop()
	}
	p.ring = old.ring
	p.init = old.init
	p.subscribers = old.subscribers
	p.recorder = old.recorder
	old.subscribers = nil
	old.recorder = nil
}

func (p *Publisher) startTimeout() {
	if p.PublishTimeout <= 0 {
		return
	}
	p.timer = time.AfterFunc(p.PublishTimeout, p.checkTimeout)
}

func (p *Publisher) checkTimeout() {
	p.RLock()
	if p.stopped {
		p.RUnlock()
		return
	}
	idle := time.Since(p.lastWrite)
	p.RUnlock()
	if idle >= p.PublishTimeout {
		p.Error("publish timeout", "idle", idle)
		p.server.closeStream(p, ErrPublishTimeout)
		return
	}
	p.timer.Reset(p.PublishTimeout - idle)
}

// close stops the publisher and ends every subscriber, the recorder
// included, by closing their channels.
func (p *Publisher) close() {
	p.Lock()
	defer p.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
	}
	for sub := range p.subscribers {
		close(sub.C)
	}
	p.subscribers = nil
	p.recorder = nil
}

func (p *Publisher) Snap() StreamInfo {
	p.RLock()
	defer p.RUnlock()
	cfg := p.ring.Config()
	var dropped uint32
	for sub := range p.subscribers {
		dropped += sub.Dropped()
	}
	return StreamInfo{
		StreamPath:       p.StreamPath,
		StartTime:        p.StartTime,
		Codec:            p.Publish.Codec,
		Timescale:        cfg.Timescale,
		Width:            cfg.Width,
		Height:           cfg.Height,
		FrameCount:       p.FrameCount,
		BytesIn:          p.BytesIn,
		NextSequence:     p.ring.Next(),
		BufferedSegments: p.ring.Len(),
		SubscriberCount:  len(p.subscribers),
		DroppedSegments:  dropped,
		Recording:        p.recorder != nil,
	}
}
