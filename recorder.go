package mpxr

import (
	"fmt"
	"os"
	"path/filepath"
)

// Recorder mirrors one stream onto disk in the same shape the segment
// API serves it: init.mp4 once, then one nine-digit .m4s file per
// media segment. A recorded directory replays through any
// SegmentTemplate player without remuxing.
type Recorder struct {
	*Subscriber
	Dir          string
	SegmentCount uint32
	BytesOut     uint64
}

// startRecorder attaches a file egress to a fresh publisher. The
// caller already holds the registry lock, so the subscriber is built
// and added directly instead of going through Subscribe.
func (s *Server) startRecorder(p *Publisher) error {
	dir := filepath.Join(s.Config.Record.FilePath, p.StreamPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "init.mp4"), p.InitSegment(), 0o644); err != nil {
		return err
	}
	sub := newSubscriber(p.StreamPath, s.Config.Subscribe, p.Logger)
	sub.Publisher = p
	r := &Recorder{Subscriber: sub, Dir: dir}
	p.AddSubscriber(sub)
	p.Lock()
	p.recorder = r
	p.Unlock()
	r.Info("record start", "dir", dir)
	go r.run()
	return nil
}

// run drains the segment channel until the publisher closes it. A
// failed write is logged and the segment skipped; the next one may
// land after the operator frees up the disk.
func (r *Recorder) run() {
	for segment := range r.C {
		name := filepath.Join(r.Dir, fmt.Sprintf("%09d.m4s", segment.Sequence))
		if err := os.WriteFile(name, segment.Data, 0o644); err != nil {
			r.Error("record write", "err", err, "seq", segment.Sequence)
			continue
		}
		r.SegmentCount++
		r.BytesOut += uint64(len(segment.Data))
	}
	r.Info("record stop", "segments", r.SegmentCount, "bytes", r.BytesOut)
}
