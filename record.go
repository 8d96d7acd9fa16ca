package mpxr

import "time"

// StreamRecord is one row per publish session, written when a database
// is configured. EndTime stays zero while the stream is live.
type StreamRecord struct {
	ID                 uint `gorm:"primarykey"`
	StreamPath         string
	Codec              string
	Timescale          uint32
	StartTime, EndTime time.Time
	FrameCount         uint32
	BytesIn            uint64
	CloseReason        string
}

func (s *Server) saveStreamRecord(p *Publisher) {
	if s.DB == nil {
		return
	}
	cfg := p.ring.Config()
	record := StreamRecord{
		StreamPath: p.StreamPath,
		Codec:      p.Publish.Codec,
		Timescale:  cfg.Timescale,
		StartTime:  p.StartTime,
	}
	if tx := s.DB.Create(&record); tx.Error != nil {
		p.Error("save stream record", "err", tx.Error)
		return
	}
	p.recordID = record.ID
}

func (s *Server) finishStreamRecord(p *Publisher, reason error) {
	if s.DB == nil || p.recordID == 0 {
		return
	}
	record := StreamRecord{ID: p.recordID}
	updates := map[string]any{
		"end_time":    time.Now(),
		"frame_count": p.FrameCount,
		"bytes_in":    p.BytesIn,
	}
	if reason != nil {
		updates["close_reason"] = reason.Error()
	}
	if tx := s.DB.Model(&record).Updates(updates); tx.Error != nil {
		p.Error("finish stream record", "err", tx.Error)
	}
}
