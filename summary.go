package mpxr

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

type NetWorkInfo struct {
	Name         string
	Receive      uint64
	Sent         uint64
	ReceiveSpeed uint64
	SentSpeed    uint64
}

// Summary is the once-a-second host and stream snapshot behind
// /api/summary and the metrics collector. Memory is in MB, disk in GB.
type Summary struct {
	Memory struct {
		Total uint64
		Free  uint64
		Used  uint64
		Usage float64
	}
	CPUUsage float64
	HardDisk struct {
		Total uint64
		Free  uint64
		Used  uint64
		Usage float64
	}
	NetWork []NetWorkInfo
	Streams []StreamInfo
}

func (s *Server) startSummary() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.Done():
			return
		case <-ticker.C:
			s.lastSummary.Store(s.collectSummary(s.lastSummary.Load()))
		}
	}
}

// Summary returns the latest snapshot, collecting one on the spot when
// the background loop has not produced any yet.
func (s *Server) Summary() *Summary {
	if last := s.lastSummary.Load(); last != nil {
		return last
	}
	summary := s.collectSummary(nil)
	s.lastSummary.Store(summary)
	return summary
}

func (s *Server) collectSummary(last *Summary) *Summary {
	summary := &Summary{}
	if v, _ := mem.VirtualMemory(); v != nil {
		summary.Memory.Total = v.Total / 1024 / 1024
		summary.Memory.Free = v.Available / 1024 / 1024
		summary.Memory.Used = v.Used / 1024 / 1024
		summary.Memory.Usage = v.UsedPercent
	}
	if cc, _ := cpu.Percent(0, false); len(cc) > 0 {
		summary.CPUUsage = cc[0]
	}
	if d, _ := disk.Usage("/"); d != nil {
		summary.HardDisk.Free = d.Free / 1024 / 1024 / 1024
		summary.HardDisk.Total = d.Total / 1024 / 1024 / 1024
		summary.HardDisk.Used = d.Used / 1024 / 1024 / 1024
		summary.HardDisk.Usage = d.UsedPercent
	}
	if nv, _ := net.IOCounters(true); len(nv) > 0 {
		summary.NetWork = make([]NetWorkInfo, len(nv))
		for i, n := range nv {
			summary.NetWork[i].Name = n.Name
			summary.NetWork[i].Receive = n.BytesRecv
			summary.NetWork[i].Sent = n.BytesSent
			if last != nil && len(last.NetWork) > i {
				summary.NetWork[i].ReceiveSpeed = n.BytesRecv - last.NetWork[i].Receive
				summary.NetWork[i].SentSpeed = n.BytesSent - last.NetWork[i].Sent
			}
		}
	}
	for _, p := range s.Streams() {
		summary.Streams = append(summary.Streams, p.Snap())
	}
	return summary
}
