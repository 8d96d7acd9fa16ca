package mpxr

import "github.com/prometheus/client_golang/prometheus"

type prometheusDesc struct {
	CPUUsage *prometheus.Desc
	Memory   struct {
		Total, Used, Usage, Free *prometheus.Desc
	}
	Disk struct {
		Total, Used, Usage, Free *prometheus.Desc
	}
	Net struct {
		SendSpeed, ReceiveSpeed *prometheus.Desc
	}
	StreamCount, SubscribeCount, RecordCount            *prometheus.Desc
	SegmentCount, BytesIn, DroppedSegments, Subscribers *prometheus.Desc
}

func (d *prometheusDesc) init() {
	d.CPUUsage = prometheus.NewDesc("cpu_usage", "CPU usage", nil, nil)
	d.Memory.Total = prometheus.NewDesc("memory_total", "Memory total", nil, nil)
	d.Memory.Used = prometheus.NewDesc("memory_used", "Memory used", nil, nil)
	d.Memory.Usage = prometheus.NewDesc("memory_usage", "Memory usage", nil, nil)
	d.Memory.Free = prometheus.NewDesc("memory_free", "Memory free", nil, nil)
	d.Disk.Total = prometheus.NewDesc("disk_total", "Disk total", nil, nil)
	d.Disk.Used = prometheus.NewDesc("disk_used", "Disk used", nil, nil)
	d.Disk.Usage = prometheus.NewDesc("disk_usage", "Disk usage", nil, nil)
	d.Disk.Free = prometheus.NewDesc("disk_free", "Disk free", nil, nil)
	d.Net.SendSpeed = prometheus.NewDesc("net_send_speed", "Net send speed", []string{"name"}, nil)
	d.Net.ReceiveSpeed = prometheus.NewDesc("net_receive_speed", "Net receive speed", []string{"name"}, nil)
	d.StreamCount = prometheus.NewDesc("stream_count", "Stream count", nil, nil)
	d.SubscribeCount = prometheus.NewDesc("subscribe_count", "Subscriber count", nil, nil)
	d.RecordCount = prometheus.NewDesc("record_count", "Streams being recorded", nil, nil)
	d.SegmentCount = prometheus.NewDesc("segment_count", "Media segments built", []string{"streamPath"}, nil)
	d.BytesIn = prometheus.NewDesc("bytes_in", "Frame bytes ingested", []string{"streamPath"}, nil)
	d.DroppedSegments = prometheus.NewDesc("dropped_segments", "Segments dropped on slow subscribers", []string{"streamPath"}, nil)
	d.Subscribers = prometheus.NewDesc("subscribers", "Subscribers per stream", []string{"streamPath"}, nil)
}

func (s *Server) Describe(ch chan<- *prometheus.Desc) {
	desc := &s.prometheusDesc
	ch <- desc.CPUUsage
	ch <- desc.Memory.Total
	ch <- desc.Memory.Used
	ch <- desc.Memory.Usage
	ch <- desc.Memory.Free
	ch <- desc.Disk.Total
	ch <- desc.Disk.Used
	ch <- desc.Disk.Usage
	ch <- desc.Disk.Free
	ch <- desc.Net.SendSpeed
	ch <- desc.Net.ReceiveSpeed
	ch <- desc.StreamCount
	ch <- desc.SubscribeCount
	ch <- desc.RecordCount
	ch <- desc.SegmentCount
	ch <- desc.BytesIn
	ch <- desc.DroppedSegments
	ch <- desc.Subscribers
}

func (s *Server) Collect(ch chan<- prometheus.Metric) {
	desc := &s.prometheusDesc
	if summary := s.lastSummary.Load(); summary != nil {
		ch <- prometheus.MustNewConstMetric(desc.CPUUsage, prometheus.GaugeValue, summary.CPUUsage)
		ch <- prometheus.MustNewConstMetric(desc.Memory.Total, prometheus.GaugeValue, float64(summary.Memory.Total))
		ch <- prometheus.MustNewConstMetric(desc.Memory.Used, prometheus.GaugeValue, float64(summary.Memory.Used))
		ch <- prometheus.MustNewConstMetric(desc.Memory.Usage, prometheus.GaugeValue, summary.Memory.Usage)
		ch <- prometheus.MustNewConstMetric(desc.Memory.Free, prometheus.GaugeValue, float64(summary.Memory.Free))
		ch <- prometheus.MustNewConstMetric(desc.Disk.Total, prometheus.GaugeValue, float64(summary.HardDisk.Total))
		ch <- prometheus.MustNewConstMetric(desc.Disk.Used, prometheus.GaugeValue, float64(summary.HardDisk.Used))
		ch <- prometheus.MustNewConstMetric(desc.Disk.Usage, prometheus.GaugeValue, summary.HardDisk.Usage)
		ch <- prometheus.MustNewConstMetric(desc.Disk.Free, prometheus.GaugeValue, float64(summary.HardDisk.Free))
		for _, net := range summary.NetWork {
			ch <- prometheus.MustNewConstMetric(desc.Net.SendSpeed, prometheus.GaugeValue, float64(net.SentSpeed), net.Name)
			ch <- prometheus.MustNewConstMetric(desc.Net.ReceiveSpeed, prometheus.GaugeValue, float64(net.ReceiveSpeed), net.Name)
		}
	}
	var subscribers, recording int
	streams := s.Streams()
	for _, p := range streams {
		info := p.Snap()
		subscribers += info.SubscriberCount
		if info.Recording {
			recording++
		}
		ch <- prometheus.MustNewConstMetric(desc.SegmentCount, prometheus.CounterValue, float64(info.FrameCount), info.StreamPath)
		ch <- prometheus.MustNewConstMetric(desc.BytesIn, prometheus.CounterValue, float64(info.BytesIn), info.StreamPath)
		ch <- prometheus.MustNewConstMetric(desc.DroppedSegments, prometheus.CounterValue, float64(info.DroppedSegments), info.StreamPath)
		ch <- prometheus.MustNewConstMetric(desc.Subscribers, prometheus.GaugeValue, float64(info.SubscriberCount), info.StreamPath)
	}
	ch <- prometheus.MustNewConstMetric(desc.StreamCount, prometheus.GaugeValue, float64(len(streams)))
	ch <- prometheus.MustNewConstMetric(desc.SubscribeCount, prometheus.GaugeValue, float64(subscribers))
	ch <- prometheus.MustNewConstMetric(desc.RecordCount, prometheus.GaugeValue, float64(recording))
}
