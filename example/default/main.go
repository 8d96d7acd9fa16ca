package main

import (
	"context"
	"flag"
	"time"

	mpxr "github.com/idlab-discover/Multi-path-XR-sub001"
)

func main() {
	conf := flag.String("c", "config.yaml", "config file")
	demo := flag.String("demo", "", "publish a synthetic stream at this path")
	flag.Parse()
	if *demo != "" {
		go publishDemo(*demo)
	}
	mpxr.Run(context.Background(), *conf)
}

// publishDemo feeds deterministic frames at the configured rate so the
// segment APIs have something to serve right away.
func publishDemo(streamPath string) {
	time.Sleep(time.Second)
	s := mpxr.DefaultServer
	p, err := s.Publish(streamPath, s.Config.Publish)
	if err != nil {
		return
	}
	interval := time.Second / time.Duration(s.Config.Publish.FPS)
	start := time.Now()
	for i := 0; ; i++ {
		frame := make([]byte, 4096)
		for j := range frame {
			frame[j] = byte(i + j)
		}
		if _, err = p.WriteFrame(frame, uint64(time.Since(start).Milliseconds())); err != nil {
			return
		}
		time.Sleep(interval)
	}
}
