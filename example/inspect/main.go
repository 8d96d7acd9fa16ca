package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/idlab-discover/Multi-path-XR-sub001/pkg/box"
)

func main() {
	selfTest := flag.Bool("test", false, "build a segment pair, reparse and dump it")
	flag.Parse()
	if *selfTest {
		if err := runSelfTest(); err != nil {
			fmt.Fprintln(os.Stderr, "self test failed:", err)
			os.Exit(1)
		}
		return
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-test] <file.mp4|file.m4s>...")
		os.Exit(2)
	}
	for _, name := range flag.Args() {
		data, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		boxes, err := box.ParseMP4Boxes(data)
		if err != nil {
			fmt.Fprintln(os.Stderr, name+":", err)
			os.Exit(1)
		}
		fmt.Println(name)
		box.Dump(os.Stdout, boxes)
	}
}

// runSelfTest builds an init and a media segment, reparses both and
// checks that remarshalling reproduces the input bytes.
func runSelfTest() error {
	cfg := box.StreamConfig{
		TrackID:               1,
		Timescale:             30000,
		DefaultSampleDuration: 1000,
		CodecFourCC:           [4]byte{'d', 'r', 'a', ' '},
		CodecName:             "PointCloudCodec_dra",
		Width:                 1920,
		Height:                1080,
	}
	frame := make([]byte, 1024)
	for i := range frame {
		frame[i] = byte(i)
	}
	segments := []struct {
		name string
		data []byte
	}{
		{"init", box.CreateInitSegment(cfg)},
		{"media", box.CreateMediaSegment(cfg, frame, 1, 0)},
	}
	for _, segment := range segments {
		boxes, err := box.ParseMP4Boxes(segment.data)
		if err != nil {
			return fmt.Errorf("%s segment: %w", segment.name, err)
		}
		var out []byte
		for _, b := range boxes {
			out = b.Marshal(out)
		}
		if !bytes.Equal(out, segment.data) {
			return fmt.Errorf("%s segment: remarshal differs", segment.name)
		}
		fmt.Printf("%s segment, %d bytes\n", segment.name, len(segment.data))
		box.Dump(os.Stdout, boxes)
	}
	return nil
}
