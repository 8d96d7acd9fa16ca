package config

import (
	"time"
)

type PublishConfig interface {
	GetPublishConfig() *Publish
}

type SubscribeConfig interface {
	GetSubscribeConfig() *Subscribe
}

// Publish holds the defaults stamped onto newly created streams.
type Publish struct {
	MaxCount       int           `default:"0" desc:"maximum number of concurrent streams, 0 means unlimited"`
	KickExist      bool          `desc:"kick the existing publisher when its stream path is taken over"`
	PublishTimeout time.Duration `default:"10s" desc:"close the stream when no frame arrives for this long, 0 disables"`
	FPS            uint32        `default:"30" desc:"frame rate, the track timescale is fps*1000"`
	Width          uint32        `default:"1920" desc:"visual width stamped into the track headers"`
	Height         uint32        `default:"1080" desc:"visual height stamped into the track headers"`
	Codec          string        `default:"dra" desc:"point-cloud codec tag, up to four characters"`
	WindowSize     int           `default:"60" desc:"media segments kept per stream for late joiners"`
}

func (c *Publish) GetPublishConfig() *Publish {
	return c
}

type Subscribe struct {
	MaxCount    int           `default:"0" desc:"maximum number of subscribers per stream, 0 means unlimited"`
	WaitTimeout time.Duration `default:"500ms" desc:"how long a segment request waits for the publisher to catch up"`
	BufferSize  int           `default:"10" desc:"segments buffered per subscriber before dropping"`
}

func (c *Subscribe) GetSubscribeConfig() *Subscribe {
	return c
}

type Log struct {
	Level     string `default:"info" enum:"trace:trace,debug:debug,info:info,warn:warn,error:error" desc:"log level"`
	Path      string `desc:"directory for rotated log files, empty disables file logging"`
	Size      uint64 `default:"1048576" desc:"maximum size of one log file in bytes"`
	Formatter string `default:"2006-01-02T15" desc:"timestamp layout in rotated file names"`
	MaxFiles  uint64 `default:"7" desc:"rotated files kept"`
	JSONFile  string `desc:"append JSON log lines to this file, empty disables"`
}

type Record struct {
	FilePath string `desc:"directory receiving init.mp4 and numbered media segments, empty disables recording"`
}

// Engine is the root configuration. YAML keys follow the lowercase
// section names: publish, subscribe, http, log, db, record.
type Engine struct {
	Publish
	Subscribe
	HTTP
	Log
	DB
	Record
}
