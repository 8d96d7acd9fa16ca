package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	t.Run(t.Name(), func(t *testing.T) {
		var engine Engine
		var conf Config
		conf.Parse(&engine)
		if engine.FPS != 30 || engine.Width != 1920 || engine.Height != 1080 {
			t.Errorf("publish defaults: fps=%d width=%d height=%d", engine.FPS, engine.Width, engine.Height)
		}
		if engine.Codec != "dra" || engine.WindowSize != 60 {
			t.Errorf("publish defaults: codec=%q window=%d", engine.Codec, engine.WindowSize)
		}
		if engine.PublishTimeout != 10*time.Second {
			t.Errorf("publishtimeout = %v", engine.PublishTimeout)
		}
		if engine.WaitTimeout != 500*time.Millisecond || engine.Subscribe.BufferSize != 10 {
			t.Errorf("subscribe defaults: wait=%v buffer=%d", engine.WaitTimeout, engine.Subscribe.BufferSize)
		}
		if !engine.CORS || engine.ListenAddr != ":8080" {
			t.Errorf("http defaults: cors=%v addr=%q", engine.CORS, engine.ListenAddr)
		}
		if engine.DBType != "sqlite" || engine.DSN != "mpxr.db" {
			t.Errorf("db defaults: type=%q dsn=%q", engine.DBType, engine.DSN)
		}
		if engine.Log.Level != "info" || engine.Log.MaxFiles != 7 {
			t.Errorf("log defaults: level=%q maxfiles=%d", engine.Log.Level, engine.Log.MaxFiles)
		}
	})
}

func TestUserFile(t *testing.T) {
	t.Run(t.Name(), func(t *testing.T) {
		var engine Engine
		var conf Config
		conf.Parse(&engine)
		conf.ParseUserFile(map[string]any{
			"publish": map[string]any{
				"fps":            60,
				"publishtimeout": "3s",
			},
			"http": map[string]any{
				"listenaddr": ":9000",
				"cors":       false,
			},
			"unknown": map[string]any{"ignored": true},
		})
		if engine.FPS != 60 {
			t.Errorf("fps = %d", engine.FPS)
		}
		if engine.PublishTimeout != 3*time.Second {
			t.Errorf("publishtimeout = %v", engine.PublishTimeout)
		}
		if engine.ListenAddr != ":9000" || engine.CORS {
			t.Errorf("http: addr=%q cors=%v", engine.ListenAddr, engine.CORS)
		}
		// untouched sections keep their defaults
		if engine.WaitTimeout != 500*time.Millisecond {
			t.Errorf("waittimeout = %v", engine.WaitTimeout)
		}
	})
}

// TestModify verifies that restating an effective value leaves no
// Modify mark while a real change is applied and tracked.
func TestModify(t *testing.T) {
	t.Run(t.Name(), func(t *testing.T) {
		var engine Engine
		var conf Config
		conf.Parse(&engine)
		conf.ParseModifyFile(map[string]any{
			"publish": map[string]any{
				"kickexist": false,
			},
		})
		if conf.Modify != nil {
			t.Error("restating the default must not mark Modify")
		}
		conf.ParseModifyFile(map[string]any{
			"publish": map[string]any{
				"kickexist": true,
			},
		})
		if conf.Modify == nil {
			t.Error("change must mark Modify")
		}
		if !engine.KickExist {
			t.Error("change not applied")
		}
		conf.ParseModifyFile(map[string]any{
			"publish": map[string]any{
				"kickexist": false,
			},
		})
		if conf.Modify != nil {
			t.Error("reverting must clear Modify")
		}
		if engine.KickExist {
			t.Error("revert not applied")
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		m, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil || m != nil {
			t.Errorf("missing file: %v %v", m, err)
		}
	})
	t.Run("roundtrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("publish:\n  codec: pcc1\nrecord:\n  filepath: ./rec\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		m, err := LoadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var engine Engine
		var conf Config
		conf.Parse(&engine)
		conf.ParseUserFile(m)
		if engine.Codec != "pcc1" {
			t.Errorf("codec = %q", engine.Codec)
		}
		if engine.Record.FilePath != "./rec" {
			t.Errorf("filepath = %q", engine.Record.FilePath)
		}
	})
}
