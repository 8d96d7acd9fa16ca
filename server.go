package mpxr

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	. "github.com/idlab-discover/Multi-path-XR-sub001/pkg"
	"github.com/idlab-discover/Multi-path-XR-sub001/pkg/config"
	"github.com/idlab-discover/Multi-path-XR-sub001/pkg/db"
)

var Version = "v1.0.0"

// Server hosts the stream registry and every delivery surface: the
// segment APIs, the WebSocket egress, the recorder and the metrics.
type Server struct {
	StartTime time.Time
	context.Context
	context.CancelCauseFunc
	*slog.Logger
	LogHandler MultiLogHandler
	Config     config.Engine
	DB         *gorm.DB

	sync.RWMutex // guards streams
	streams      map[string]*Publisher
	disposed     bool

	conf           config.Config
	registry       *prometheus.Registry
	prometheusDesc prometheusDesc
	lastSummary    atomic.Pointer[Summary]
}

var DefaultServer = NewServer()

func NewServer() *Server {
	return &Server{
		Context: context.TODO(),
		streams: make(map[string]*Publisher),
	}
}

func Run(ctx context.Context, confPath string) error {
	return DefaultServer.Run(ctx, confPath)
}

// Run parses the configuration, wires logging, storage and metrics,
// then serves HTTP until ctx is done or the listener fails.
func (s *Server) Run(ctx context.Context, confPath string) error {
	s.StartTime = time.Now()
	s.conf.Parse(&s.Config, "MPXR")
	if confPath != "" {
		m, err := config.LoadFile(confPath)
		if err != nil {
			return err
		}
		s.conf.ParseUserFile(m)
	}
	s.initLog()
	s.Context, s.CancelCauseFunc = context.WithCancelCause(ctx)
	s.Info("start", "version", Version)
	s.initDB()
	s.prometheusDesc.init()
	s.registry = prometheus.NewRegistry()
	s.registry.MustRegister(s)
	s.registerHandlers()
	go s.startSummary()

	err := s.Config.HTTP.ListenAndServe(s.Context, s.Logger)

	s.Lock()
	s.disposed = true
	streams := make([]*Publisher, 0, len(s.streams))
	for _, p := range s.streams {
		streams = append(streams, p)
	}
	s.Unlock()
	for _, p := range streams {
		s.closeStream(p, ErrDisposed)
	}
	s.CancelCauseFunc(err)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	s.Warn("exit", "reason", err)
	return err
}

func (s *Server) Stop() {
	if s.CancelCauseFunc != nil {
		s.CancelCauseFunc(errors.New("stop"))
	}
}

func (s *Server) initLog() {
	level := ParseLevel(s.Config.Log.Level)
	s.LogHandler.SetLevel(level)
	s.LogHandler.Add(NewConsoleHandler(os.Stdout, level))
	s.Logger = slog.New(&s.LogHandler)
	if s.Config.Log.Path != "" {
		h, err := NewRotateHandler(s.Config.Log.Path, s.Config.Log.Size, s.Config.Log.MaxFiles, s.Config.Log.Formatter, level)
		if err == nil {
			s.LogHandler.Add(h)
		} else {
			s.Warn("log rotation disabled", "err", err)
		}
	}
	if s.Config.Log.JSONFile != "" {
		f, err := os.OpenFile(s.Config.Log.JSONFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			s.LogHandler.Add(NewJSONLogHandler(f, level))
		} else {
			s.Warn("json log disabled", "err", err)
		}
	}
}

func (s *Server) initDB() {
	if s.Config.DBType == "" {
		return
	}
	factory, ok := db.Factory[s.Config.DBType]
	if !ok {
		s.Warn("database driver not built in", "type", s.Config.DBType)
		return
	}
	conn, err := gorm.Open(factory(s.Config.DSN), &gorm.Config{})
	if err != nil {
		s.Error("open database", "err", err, "dsn", s.Config.DSN)
		return
	}
	if err = conn.AutoMigrate(&StreamRecord{}); err != nil {
		s.Error("migrate database", "err", err)
		return
	}
	s.DB = conn
	s.Info("database ready", "type", s.Config.DBType, "dsn", s.Config.DSN)
}

// Publish creates the stream, or takes it over when KickExist allows.
func (s *Server) Publish(streamPath string, conf config.Publish) (*Publisher, error) {
	s.Lock()
	defer s.Unlock()
	if s.disposed {
		return nil, ErrDisposed
	}
	old, exist := s.streams[streamPath]
	if exist && !conf.KickExist {
		return nil, ErrStreamExist
	}
	if !exist && conf.MaxCount > 0 && len(s.streams) >= conf.MaxCount {
		return nil, ErrExceedLimit
	}
	p := newPublisher(s, streamPath, conf)
	if exist {
		old.Warn("kick")
		p.takeOver(old)
		s.finishStreamRecord(old, ErrKick)
	}
	s.streams[streamPath] = p
	s.Info("publish", "streamPath", streamPath, "count", len(s.streams))
	s.saveStreamRecord(p)
	if !exist && s.Config.Record.FilePath != "" {
		if err := s.startRecorder(p); err != nil {
			p.Error("record", "err", err)
		}
	}
	p.startTimeout()
	return p, nil
}

func (s *Server) GetPublisher(streamPath string) (*Publisher, bool) {
	s.RLock()
	defer s.RUnlock()
	p, ok := s.streams[streamPath]
	return p, ok
}

// Streams snapshots the registry for the APIs and the collector.
func (s *Server) Streams() []*Publisher {
	s.RLock()
	defer s.RUnlock()
	streams := make([]*Publisher, 0, len(s.streams))
	for _, p := range s.streams {
		streams = append(streams, p)
	}
	return streams
}

// Subscribe attaches a new segment consumer to an existing stream.
func (s *Server) Subscribe(streamPath string) (*Subscriber, error) {
	p, ok := s.GetPublisher(streamPath)
	if !ok {
		return nil, ErrStreamNotFound
	}
	conf := s.Config.Subscribe
	if conf.MaxCount > 0 && p.SubscriberCount() >= conf.MaxCount {
		return nil, ErrExceedLimit
	}
	sub := newSubscriber(streamPath, conf, p.Logger)
	sub.Publisher = p
	p.AddSubscriber(sub)
	sub.Info("subscribe")
	return sub, nil
}

// Unsubscribe detaches by stream path so a subscriber inherited across
// a publisher takeover still leaves the live registry entry.
func (s *Server) Unsubscribe(sub *Subscriber) {
	sub.Info("unsubscribe", "dropped", sub.Dropped())
	if p, ok := s.GetPublisher(sub.StreamPath); ok {
		p.RemoveSubscriber(sub)
	}
}

func (s *Server) closeStream(p *Publisher, reason error) {
	s.Lock()
	if s.streams[p.StreamPath] == p {
		delete(s.streams, p.StreamPath)
	}
	s.Unlock()
	p.close()
	s.finishStreamRecord(p, reason)
	s.Warn("unpublish", "streamPath", p.StreamPath, "reason", reason)
}
