package mpxr

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	. "github.com/idlab-discover/Multi-path-XR-sub001/pkg"
)

// maxFrameSize bounds one encoded point-cloud frame on ingest.
const maxFrameSize = 64 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (s *Server) registerHandlers() {
	h := &s.Config.HTTP
	h.Handle("/api/stream/list", http.HandlerFunc(s.apiStreamList))
	h.Handle("/api/stream/info/", http.HandlerFunc(s.apiStreamInfo))
	h.Handle("/api/stream/create/", http.HandlerFunc(s.apiStreamCreate))
	h.Handle("/api/stream/close/", http.HandlerFunc(s.apiStreamClose))
	h.Handle("/api/publish/", http.HandlerFunc(s.apiPublish))
	h.Handle("/api/summary", http.HandlerFunc(s.apiSummary))
	h.Handle("/api/config", http.HandlerFunc(s.apiConfig))
	h.Handle("/dash/", http.HandlerFunc(s.apiDash))
	h.Handle("/ws/", http.HandlerFunc(s.apiWS))
	h.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

func getStreamPath(r *http.Request, prefix string) string {
	return strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrStreamNotFound), errors.Is(err, ErrSegmentNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrSegmentName):
		code = http.StatusBadRequest
	case errors.Is(err, ErrStreamExist):
		code = http.StatusConflict
	case errors.Is(err, ErrExceedLimit):
		code = http.StatusTooManyRequests
	case errors.Is(err, ErrDisposed):
		code = http.StatusServiceUnavailable
	}
	http.Error(w, err.Error(), code)
}

func (s *Server) apiStreamList(w http.ResponseWriter, r *http.Request) {
	streams := s.Streams()
	list := make([]StreamInfo, 0, len(streams))
	for _, p := range streams {
		list = append(list, p.Snap())
	}
	writeJSON(w, list)
}

func (s *Server) apiStreamInfo(w http.ResponseWriter, r *http.Request) {
	p, ok := s.GetPublisher(getStreamPath(r, "/api/stream/info/"))
	if !ok {
		httpError(w, ErrStreamNotFound)
		return
	}
	writeJSON(w, p.Snap())
}

// apiStreamCreate declares a stream up front. Query parameters
// override the publish defaults: fps, width, height, codec, window,
// kickexist.
func (s *Server) apiStreamCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	streamPath := getStreamPath(r, "/api/stream/create/")
	if streamPath == "" {
		http.Error(w, "stream path required", http.StatusBadRequest)
		return
	}
	conf := s.Config.Publish
	q := r.URL.Query()
	if v := q.Get("fps"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil && n > 0 {
			conf.FPS = uint32(n)
		}
	}
	if v := q.Get("width"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			conf.Width = uint32(n)
		}
	}
	if v := q.Get("height"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			conf.Height = uint32(n)
		}
	}
	if v := q.Get("codec"); v != "" {
		conf.Codec = v
	}
	if v := q.Get("window"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			conf.WindowSize = n
		}
	}
	if v := q.Get("kickexist"); v != "" {
		conf.KickExist = v == "true" || v == "1"
	}
	p, err := s.Publish(streamPath, conf)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, p.Snap())
}

func (s *Server) apiStreamClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	streamPath := getStreamPath(r, "/api/stream/close/")
	p, ok := s.GetPublisher(streamPath)
	if !ok {
		httpError(w, ErrStreamNotFound)
		return
	}
	s.closeStream(p, ErrKick)
	writeJSON(w, map[string]string{"closed": streamPath})
}

// apiPublish ingests one raw encoded frame per request, creating the
// stream on first use. The presentation time in milliseconds comes
// from the pts query parameter or the X-Presentation-Time header and
// defaults to the wall clock.
func (s *Server) apiPublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	streamPath := getStreamPath(r, "/api/publish/")
	if streamPath == "" {
		http.Error(w, "stream path required", http.StatusBadRequest)
		return
	}
	frame, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFrameSize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	if len(frame) == 0 {
		http.Error(w, "empty frame", http.StatusBadRequest)
		return
	}
	pts := uint64(time.Now().UnixMilli())
	if v := r.URL.Query().Get("pts"); v == "" {
		v = r.Header.Get("X-Presentation-Time")
		if v != "" {
			if pts, err = strconv.ParseUint(v, 10, 64); err != nil {
				http.Error(w, "invalid presentation time", http.StatusBadRequest)
				return
			}
		}
	} else if pts, err = strconv.ParseUint(v, 10, 64); err != nil {
		http.Error(w, "invalid presentation time", http.StatusBadRequest)
		return
	}
	p, ok := s.GetPublisher(streamPath)
	if !ok {
		if p, err = s.Publish(streamPath, s.Config.Publish); err != nil {
			httpError(w, err)
			return
		}
	}
	seq, err := p.WriteFrame(frame, pts)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, map[string]uint32{"sequence": seq})
}

// apiDash serves the CMAF pieces a DASH player asks for: init.mp4 and
// zero-padded numbered media segments, .m4s or .mp4 suffixed.
func (s *Server) apiDash(w http.ResponseWriter, r *http.Request) {
	dir, file := path.Split(getStreamPath(r, "/dash/"))
	streamPath := strings.Trim(dir, "/")
	if streamPath == "" || file == "" {
		httpError(w, ErrSegmentName)
		return
	}
	p, ok := s.GetPublisher(streamPath)
	if !ok {
		httpError(w, ErrStreamNotFound)
		return
	}
	if file == "init.mp4" {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write(p.InitSegment())
		return
	}
	seq, err := parseSegmentName(file)
	if err != nil {
		httpError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.Config.Subscribe.WaitTimeout)
	defer cancel()
	segment, err := p.GetSegment(ctx, seq)
	if err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", "video/iso.segment")
	w.Write(segment)
}

func parseSegmentName(name string) (uint32, error) {
	stem, ok := strings.CutSuffix(name, ".m4s")
	if !ok {
		if stem, ok = strings.CutSuffix(name, ".mp4"); !ok {
			return 0, ErrSegmentName
		}
	}
	seq, err := strconv.ParseUint(stem, 10, 32)
	if err != nil {
		return 0, ErrSegmentName
	}
	return uint32(seq), nil
}

// apiWS upgrades to a WebSocket, sends the init segment, then pushes
// every media segment as one binary message.
func (s *Server) apiWS(w http.ResponseWriter, r *http.Request) {
	sub, err := s.Subscribe(getStreamPath(r, "/ws/"))
	if err != nil {
		httpError(w, err)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Unsubscribe(sub)
		return
	}
	var (
		lastPing time.Time
		lastPong time.Time
	)
	conn.SetPongHandler(func(string) error {
		lastPong = time.Now()
		return nil
	})

	// read and discard all messages
	go func(c *websocket.Conn) {
		for {
			if _, _, err := c.NextReader(); err != nil {
				c.Close()
				break
			}
		}
	}(conn)

	defer func() {
		s.Unsubscribe(sub)
		conn.Close()
	}()

	if err = conn.WriteMessage(websocket.BinaryMessage, sub.Publisher.InitSegment()); err != nil {
		return
	}
	var i uint
	for segment := range sub.C {
		if err = conn.WriteMessage(websocket.BinaryMessage, segment.Data); err != nil {
			return
		}
		i++
		if i%10 == 0 {
			if diff := lastPing.Sub(lastPong); diff > time.Second*60 {
				return
			}
			now := time.Now()
			if err = conn.WriteControl(websocket.PingMessage, nil, now.Add(time.Second)); err != nil {
				return
			}
			lastPing = now
		}
	}
}

func (s *Server) apiSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Summary())
}

func (s *Server) apiConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, &s.conf)
}
