package mpxr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	. "github.com/idlab-discover/Multi-path-XR-sub001/pkg"
	"github.com/idlab-discover/Multi-path-XR-sub001/pkg/box"
)

// newTestServer wires a server the way Run does, minus the listener
// and the database, so handlers can be driven through httptest.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer()
	s.StartTime = time.Now()
	s.conf.Parse(&s.Config, "MPXR")
	s.Config.Log.Level = "error"
	s.Config.Subscribe.WaitTimeout = 100 * time.Millisecond
	s.initLog()
	s.Context, s.CancelCauseFunc = context.WithCancelCause(context.Background())
	s.prometheusDesc.init()
	s.registry = prometheus.NewRegistry()
	s.registry.MustRegister(s)
	s.registerHandlers()
	t.Cleanup(func() {
		for _, p := range s.Streams() {
			s.closeStream(p, ErrDisposed)
		}
		s.CancelCauseFunc(nil)
	})
	return s
}

func TestPublishAndFetchSegments(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Config.HTTP.GetHandler())
	defer ts.Close()

	frame := bytes.Repeat([]byte{0xAB}, 1024)
	resp, err := http.Post(ts.URL+"/api/publish/live/test?pts=0", "application/octet-stream", bytes.NewReader(frame))
	require.NoError(t, err)
	var seqResp map[string]uint32
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&seqResp))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, uint32(0), seqResp["sequence"])

	t.Run("init_segment", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/dash/live/test/init.mp4")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))

		boxes, err := box.ParseMP4Boxes(body)
		require.NoError(t, err)
		require.Len(t, boxes, 2)
		moov := boxes[1].(*box.MovieBox)
		require.Equal(t, uint32(30000), moov.Mvhd.Timescale, "timescale is fps*1000")
		require.Len(t, moov.Traks, 1)
	})

	t.Run("media_segment", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/dash/live/test/000000000.m4s")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "video/iso.segment", resp.Header.Get("Content-Type"))

		mdats, err := box.ExtractMdatBoxes(body)
		require.NoError(t, err)
		require.Len(t, mdats, 1)
		require.Equal(t, frame, mdats[0].Data)
	})

	t.Run("mp4_suffix", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/dash/live/test/0.mp4")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bad_segment_name", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/dash/live/test/segment-0.webm")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("future_segment_times_out", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/dash/live/test/000000009.m4s")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown_stream", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/dash/nope/init.mp4")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("empty_frame_rejected", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/publish/live/test", "application/octet-stream", bytes.NewReader(nil))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestStreamAPIs(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Config.HTTP.GetHandler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/stream/create/live/cam1?fps=25&codec=hevc&width=640&height=480", "", nil)
	require.NoError(t, err)
	var info StreamInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "hevc", info.Codec)
	require.Equal(t, uint32(25000), info.Timescale)
	require.Equal(t, uint16(640), info.Width)

	t.Run("duplicate_conflicts", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/stream/create/live/cam1", "", nil)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("create_requires_post", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/stream/create/live/cam2")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/stream/list")
		require.NoError(t, err)
		var list []StreamInfo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		resp.Body.Close()
		require.Len(t, list, 1)
		require.Equal(t, "live/cam1", list[0].StreamPath)
	})

	t.Run("info_missing", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/stream/info/live/ghost")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("close", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/stream/close/live/cam1", "", nil)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = http.Get(ts.URL + "/api/stream/info/live/cam1")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("summary_and_metrics", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/summary")
		require.NoError(t, err)
		var summary Summary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, string(body), "stream_count")
	})

	t.Run("config", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/config")
		require.NoError(t, err)
		var conf map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&conf))
		resp.Body.Close()
		require.Contains(t, conf, "publish")
	})
}

func TestWebSocketEgress(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Config.HTTP.GetHandler())
	defer ts.Close()

	p, err := s.Publish("live/ws", s.Config.Publish)
	require.NoError(t, err)
	defer s.closeStream(p, ErrDisposed)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/live/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	mt, initSegment, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, mt)
	boxes, err := box.ParseMP4Boxes(initSegment)
	require.NoError(t, err)
	require.Len(t, boxes, 2, "first message is the init segment")

	frame := []byte{1, 2, 3, 4}
	_, err = p.WriteFrame(frame, 33)
	require.NoError(t, err)

	_, segment, err := conn.ReadMessage()
	require.NoError(t, err)
	mdats, err := box.ExtractMdatBoxes(segment)
	require.NoError(t, err)
	require.Len(t, mdats, 1)
	require.Equal(t, frame, mdats[0].Data)

	t.Run("unknown_stream_rejected", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/live/ghost", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestSubscriberDropsWhenFull(t *testing.T) {
	s := newTestServer(t)
	s.Config.Subscribe.BufferSize = 2

	p, err := s.Publish("live/slow", s.Config.Publish)
	require.NoError(t, err)
	sub, err := s.Subscribe("live/slow")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = p.WriteFrame([]byte{byte(i)}, uint64(i)*33)
		require.NoError(t, err)
	}
	require.Equal(t, uint32(3), sub.Dropped(), "everything past the buffer is dropped")

	segment := <-sub.C
	require.Equal(t, uint32(0), segment.Sequence)

	s.Unsubscribe(sub)
	segment, ok := <-sub.C
	require.True(t, ok, "buffered segment survives unsubscribe")
	require.Equal(t, uint32(1), segment.Sequence)
	_, ok = <-sub.C
	require.False(t, ok)
}

func TestSubscribeLimit(t *testing.T) {
	s := newTestServer(t)
	s.Config.Subscribe.MaxCount = 1

	_, err := s.Publish("live/limited", s.Config.Publish)
	require.NoError(t, err)
	sub, err := s.Subscribe("live/limited")
	require.NoError(t, err)
	_, err = s.Subscribe("live/limited")
	require.ErrorIs(t, err, ErrExceedLimit)
	s.Unsubscribe(sub)

	_, err = s.Subscribe("live/ghost")
	require.ErrorIs(t, err, ErrStreamNotFound)
}

func TestPublishKickover(t *testing.T) {
	s := newTestServer(t)
	conf := s.Config.Publish

	p1, err := s.Publish("live/kick", conf)
	require.NoError(t, err)
	_, err = s.Publish("live/kick", conf)
	require.ErrorIs(t, err, ErrStreamExist)

	_, err = p1.WriteFrame([]byte{1}, 0)
	require.NoError(t, err)
	_, err = p1.WriteFrame([]byte{2}, 33)
	require.NoError(t, err)

	sub, err := s.Subscribe("live/kick")
	require.NoError(t, err)

	conf.KickExist = true
	p2, err := s.Publish("live/kick", conf)
	require.NoError(t, err)

	_, err = p1.WriteFrame([]byte{3}, 66)
	require.ErrorIs(t, err, ErrStreamNotFound, "kicked publisher is dead")

	seq, err := p2.WriteFrame([]byte{3}, 66)
	require.NoError(t, err)
	require.Equal(t, uint32(2), seq, "sequence numbering survives the kick")

	segment := <-sub.C
	require.Equal(t, uint32(2), segment.Sequence, "subscriber migrates to the new publisher")

	s.Unsubscribe(sub)
	_, ok := <-sub.C
	require.False(t, ok)
}

func TestPublishLimit(t *testing.T) {
	s := newTestServer(t)
	conf := s.Config.Publish
	conf.MaxCount = 1

	_, err := s.Publish("live/a", conf)
	require.NoError(t, err)
	_, err = s.Publish("live/b", conf)
	require.ErrorIs(t, err, ErrExceedLimit)
}

func TestPublishTimeout(t *testing.T) {
	s := newTestServer(t)
	conf := s.Config.Publish
	conf.PublishTimeout = 30 * time.Millisecond

	p, err := s.Publish("live/idle", conf)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := s.GetPublisher("live/idle")
		return !ok
	}, time.Second, 10*time.Millisecond, "idle stream closes itself")

	_, err = p.WriteFrame([]byte{1}, 0)
	require.ErrorIs(t, err, ErrStreamNotFound)
}

func TestRecorderWritesSegmentFiles(t *testing.T) {
	s := newTestServer(t)
	s.Config.Record.FilePath = t.TempDir()

	p, err := s.Publish("live/rec", s.Config.Publish)
	require.NoError(t, err)
	require.True(t, p.Snap().Recording)

	frame := bytes.Repeat([]byte{0x5A}, 64)
	_, err = p.WriteFrame(frame, 0)
	require.NoError(t, err)
	_, err = p.WriteFrame(frame, 33)
	require.NoError(t, err)

	dir := filepath.Join(s.Config.Record.FilePath, "live/rec")
	initSegment, err := os.ReadFile(filepath.Join(dir, "init.mp4"))
	require.NoError(t, err)
	boxes, err := box.ParseMP4Boxes(initSegment)
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "000000001.m4s"))
		return err == nil
	}, time.Second, 10*time.Millisecond, "recorder drains the segment channel")

	data, err := os.ReadFile(filepath.Join(dir, "000000000.m4s"))
	require.NoError(t, err)
	mdats, err := box.ExtractMdatBoxes(data)
	require.NoError(t, err)
	require.Len(t, mdats, 1)
	require.Equal(t, frame, mdats[0].Data)
}

func TestParseSegmentName(t *testing.T) {
	seq, err := parseSegmentName("000000012.m4s")
	require.NoError(t, err)
	require.Equal(t, uint32(12), seq)

	seq, err = parseSegmentName("7.mp4")
	require.NoError(t, err)
	require.Equal(t, uint32(7), seq)

	_, err = parseSegmentName("init.webm")
	require.ErrorIs(t, err, ErrSegmentName)
	_, err = parseSegmentName("abc.m4s")
	require.ErrorIs(t, err, ErrSegmentName)
}
