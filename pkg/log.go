package pkg

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/alchemy/rotoslog"
	"github.com/phsym/console-slog"
	slogcommon "github.com/samber/slog-common"
)

// TraceLevel sits below slog.LevelDebug for per-segment noise.
const TraceLevel = slog.Level(-8)

var _ slog.Handler = (*MultiLogHandler)(nil)

func ParseLevel(level string) slog.Level {
	var lv slog.LevelVar
	if level == "trace" {
		lv.Set(TraceLevel)
	} else {
		lv.UnmarshalText([]byte(level))
	}
	return lv.Level()
}

// NewConsoleHandler writes colored human-readable lines, the default sink.
func NewConsoleHandler(w io.Writer, level slog.Level) slog.Handler {
	return console.NewHandler(w, &console.HandlerOptions{Level: level, TimeFormat: "15:04:05.000000"})
}

// NewRotateHandler writes plain console-formatted lines into size-rotated
// files under dir.
func NewRotateHandler(dir string, size, maxFiles uint64, layout string, level slog.Level) (slog.Handler, error) {
	builder := func(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
		return console.NewHandler(w, &console.HandlerOptions{NoColor: true, Level: level, TimeFormat: "2006-01-02 15:04:05.000"})
	}
	return rotoslog.NewHandler(rotoslog.LogHandlerBuilder(builder), rotoslog.LogDir(dir), rotoslog.MaxFileSize(size), rotoslog.DateTimeLayout(layout), rotoslog.MaxRotatedFiles(maxFiles))
}

type MultiLogHandler struct {
	handlers     []slog.Handler
	attrChildren map[*MultiLogHandler][]slog.Attr
	parentLevel  *slog.Level
	level        *slog.Level
}

func (m *MultiLogHandler) Add(h slog.Handler) {
	m.handlers = append(m.handlers, h)
	for child, attrs := range m.attrChildren {
		child.Add(h.WithAttrs(attrs))
	}
}

func (m *MultiLogHandler) Remove(h slog.Handler) {
	if i := slices.Index(m.handlers, h); i != -1 {
		m.handlers = slices.Delete(m.handlers, i, i+1)
	}
}

func (m *MultiLogHandler) SetLevel(level slog.Level) {
	if m.level == nil {
		m.level = &level
	} else {
		*m.level = level
	}
}

// Enabled implements slog.Handler.
func (m *MultiLogHandler) Enabled(_ context.Context, l slog.Level) bool {
	if m.level != nil {
		return l >= *m.level
	}
	return l >= *m.parentLevel
}

// Handle implements slog.Handler.
func (m *MultiLogHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, h := range m.handlers {
		if err := h.Handle(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (m *MultiLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	result := &MultiLogHandler{
		handlers:    make([]slog.Handler, len(m.handlers)),
		parentLevel: m.parentLevel,
	}
	if m.attrChildren == nil {
		m.attrChildren = make(map[*MultiLogHandler][]slog.Attr)
	}
	m.attrChildren[result] = attrs
	if m.level != nil {
		result.parentLevel = m.level
	}
	for i, h := range m.handlers {
		result.handlers[i] = h.WithAttrs(attrs)
	}
	return result
}

// WithGroup implements slog.Handler.
func (m *MultiLogHandler) WithGroup(name string) slog.Handler {
	result := &MultiLogHandler{
		handlers:    make([]slog.Handler, len(m.handlers)),
		parentLevel: m.parentLevel,
	}
	if m.level != nil {
		result.parentLevel = m.level
	}
	for i, h := range m.handlers {
		result.handlers[i] = h.WithGroup(name)
	}
	return result
}

var _ slog.Handler = (*JSONLogHandler)(nil)

// JSONLogHandler appends one JSON object per record, for log shippers.
type JSONLogHandler struct {
	mu     sync.Mutex
	w      io.Writer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func NewJSONLogHandler(w io.Writer, level slog.Level) *JSONLogHandler {
	return &JSONLogHandler{w: w, level: level}
}

func (h *JSONLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *JSONLogHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := slogcommon.AppendRecordAttrsToAttrs(h.attrs, h.groups, &r)
	attrs = slogcommon.RemoveEmptyAttrs(attrs)
	extra := slogcommon.AttrsToMap(attrs...)
	payload := map[string]any{
		"timestamp": r.Time.UTC(),
		"level":     r.Level.String(),
		"message":   r.Message,
	}
	for _, errorKey := range []string{"error", "err"} {
		if v, ok := extra[errorKey]; ok {
			if err, ok := v.(error); ok {
				payload[errorKey] = slogcommon.FormatError(err)
				delete(extra, errorKey)
				break
			}
		}
	}
	payload["extra"] = extra
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(append(data, '\n'))
	return err
}

func (h *JSONLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &JSONLogHandler{w: h.w, level: h.level, attrs: newAttrs, groups: h.groups}
}

func (h *JSONLogHandler) WithGroup(name string) slog.Handler {
	return &JSONLogHandler{w: h.w, level: h.level, attrs: h.attrs, groups: append(append([]string(nil), h.groups...), name)}
}
