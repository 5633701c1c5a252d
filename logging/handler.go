// Package logging builds the slog handlers the binaries log through.
package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Formats accepted by New.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// New returns a handler for format writing to w at level.
func New(w io.Writer, format string, level slog.Leveler, addSource bool) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level, AddSource: addSource}
	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.NewTextHandler(w, opts), nil
	case FormatJSON:
		return slog.NewJSONHandler(w, opts), nil
	case FormatPretty:
		return NewPrettyJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// ParseLevel accepts debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// PrettyJSONHandler writes one indented JSON object per record. time, level,
// msg and source always come first, then attributes in the order logged.
// Not built for throughput.
type PrettyJSONHandler struct {
	w         io.Writer
	mu        *sync.Mutex
	level     slog.Leveler
	addSource bool

	// pre holds attrs added with WithAttrs, already nested under the groups
	// open at the time.
	pre    []field
	groups []string
}

type field struct {
	key string
	val any
}

func NewPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyJSONHandler {
	h := &PrettyJSONHandler{w: w, mu: &sync.Mutex{}, level: slog.LevelInfo}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.addSource = opts.AddSource
	}
	return h
}

func (h *PrettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	when := r.Time
	if when.IsZero() {
		when = time.Now()
	}
	fields := []field{
		{"time", when.Format(time.RFC3339Nano)},
		{"level", r.Level.String()},
		{"msg", r.Message},
	}
	if h.addSource {
		if src := sourceFromPC(r.PC); src != "" {
			fields = append(fields, field{"source", src})
		}
	}
	fields = append(fields, h.pre...)

	var attrs []field
	r.Attrs(func(a slog.Attr) bool {
		attrs = appendAttr(attrs, a)
		return true
	})
	fields = append(fields, nest(h.groups, attrs)...)

	var buf bytes.Buffer
	writeObject(&buf, fields, "")
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *PrettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var fs []field
	for _, a := range attrs {
		fs = appendAttr(fs, a)
	}
	clone := *h
	clone.pre = append(append([]field(nil), h.pre...), nest(h.groups, fs)...)
	return &clone
}

// WithGroup nests attrs logged later under name. Attrs added earlier with
// WithAttrs stay where they were.
func (h *PrettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func nest(groups []string, fs []field) []field {
	if len(fs) == 0 {
		return nil
	}
	for i := len(groups) - 1; i >= 0; i-- {
		fs = []field{{groups[i], fs}}
	}
	return fs
}

func appendAttr(dst []field, a slog.Attr) []field {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		var child []field
		for _, ga := range v.Group() {
			child = appendAttr(child, ga)
		}
		if len(child) == 0 {
			return dst
		}
		// Inline groups with an empty key, as slog does.
		if a.Key == "" {
			return append(dst, child...)
		}
		return append(dst, field{a.Key, child})
	}
	if a.Key == "" {
		return dst
	}
	return append(dst, field{a.Key, valueToAny(v)})
}

func valueToAny(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.String()
	}
}

func writeObject(buf *bytes.Buffer, fs []field, indent string) {
	if len(fs) == 0 {
		buf.WriteString("{}")
		return
	}
	inner := indent + "  "
	buf.WriteString("{\n")
	for i, f := range fs {
		buf.WriteString(inner)
		buf.WriteString(strconv.Quote(f.key))
		buf.WriteString(": ")
		writeValue(buf, f.val, inner)
		if i < len(fs)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(indent)
	buf.WriteByte('}')
}

func writeValue(buf *bytes.Buffer, v any, indent string) {
	if child, ok := v.([]field); ok {
		writeObject(buf, child, indent)
		return
	}
	b, err := json.MarshalIndent(v, indent, "  ")
	if err != nil {
		// Keep the line rather than drop it.
		b = []byte(strconv.Quote(fmt.Sprintf("%+v", v)))
	}
	buf.Write(b)
}

func sourceFromPC(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if f.File == "" {
		return ""
	}
	file := f.File
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return file + ":" + strconv.Itoa(f.Line)
}
