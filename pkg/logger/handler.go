package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Options struct {
	// Level is the minimum level written. Defaults to slog.LevelInfo.
	Level slog.Leveler

	TimeFormat string

	// ShortSource prints file:line of the call site.
	ShortSource bool

	// NoColor strips ANSI sequences from every line.
	NoColor bool
}

var DefaultOptions = &Options{
	Level:       slog.LevelDebug,
	TimeFormat:  time.DateTime,
	ShortSource: true,
}

// Handler writes one colored line per record:
// time, request id, level badge, source, message and attributes.
type Handler struct {
	opts   Options
	groups []string
	attrs  []slog.Attr

	mu  *sync.Mutex
	out io.Writer
}

func NewHandler(out io.Writer, opts *Options) *Handler {
	if opts == nil {
		opts = DefaultOptions
	}
	h := &Handler{opts: *opts, mu: &sync.Mutex{}, out: out}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

var levelBadges = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.BgCyan, color.FgHiWhite),
	slog.LevelInfo:  color.New(color.BgGreen, color.FgHiWhite),
	slog.LevelWarn:  color.New(color.BgYellow, color.FgHiWhite),
	slog.LevelError: color.New(color.BgRed, color.FgHiWhite),
}

var (
	faint   = color.New(color.Faint)
	magenta = color.New(color.FgMagenta)
	cyan    = color.New(color.FgCyan)
	red     = color.New(color.FgRed)
)

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	bf := bufPool.Get().(*bytes.Buffer)
	bf.Reset()
	defer bufPool.Put(bf)

	if !r.Time.IsZero() {
		bf.WriteString(faint.Sprint(r.Time.Format(h.opts.TimeFormat)))
		bf.WriteByte(' ')
	}

	if requestID, ok := RequestIDFromContext(ctx); ok {
		bf.WriteString(magenta.Sprint(requestID))
		bf.WriteByte(' ')
	}

	bf.WriteString(levelBadge(r.Level))
	bf.WriteByte(' ')

	if h.opts.ShortSource && r.PC != 0 {
		f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		fmt.Fprintf(bf, "%s:%d ", filepath.Base(f.File), f.Line)
	}

	bf.WriteString(color.HiWhiteString("| "))
	bf.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(bf, a)
	}
	prefix := h.groupPrefix()
	r.Attrs(func(a slog.Attr) bool {
		a.Key = prefix + a.Key
		writeAttr(bf, a)
		return true
	})

	bf.WriteByte('\n')

	if h.opts.NoColor {
		stripANSI(bf)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.Copy(h.out, bf)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := h.clone()
	prefix := h.groupPrefix()
	for _, a := range attrs {
		a.Key = prefix + a.Key
		h2.attrs = append(h2.attrs, a)
	}
	return h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

func (h *Handler) clone() *Handler {
	return &Handler{
		opts:   h.opts,
		groups: append([]string(nil), h.groups...),
		attrs:  append([]slog.Attr(nil), h.attrs...),
		mu:     h.mu,
		out:    h.out,
	}
}

func (h *Handler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func writeAttr(bf *bytes.Buffer, a slog.Attr) {
	bf.WriteByte(' ')
	if strings.Contains(a.Key, "err") {
		bf.WriteString(red.Sprintf("%s=", a.Key))
	} else {
		bf.WriteString(cyan.Sprintf("%s=", a.Key))
	}
	bf.WriteString(a.Value.String())
}

func levelBadge(level slog.Level) string {
	label := fmt.Sprintf("%-5s", level.String())
	if c, ok := levelBadges[level]; ok {
		return c.Sprint(label)
	}
	return label
}

var bufPool = sync.Pool{
	New: func() any { return &bytes.Buffer{} },
}

var ansi = regexp.MustCompile("[\u001B\u009B][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?\u0007)|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))")

func stripANSI(bf *bytes.Buffer) {
	cleaned := ansi.ReplaceAll(bf.Bytes(), nil)
	bf.Reset()
	bf.Write(cleaned)
}
