package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const redacted = "[redacted]"

var secretKeys = map[string]struct{}{
	"token":         {},
	"host_token":    {},
	"access_token":  {},
	"session_token": {},
	"api_key":       {},
	"client_secret": {},
	"signing_key":   {},
	"authorization": {},
	"code":          {},
}

// IsSecretKey reports whether an attribute with this key must never be
// written in clear.
func IsSecretKey(key string) bool {
	_, ok := secretKeys[strings.ToLower(key)]
	return ok
}

// redactAttr is shared by both handlers as slog ReplaceAttr.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if IsSecretKey(a.Key) && a.Value.Kind() != slog.KindGroup {
		return slog.String(a.Key, redacted)
	}
	return a
}

// PrettyHandler renders colored single-line records for terminal use.
type PrettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	fields []string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	h := &PrettyHandler{w: w, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := append([]string(nil), h.fields...)
	r.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, h.prefix, a)
		return true
	})

	line := levelBadge(r.Level) + " " + r.Message
	if len(fields) > 0 {
		line += " " + strings.Join(fields, " ")
	}

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			line += " " + color.HiBlackString("(%s:%d)", filepath.Base(frame.File), frame.Line)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line+"\n")
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = append([]string(nil), h.fields...)
	for _, a := range attrs {
		clone.fields = h.appendAttr(clone.fields, h.prefix, a)
	}
	return &clone
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// appendAttr flattens groups into dotted keys and colors the value by key.
func (h *PrettyHandler) appendAttr(fields []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}
	if a.Value.Kind() == slog.KindGroup {
		nested := prefix
		if a.Key != "" {
			nested += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			fields = h.appendAttr(fields, nested, ga)
		}
		return fields
	}

	a = redactAttr(nil, a)
	return append(fields, colorField(prefix+a.Key, a.Key, a.Value.String()))
}

func levelBadge(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return color.RedString("[ERROR]")
	case level >= slog.LevelWarn:
		return color.YellowString("[WARN] ")
	case level >= slog.LevelInfo:
		return color.CyanString("[INFO] ")
	case level >= slog.LevelDebug:
		return color.HiBlackString("[DEBUG]")
	default:
		return fmt.Sprintf("[%s]", level.String())
	}
}

func colorField(fullKey, key, val string) string {
	switch key {
	case "error", "err":
		return color.RedString("%s=%s", fullKey, val)
	case "duration_ms", "duration":
		return color.MagentaString("%s=%s", fullKey, val)
	case "status", "size", "repositories", "assignees", "total_tokens":
		return color.GreenString("%s=%s", fullKey, val)
	case "request_id", "operation", "provider", "model":
		return color.CyanString("%s=%s", fullKey, val)
	default:
		return color.HiBlackString("%s=%s", fullKey, val)
	}
}
