// Package actionlog renders slog records as GitHub Actions workflow
// commands, or as styled lines when attached to a terminal.
package actionlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Options configures a Handler
type Options struct {
	Level slog.Leveler
	// Styled renders lipgloss-styled lines instead of workflow commands.
	Styled bool
}

var (
	debugStyle = lipgloss.NewStyle().Faint(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Handler is a slog.Handler writing one line per record.
type Handler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	styled bool
	attrs  []slog.Attr
	groups []string
}

// NewHandler returns a Handler writing to w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	if opts == nil {
		opts = &Options{}
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{
		w:      w,
		mu:     &sync.Mutex{},
		level:  level,
		styled: opts.Styled,
	}
}

// New builds a logger for the current process. Debug output follows
// RUNNER_DEBUG, and styling is used only on a terminal outside Actions.
func New(f *os.File) *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("RUNNER_DEBUG") == "1" {
		level = slog.LevelDebug
	}

	styled := os.Getenv("GITHUB_ACTIONS") != "true" &&
		(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))

	return slog.New(NewHandler(f, &Options{Level: level, Styled: styled}))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)

	for _, attr := range h.attrs {
		writeAttr(&sb, attr.Key, attr.Value)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(&sb, h.fullKey(attr.Key), attr.Value)
		return true
	})

	var line string
	if h.styled {
		line = styleLine(record.Level, sb.String())
	} else {
		line = commandLine(record.Level, sb.String())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line+"\n")
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	for _, attr := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.fullKey(attr.Key), Value: attr.Value})
	}
	return clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *Handler) clone() *Handler {
	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	clone.groups = append([]string{}, h.groups...)
	return &clone
}

func (h *Handler) fullKey(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func writeAttr(sb *strings.Builder, key string, v slog.Value) {
	v = v.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, a := range v.Group() {
			writeAttr(sb, key+"."+a.Key, a.Value)
		}
		return
	}
	if key == "" {
		return
	}
	fmt.Fprintf(sb, " %s=%s", key, valueString(v))
}

func valueString(v slog.Value) string {
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.String()
}

// commandLine formats msg as a workflow command for level. Info stays a
// plain log line.
func commandLine(level slog.Level, msg string) string {
	switch {
	case level >= slog.LevelError:
		return "::error::" + escapeData(msg)
	case level >= slog.LevelWarn:
		return "::warning::" + escapeData(msg)
	case level >= slog.LevelInfo:
		return msg
	default:
		return "::debug::" + escapeData(msg)
	}
}

func styleLine(level slog.Level, msg string) string {
	switch {
	case level >= slog.LevelError:
		return errorStyle.Render(msg)
	case level >= slog.LevelWarn:
		return warnStyle.Render(msg)
	case level >= slog.LevelInfo:
		return msg
	default:
		return debugStyle.Render(msg)
	}
}

// escapeData escapes workflow command data so multi-line messages stay a
// single command.
func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}
