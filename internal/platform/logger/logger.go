// Package logger provides structured logging with colored output.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// New creates a structured logger writing to stderr at the given level.
// stdout is reserved for the check report.
func New(level string) *slog.Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter creates a structured logger writing to w at the given level.
// Uses colored text format by default, JSON if LOG_FORMAT=json env var is set.
// Colors can be disabled by setting NO_COLOR=1 or LOG_COLOR=false.
func NewWithWriter(level string, w io.Writer) *slog.Logger {
	l := ParseLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l}))
	}
	return slog.New(newColoredTextHandler(w, l, UseColor()))
}

// ParseLevel maps a level name onto slog.Level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// UseColor determines if colored output should be used.
func UseColor() bool {
	// Respect NO_COLOR env var (https://no-color.org/)
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if logColor := strings.ToLower(os.Getenv("LOG_COLOR")); logColor == "false" || logColor == "0" {
		return false
	}
	return true
}

// levelStyle pairs a fixed-width label with its color.
type levelStyle struct {
	label string
	style lipgloss.Style
}

// coloredTextHandler is a custom slog.Handler that outputs colored text logs.
type coloredTextHandler struct {
	w        io.Writer
	level    slog.Level
	useColor bool
	attrs    []slog.Attr
	groups   []string

	timeStyle lipgloss.Style
	attrStyle lipgloss.Style
	levels    map[slog.Level]levelStyle
}

func newColoredTextHandler(w io.Writer, level slog.Level, useColor bool) *coloredTextHandler {
	r := lipgloss.NewRenderer(w)
	return &coloredTextHandler{
		w:         w,
		level:     level,
		useColor:  useColor,
		timeStyle: r.NewStyle().Foreground(lipgloss.Color("8")),
		attrStyle: r.NewStyle().Foreground(lipgloss.Color("8")),
		levels: map[slog.Level]levelStyle{
			slog.LevelDebug: {"DEBUG", r.NewStyle().Foreground(lipgloss.Color("6"))},
			slog.LevelInfo:  {"INFO ", r.NewStyle().Foreground(lipgloss.Color("4"))},
			slog.LevelWarn:  {"WARN ", r.NewStyle().Foreground(lipgloss.Color("3"))},
			slog.LevelError: {"ERROR", r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)},
		},
	}
}

func (h *coloredTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *coloredTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(h.paint(h.timeStyle, r.Time.Format("2006-01-02 15:04:05")))
	buf.WriteString(" ")

	if ls, ok := h.levels[r.Level]; ok {
		buf.WriteString(h.paint(ls.style, ls.label))
	} else {
		buf.WriteString(r.Level.String())
	}
	buf.WriteString(" ")

	buf.WriteString(r.Message)

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, prefix, a)
		return true
	})

	// Handler-level attributes
	for _, a := range h.attrs {
		h.writeAttr(&buf, "", a)
	}

	buf.WriteString("\n")
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *coloredTextHandler) writeAttr(buf *strings.Builder, prefix string, a slog.Attr) {
	buf.WriteString(" ")
	buf.WriteString(h.paint(h.attrStyle, prefix+a.Key+"="+a.Value.String()))
}

func (h *coloredTextHandler) paint(s lipgloss.Style, text string) string {
	if !h.useColor {
		return text
	}
	return s.Render(text)
}

func (h *coloredTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *coloredTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}
