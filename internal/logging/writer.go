package logging

import (
	"bytes"
	"log/slog"
	"strings"
)

// Writer is an io.WriteCloser that forwards command output to slog one line at a time.
// A trailing partial line is emitted on Close.
type Writer struct {
	logger *slog.Logger
	attrs  []any
	buf    []byte
}

// NewWriter constructs a Writer bound to the provided logger. The attrs are
// attached to every emitted record.
func NewWriter(logger *slog.Logger, attrs ...any) *Writer {
	return &Writer{logger: logger, attrs: attrs}
}

// Write buffers p and logs every complete line at info level.
func (w *Writer) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Close logs any buffered partial line.
func (w *Writer) Close() error {
	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
	return nil
}

func (w *Writer) emit(line string) {
	line = strings.TrimRight(line, "\r")
	if w.logger == nil || line == "" {
		return
	}
	w.logger.Info("command output", append([]any{"line", line}, w.attrs...)...)
}
