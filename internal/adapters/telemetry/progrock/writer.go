package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
	"github.com/vito/progrock"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/mcsmith/internal/ui/output"
	"go.trai.ch/mcsmith/internal/ui/style"
)

// LineWriter is a progrock.Writer that prints one status line per vertex
// once it reaches a terminal state.
type LineWriter struct {
	mu     sync.Mutex
	out    *termenv.Output
	status map[string]domain.VertexStatus
}

// NewLineWriter creates a LineWriter printing to w.
func NewLineWriter(w io.Writer) *LineWriter {
	lw := &LineWriter{status: make(map[string]domain.VertexStatus)}
	lw.SetOutput(w)
	return lw
}

// SetOutput changes the destination. A nil writer discards output.
func (lw *LineWriter) SetOutput(w io.Writer) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	lw.out = output.New(w)
}

// WriteStatus consumes a status update.
func (lw *LineWriter) WriteStatus(update *progrock.StatusUpdate) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	for _, v := range update.Vertexes {
		next := vertexStatus(v)
		if prev, ok := lw.status[v.Id]; ok && prev.IsTerminal() {
			continue
		}
		lw.status[v.Id] = next
		if next.IsTerminal() {
			lw.print(v, next)
		}
	}
	return nil
}

// Close implements progrock.Writer.
func (lw *LineWriter) Close() error {
	return nil
}

// Status reports the last status seen for a vertex id.
func (lw *LineWriter) Status(id string) domain.VertexStatus {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if s, ok := lw.status[id]; ok {
		return s
	}
	return domain.VertexStatusPending
}

func (lw *LineWriter) print(v *progrock.Vertex, status domain.VertexStatus) {
	var line string
	switch status {
	case domain.VertexStatusFailed:
		line = output.Colorize(lw.out, style.Cross+" "+v.Name, string(style.Redst))
		if v.Error != nil {
			line += ": " + *v.Error
		}
	case domain.VertexStatusCached:
		line = output.Colorize(lw.out, style.Dot+" "+v.Name, string(style.Stone)) + " (up to date)"
	default:
		line = output.Colorize(lw.out, style.Check+" "+v.Name, string(style.Grass))
	}
	_, _ = fmt.Fprintln(lw.out, line)
}

func vertexStatus(v *progrock.Vertex) domain.VertexStatus {
	switch {
	case v.Completed == nil:
		return domain.VertexStatusRunning
	case v.Error != nil:
		return domain.VertexStatusFailed
	case v.Cached:
		return domain.VertexStatusCached
	default:
		return domain.VertexStatusCompleted
	}
}
