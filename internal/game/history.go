package game

import (
	"fmt"

	"github.com/lox/twentyone/internal/fileutil"
)

// HistoryWriter persists settled rounds
type HistoryWriter interface {
	WriteRound(record RoundRecord) error
}

// HistoryRecorder subscribes to a session's events and keeps every settled
// round. When a writer is set each record is also forwarded to it.
type HistoryRecorder struct {
	records []RoundRecord
	writer  HistoryWriter
	errs    []error
}

// NewHistoryRecorder creates a recorder. writer may be nil.
func NewHistoryRecorder(writer HistoryWriter) *HistoryRecorder {
	return &HistoryRecorder{writer: writer}
}

// OnEvent records RoundSettledEvents and ignores everything else
func (h *HistoryRecorder) OnEvent(event GameEvent) {
	settled, ok := event.(RoundSettledEvent)
	if !ok {
		return
	}
	h.records = append(h.records, settled.Record)
	if h.writer != nil {
		if err := h.writer.WriteRound(settled.Record); err != nil {
			h.errs = append(h.errs, fmt.Errorf("round %d: %w", settled.Record.Round, err))
		}
	}
}

// Records returns the settled rounds in order
func (h *HistoryRecorder) Records() []RoundRecord {
	return append([]RoundRecord(nil), h.records...)
}

// Errors returns writer failures seen so far
func (h *HistoryRecorder) Errors() []error {
	return h.errs
}

// Net returns the total bankroll change across recorded rounds
func (h *HistoryRecorder) Net() int {
	net := 0
	for _, r := range h.records {
		net += r.Delta
	}
	return net
}

// WriteJSON saves the recorded rounds to path atomically
func (h *HistoryRecorder) WriteJSON(path string) error {
	if err := fileutil.WriteJSON(path, h.records, 0o644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
