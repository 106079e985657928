package event

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileSink writes events as a single top-level JSON array, per spec
// §6's "when persisted, a single top-level array of objects". Unlike
// the teacher's journal.Log (append-only JSONL reopened per write),
// the array-framing requirement means the file is rewritten whole on
// Close rather than appended line by line.
type FileSink struct {
	path string
	mu   sync.Mutex
	buf  []Event
}

// NewFileSink returns a sink that accumulates events in memory and
// writes them as a JSON array to path on Close.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Write(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, ev)
	return nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(s.buf)
	if err != nil {
		return fmt.Errorf("event: marshal trace: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}
