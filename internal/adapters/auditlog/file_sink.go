package auditlog

import (
	"context"
	"encoding/csv"
	"os"
	"time"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/domain/repositories"
)

// auditFields is the fixed record schema: one CSV line per event, in this
// column order, forever.
var auditFields = []string{"username", "role", "timestamp", "event", "action"}

// FileSink appends audit events to a CSV file. The file is created with a
// header row when absent and only ever appended to afterwards: no seek, no
// rewrite, no truncation. Opening per append keeps each record durable on its
// own, so a crash loses at most the event being written.
type FileSink struct {
	path string
}

// NewFileSink creates a file sink at the given path.
func NewFileSink(path string) repositories.AuditSink {
	return &FileSink{path: path}
}

// Append writes exactly one record.
func (s *FileSink) Append(ctx context.Context, event entities.AuditEvent) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if err := s.write(f, event); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *FileSink) write(f *os.File, event entities.AuditEvent) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(auditFields); err != nil {
			return err
		}
	}
	if err := w.Write([]string{
		event.Username,
		event.Role,
		event.Timestamp.UTC().Format(time.RFC3339),
		event.Kind,
		event.Detail,
	}); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
