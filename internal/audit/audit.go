// Package audit appends timestamped event lines to a plain text file.
// The file is write-only from the service's point of view: nothing in
// the system ever reads it back.
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"cookiegate/lib/clock"
	"cookiegate/lib/sl"
)

const (
	CategoryRedeem = "REDEEM"
	CategoryAdmin  = "ADMIN"
	CategoryCheck  = "CHECK"
)

// Entry is one audit event; also the document shape for the optional
// archive sink.
type Entry struct {
	At       string `bson:"at"`
	Category string `bson:"category"`
	Message  string `bson:"message"`
}

// Archive is an optional secondary sink for audit entries. A nil archive
// means file-only operation.
type Archive interface {
	SaveEvent(entry *Entry) error
}

type Log struct {
	mu      sync.Mutex
	path    string
	archive Archive
	log     *slog.Logger
}

func New(path string, archive Archive, log *slog.Logger) *Log {
	return &Log{
		path:    path,
		archive: archive,
		log:     log.With(sl.Module("audit")),
	}
}

// Event appends one line to the audit file. A write failure is logged
// but does not fail the operation being audited: the work it records
// has already happened.
func (l *Log) Event(category, format string, args ...interface{}) {
	entry := Entry{
		At:       clock.Now(),
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}

	l.mu.Lock()
	err := l.append(&entry)
	l.mu.Unlock()
	if err != nil {
		l.log.Error("appending audit entry", sl.Err(err))
	}

	if l.archive == nil {
		return
	}
	if err = l.archive.SaveEvent(&entry); err != nil {
		l.log.Warn("archiving audit entry", sl.Err(err))
	}
}

func (l *Log) append(entry *Entry) error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "[%s] [%s] %s\n", entry.At, entry.Category, entry.Message)
	return err
}
