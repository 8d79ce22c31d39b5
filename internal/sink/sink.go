// Package sink mirrors application outcomes to tabular collaborators: a
// local CSV file and optionally a Google Sheet. Sinks are best-effort; a
// sink failure is logged and never affects ledger correctness.
package sink

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Entry is the fixed record shape every sink receives.
type Entry struct {
	Timestamp time.Time
	Company   string
	Title     string
	Location  string
	Portal    string
	Status    string
	URL       string
}

// Sink appends one entry to a destination.
type Sink interface {
	Name() string
	Append(ctx context.Context, entry Entry) error
}

// AppendAll sends the entry to every sink, logging failures and moving on.
func AppendAll(ctx context.Context, sinks []Sink, entry Entry, logger *zap.Logger) {
	for _, s := range sinks {
		if err := s.Append(ctx, entry); err != nil {
			logger.Warn("sink append failed",
				zap.String("sink", s.Name()),
				zap.String("url", entry.URL),
				zap.Error(err),
			)
			continue
		}

		logger.Debug("logged application", zap.String("sink", s.Name()), zap.String("url", entry.URL))
	}
}

func (e Entry) row() []string {
	return []string{
		e.Timestamp.Format("2006-01-02 15:04"),
		e.Company,
		e.Title,
		e.Location,
		e.Portal,
		e.Status,
		e.URL,
	}
}

var header = []string{"Date", "Company", "Job Title", "Location", "Portal", "Status", "URL"}
