// Package ledger is the append-only record of past application outcomes,
// keyed by posting URL. It is what makes the pipeline idempotent across
// runs: callers check IsApplied before starting a job, so a URL accumulates
// at most one applied record under normal operation.
package ledger

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seeker-agent/seeker/internal/job"
)

// Status is the terminal outcome recorded for a job.
type Status string

const (
	StatusApplied Status = "APPLIED"
	StatusFailed  Status = "FAILED"
	StatusSkipped Status = "SKIPPED"
)

// Record is one ledger entry. Never mutated after creation; the only way to
// remove entries is an explicit Clear.
type Record struct {
	URL       string    `json:"url"`
	AppliedAt time.Time `json:"applied_at"`
	Status    Status    `json:"status"`
	JobTitle  string    `json:"job_title,omitempty"`
	Company   string    `json:"company,omitempty"`
	Location  string    `json:"location,omitempty"`
	Portal    string    `json:"portal,omitempty"`
}

// Store is the persistence backend. The ledger reads it fully on open and
// rewrites it fully on every append. A single running instance is assumed;
// concurrent external writers are not supported.
type Store interface {
	Load() ([]*Record, error)
	Save(records []*Record) error
}

// Memory owns the ledger's in-process view and its storage.
type Memory struct {
	store   Store
	records []*Record
	logger  *zap.Logger
}

// Open loads the ledger from the store. A corrupt or missing store is
// treated as an empty ledger with a warning: failing open to "never applied"
// beats crashing the run.
func Open(store Store, logger *zap.Logger) *Memory {
	records, err := store.Load()
	if err != nil {
		logger.Warn("application memory unreadable, starting empty", zap.Error(err))
		records = nil
	}

	return &Memory{
		store:   store,
		records: records,
		logger:  logger,
	}
}

// IsApplied reports whether the URL already has any record in the ledger.
func (m *Memory) IsApplied(url string) bool {
	for _, record := range m.records {
		if record.URL == url {
			return true
		}
	}
	return false
}

// MarkApplied appends a record for the URL and persists the ledger. It always
// appends; deduplication is the caller's job via IsApplied.
func (m *Memory) MarkApplied(url string, posting *job.Posting, status Status) (*Record, error) {
	record := &Record{
		URL:       url,
		AppliedAt: time.Now(),
		Status:    status,
	}

	if posting != nil {
		record.JobTitle = posting.Title
		record.Company = posting.Company
		record.Location = posting.Location
		record.Portal = posting.Portal
	}

	m.records = append(m.records, record)

	if err := m.store.Save(m.records); err != nil {
		return record, fmt.Errorf("saving application memory: %w", err)
	}

	m.logger.Info("job recorded in application memory",
		zap.String("url", url),
		zap.String("status", string(status)),
	)

	return record, nil
}

// Len returns the number of records.
func (m *Memory) Len() int {
	return len(m.records)
}

// Clear removes every record and persists the empty ledger.
func (m *Memory) Clear() error {
	m.records = nil
	if err := m.store.Save(m.records); err != nil {
		return fmt.Errorf("clearing application memory: %w", err)
	}
	return nil
}

// Stats summarizes the ledger contents.
type Stats struct {
	Total    int
	Today    int
	ByStatus map[Status]int
	ByPortal map[string]int
}

func (m *Memory) Stats() Stats {
	stats := Stats{
		Total:    len(m.records),
		ByStatus: make(map[Status]int),
		ByPortal: make(map[string]int),
	}

	today := time.Now().Format("2006-01-02")
	for _, record := range m.records {
		stats.ByStatus[record.Status]++

		portal := record.Portal
		if portal == "" {
			portal = "unknown"
		}
		stats.ByPortal[portal]++

		if record.AppliedAt.Format("2006-01-02") == today {
			stats.Today++
		}
	}

	return stats
}
