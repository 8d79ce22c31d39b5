// Package job defines the immutable input records the pipeline operates on:
// the candidate profile and the job postings queued for evaluation. Both are
// produced by external collaborators (resume extraction, portal scraping) and
// arrive here as JSON files.
package job

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Profile is the structured candidate data extracted from a resume.
// Loaded once and never mutated for the lifetime of a run.
type Profile struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Location        string   `json:"location"`
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years"`
	Companies       []string `json:"companies,omitempty"`
}

// FirstName returns the first whitespace-separated token of the full name.
func (p *Profile) FirstName() string {
	parts := strings.Fields(p.Name)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// LastName returns the final name token, or empty when the name has a single token.
func (p *Profile) LastName() string {
	parts := strings.Fields(p.Name)
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}

// Posting is a single scraped job listing. URL is the canonical identity used
// by the ledger for deduplication.
type Posting struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"job_title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Portal      string `json:"portal,omitempty"`
}

// Queue is an ordered list of postings awaiting a decision.
type Queue struct {
	Items []*Posting
}

func (q *Queue) Len() int {
	return len(q.Items)
}

// LoadProfile reads the candidate profile from a JSON file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile %q: %w", path, err)
	}

	if strings.TrimSpace(profile.Email) == "" {
		return nil, fmt.Errorf("profile %q has no email", path)
	}

	return &profile, nil
}

// LoadQueue reads the apply queue from a JSON file. A missing file yields an
// empty queue, not an error, so a run with nothing pending exits cleanly.
func LoadQueue(path string) (*Queue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Queue{}, nil
		}
		return nil, fmt.Errorf("reading apply queue: %w", err)
	}

	var items []*Posting
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing apply queue %q: %w", path, err)
	}

	return &Queue{Items: items}, nil
}
