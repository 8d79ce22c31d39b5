package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSV appends entries to a local CSV file, writing the header on creation.
type CSV struct {
	path string
}

func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

func (c *CSV) Name() string { return "csv" }

func (c *CSV) Append(_ context.Context, entry Entry) error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}

	_, statErr := os.Stat(c.path)
	isNew := os.IsNotExist(statErr)

	file, err := os.OpenFile(c.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening csv log: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if isNew {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
	}

	if err := writer.Write(entry.row()); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}

	writer.Flush()
	return writer.Error()
}
