package sink

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets appends entries to a Google Sheet through a service account. The
// sheet must be shared with the service account's email.
type Sheets struct {
	service       *sheets.Service
	spreadsheetID string
	sheetRange    string
}

// NewSheets builds the sink from a service-account credentials file and the
// target spreadsheet id.
func NewSheets(ctx context.Context, credentialsFile, spreadsheetID string) (*Sheets, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	return &Sheets{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetRange:    "A:G",
	}, nil
}

func (s *Sheets) Name() string { return "sheets" }

func (s *Sheets) Append(ctx context.Context, entry Entry) error {
	row := entry.row()
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{values},
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetRange, valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending to spreadsheet: %w", err)
	}

	return nil
}
